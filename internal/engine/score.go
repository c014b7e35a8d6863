// Package engine implements the task deduplication/merge core: information
// scoring, equivalence matching, field-level merging, the slot-filling
// conversation state machine and the in-memory reminder store.
package engine

import (
	"regexp"
	"strings"

	"github.com/listoapp/listo/internal/models"
)

// Scoring weights. The score is a relative completeness metric used only to
// arbitrate between two versions of conceptually the same task; it has no
// absolute meaning and no upper bound.
const (
	scorePerWord         = 2.0
	scoreDueDate         = 15.0
	scoreDueDateWithTime = 10.0
	scoreAssignee        = 8.0
	scorePerRelationship = 5.0
	scorePerNoteChar     = 0.5
)

// timeOfDayPattern matches HH:MM or an am/pm marker inside a date string.
var timeOfDayPattern = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\b|\b\d{1,2}\s*(?:am|pm)\b`)

// HasTimeOfDay reports whether a due date string carries a time component.
func HasTimeOfDay(dueDate string) bool {
	return timeOfDayPattern.MatchString(dueDate)
}

// InformationScore computes the heuristic richness of a task, monotonically
// increasing in the amount of usable information it carries.
func InformationScore(t *models.Task) float64 {
	var score float64

	score += scorePerWord * float64(len(strings.Fields(t.Text)))

	if strings.TrimSpace(t.DueDate) != "" {
		score += scoreDueDate
		if HasTimeOfDay(t.DueDate) {
			score += scoreDueDateWithTime
		}
	}

	if strings.TrimSpace(t.AssignedTo) != "" {
		score += scoreAssignee
	}

	score += scorePerRelationship * float64(len(t.Relationships))
	score += scorePerNoteChar * float64(len(t.Notes))

	return score
}
