package engine

import (
	"strings"

	"github.com/listoapp/listo/internal/models"
	"github.com/listoapp/listo/internal/textsim"
)

const (
	// DefaultMatchThreshold is the strict text-similarity threshold for two
	// tasks to be considered the same.
	DefaultMatchThreshold = 0.85
	// AssigneeMatchThreshold is the relaxed threshold applied when both
	// tasks name the same assignee. A strict textual threshold alone misses
	// near-duplicates phrased differently by the same person; relaxing it
	// only when the assignee also matches bounds false positives.
	AssigneeMatchThreshold = 0.70
)

// MatchCandidate is the slice of an incoming task that matching looks at.
type MatchCandidate struct {
	Text       string
	AssignedTo string
	ItemType   models.ItemType
}

// Match is the outcome of a search over existing tasks. A no-match is
// encoded as Index == -1 with a nil Task and zero Similarity.
type Match struct {
	Index      int
	Task       *models.Task
	Similarity float64
}

// Found reports whether a match was located.
func (m Match) Found() bool { return m.Index >= 0 }

// NoMatch is the zero outcome returned when no existing task qualifies.
var NoMatch = Match{Index: -1}

// FindMatch searches existing tasks for the best equivalence match for the
// candidate. Completed tasks are never merge targets. Two tasks qualify only
// if their item types are equal (case-insensitive) and either text
// similarity reaches threshold, or the assignee matches case-insensitively
// and similarity reaches the relaxed AssigneeMatchThreshold. Among
// qualifying tasks the one with the highest raw similarity wins; ties break
// to the lowest index, which keeps selection stable and deterministic.
func FindMatch(candidate MatchCandidate, existing []*models.Task, threshold float64) Match {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}

	best := NoMatch
	for i, task := range existing {
		if task.IsCompleted {
			continue
		}
		if !task.ItemType.Equal(candidate.ItemType) {
			continue
		}

		sim := textsim.Similarity(candidate.Text, task.Text)

		sameAssignee := candidate.AssignedTo != "" &&
			strings.EqualFold(candidate.AssignedTo, task.AssignedTo)

		if sim < threshold && !(sameAssignee && sim >= AssigneeMatchThreshold) {
			continue
		}

		if sim > best.Similarity || !best.Found() {
			best = Match{Index: i, Task: task, Similarity: sim}
		}
	}

	return best
}
