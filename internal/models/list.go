package models

import (
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// List group keys used as ParentID values.
const (
	ListGroupTask    = "task"
	ListGroupProject = "project"
	ListGroupHabit   = "habit"
	ListGroupFamily  = "family"
)

// ListKind is a tagged variant over list kinds. Each kind carries its own
// counting predicate so count recomputation never branches on list IDs.
type ListKind interface {
	// Counts reports whether the task belongs to a list of this kind.
	Counts(t *Task, now time.Time) bool
}

// AllList counts every non-completed task.
type AllList struct{}

func (AllList) Counts(t *Task, _ time.Time) bool {
	return !t.IsCompleted
}

// TodayList counts non-completed tasks due today.
type TodayList struct{}

func (TodayList) Counts(t *Task, now time.Time) bool {
	return !t.IsCompleted && dueToday(t.DueDate, now)
}

// ItemTypeList counts non-completed tasks by item type.
type ItemTypeList struct {
	Type ItemType
}

func (k ItemTypeList) Counts(t *Task, _ time.Time) bool {
	return !t.IsCompleted && t.ItemType.Equal(k.Type)
}

// RelationshipList counts non-completed tasks whose relationships contain
// the list's name (case-insensitive).
type RelationshipList struct {
	Name string
}

func (k RelationshipList) Counts(t *Task, _ time.Time) bool {
	return !t.IsCompleted && t.HasRelationship(k.Name)
}

// List is a category bucket. Count is derived and recomputed from scratch
// on every task-set change.
type List struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	Count    int       `json:"count"`
	ParentID string    `json:"parent_id,omitempty"`
	Kind     ListKind  `json:"-"`
}

// listPalette is the fixed color palette for synthesized lists.
var listPalette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#FFA07A", "#98D8C8",
	"#F7DC6F", "#BB8FCE", "#85C1E9", "#F08080", "#82E0AA",
}

// ColorForName derives a deterministic palette color from a list name.
// The same name (ignoring case) always maps to the same color.
func ColorForName(name string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	return listPalette[int(h.Sum32())%len(listPalette)]
}

// dueToday reports whether a free-form due date string names today's date.
// Dates produced by extraction are date-shaped strings, possibly with a
// trailing time component.
func dueToday(due string, now time.Time) bool {
	due = strings.TrimSpace(due)
	if due == "" {
		return false
	}
	for _, layout := range []string{"2006-01-02", "02/01/2006", "02-01-2006"} {
		if len(due) < len(layout) {
			continue
		}
		if d, err := time.Parse(layout, due[:len(layout)]); err == nil {
			return d.Year() == now.Year() && d.YearDay() == now.YearDay()
		}
	}
	return false
}
