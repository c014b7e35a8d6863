package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ItemType classifies a task. It is a hard partition for equivalence
// matching: two tasks with different item types are never the same task.
type ItemType string

const (
	ItemTypeTask    ItemType = "task"
	ItemTypeProject ItemType = "project"
	ItemTypeHabit   ItemType = "habit"
	ItemTypeNone    ItemType = ""
)

// Equal compares item types case-insensitively.
func (it ItemType) Equal(other ItemType) bool {
	return strings.EqualFold(string(it), string(other))
}

// Task represents a reminder: a unit of schedulable work with category,
// assignee and participant metadata.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Text        string    `json:"text"`
	IsCompleted bool      `json:"is_completed"`
	ListID      uuid.UUID `json:"list_id"`
	DueDate     string    `json:"due_date,omitempty"`
	IsFlagged   bool      `json:"is_flagged"`
	// Relationships holds participant names (people or category tags),
	// ordered, with uniqueness enforced on write.
	Relationships []string  `json:"relationships,omitempty"`
	ItemType      ItemType  `json:"item_type"`
	AssignedTo    string    `json:"assigned_to,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasRelationship reports whether name is already present, case-insensitively.
func (t *Task) HasRelationship(name string) bool {
	for _, r := range t.Relationships {
		if strings.EqualFold(r, name) {
			return true
		}
	}
	return false
}

// AddRelationship appends name unless an equal entry (case-insensitive)
// already exists. Returns true if the set grew.
func (t *Task) AddRelationship(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || t.HasRelationship(name) {
		return false
	}
	t.Relationships = append(t.Relationships, name)
	return true
}

// TaskFields is the structured output of NLP extraction for a single task
// candidate. Multi-valued fields in the raw extraction response are reduced
// to their first element before this struct is built.
type TaskFields struct {
	TaskName       string   `json:"task_name"`
	PeopleInvolved []string `json:"people_involved,omitempty"`
	TaskCategory   string   `json:"task_category,omitempty"`
	DueDate        string   `json:"due_date,omitempty"`
	ItemType       ItemType `json:"item_type"`
	AssignedTo     string   `json:"assigned_to,omitempty"`
}

// PendingTask holds a fully-extracted-except-date task awaiting one more
// required field via conversation. At most one exists at a time.
type PendingTask struct {
	Fields          TaskFields `json:"fields"`
	MissingFields   []string   `json:"missing_fields"`
	OriginalMessage string     `json:"original_message"`
	CreatedAt       time.Time  `json:"created_at"`
}
