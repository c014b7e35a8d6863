package engine

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/listoapp/listo/internal/models"
	"github.com/listoapp/listo/internal/textsim"
)

// Action is the outcome kind of a create-or-update attempt.
type Action string

const (
	ActionCreated      Action = "created"
	ActionUpdated      Action = "updated"
	ActionKeptExisting Action = "kept_existing"
)

// Outcome describes what a create-or-update attempt did, for the
// presentation layer to render a confirmation.
type Outcome struct {
	Action     Action    `json:"action"`
	TaskID     uuid.UUID `json:"task_id"`
	TaskName   string    `json:"task_name"`
	Similarity float64   `json:"similarity,omitempty"`
	Reason     string    `json:"reason,omitempty"`
}

// familyKeywords drive the parent-group heuristic for synthesized lists
// whose name suggests a family member.
var familyKeywords = map[string]struct{}{
	"familia": {}, "family": {},
	"mama": {}, "papa": {}, "mom": {}, "dad": {},
	"abuelo": {}, "abuela": {}, "hijo": {}, "hija": {},
	"tio": {}, "tia": {}, "hermano": {}, "hermana": {},
}

// Store holds the reminder and list collections and applies matcher/merger
// decisions as state transitions. Every mutation is a synchronous, atomic
// transform under the lock; there is exactly one logical writer, the lock
// exists for concurrent readers on the HTTP surface.
type Store struct {
	mu        sync.RWMutex
	tasks     []*models.Task
	lists     []*models.List
	threshold float64
	now       func() time.Time
}

// NewStore creates a store seeded with the built-in lists.
func NewStore(matchThreshold float64) *Store {
	if matchThreshold <= 0 {
		matchThreshold = DefaultMatchThreshold
	}
	s := &Store{
		threshold: matchThreshold,
		now:       time.Now,
	}
	s.lists = []*models.List{
		newList("all", models.AllList{}, ""),
		newList("today", models.TodayList{}, ""),
		newList("tasks", models.ItemTypeList{Type: models.ItemTypeTask}, models.ListGroupTask),
		newList("projects", models.ItemTypeList{Type: models.ItemTypeProject}, models.ListGroupProject),
		newList("habits", models.ItemTypeList{Type: models.ItemTypeHabit}, models.ListGroupHabit),
		newList("family", models.RelationshipList{Name: "family"}, models.ListGroupFamily),
	}
	return s
}

func newList(name string, kind models.ListKind, parent string) *models.List {
	return &models.List{
		ID:       uuid.New(),
		Name:     name,
		Color:    models.ColorForName(name),
		ParentID: parent,
		Kind:     kind,
	}
}

// CreateOrUpdateTask runs the full matcher/merger pipeline for extracted
// fields and commits the resulting state transition.
func (s *Store) CreateOrUpdateTask(fields models.TaskFields) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := MatchCandidate{
		Text:       fields.TaskName,
		AssignedTo: fields.AssignedTo,
		ItemType:   fields.ItemType,
	}
	match := FindMatch(candidate, s.tasks, s.threshold)

	if !match.Found() {
		task := s.createTask(fields)
		s.recomputeCounts()
		return Outcome{
			Action:   ActionCreated,
			TaskID:   task.ID,
			TaskName: task.Text,
		}
	}

	result := Merge(match.Task, fields)
	if !result.ShouldUpdate {
		return Outcome{
			Action:     ActionKeptExisting,
			TaskID:     match.Task.ID,
			TaskName:   match.Task.Text,
			Similarity: match.Similarity,
			Reason:     result.Reason,
		}
	}

	s.applyUpdates(s.tasks[match.Index], result.Updates)
	s.recomputeCounts()
	return Outcome{
		Action:     ActionUpdated,
		TaskID:     match.Task.ID,
		TaskName:   match.Task.Text,
		Similarity: match.Similarity,
		Reason:     result.Reason,
	}
}

// createTask builds a new task from extracted fields, folding the category
// tag into relationships and synthesizing any lists the task references.
// Caller holds the lock.
func (s *Store) createTask(fields models.TaskFields) *models.Task {
	now := s.now()
	task := &models.Task{
		ID:         uuid.New(),
		Text:       fields.TaskName,
		DueDate:    fields.DueDate,
		ItemType:   fields.ItemType,
		AssignedTo: fields.AssignedTo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, p := range fields.PeopleInvolved {
		task.AddRelationship(p)
	}
	if fields.TaskCategory != "" {
		task.AddRelationship(fields.TaskCategory)
	}

	task.ListID = s.defaultListID()
	s.synthesizeLists(task)
	s.tasks = append(s.tasks, task)
	return task
}

// applyUpdates applies a merge decision to a task in place.
// Caller holds the lock.
func (s *Store) applyUpdates(task *models.Task, updates TaskUpdates) {
	if updates.Text != nil {
		task.Text = *updates.Text
	}
	if updates.DueDate != nil {
		task.DueDate = *updates.DueDate
	}
	if updates.AssignedTo != nil {
		task.AssignedTo = *updates.AssignedTo
	}
	if updates.Relationships != nil {
		task.Relationships = updates.Relationships
	}
	if updates.IsCompleted != nil {
		task.IsCompleted = *updates.IsCompleted
	}
	task.UpdatedAt = s.now()
	s.synthesizeLists(task)
}

// defaultListID picks the owning list for a new task: the family list when
// present, else the catch-all list.
func (s *Store) defaultListID() uuid.UUID {
	if l := s.findList("family"); l != nil {
		return l.ID
	}
	if l := s.findList("all"); l != nil {
		return l.ID
	}
	return uuid.Nil
}

func (s *Store) findList(name string) *models.List {
	for _, l := range s.lists {
		if strings.EqualFold(l.Name, name) {
			return l
		}
	}
	return nil
}

// synthesizeLists lazily creates a list for every relationship and assignee
// name the task references that has no list yet. Creation is a no-op when a
// list with the same name already exists, compared case-insensitively.
// Caller holds the lock.
func (s *Store) synthesizeLists(task *models.Task) {
	names := make([]string, 0, len(task.Relationships)+1)
	names = append(names, task.Relationships...)
	if task.AssignedTo != "" {
		names = append(names, task.AssignedTo)
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || s.findList(name) != nil {
			continue
		}
		s.lists = append(s.lists, newList(
			name,
			models.RelationshipList{Name: name},
			s.parentGroupFor(name, task.ItemType),
		))
	}
}

// parentGroupFor picks the group a synthesized list hangs under: the item
// type's group when known, else the family group when the name reads like a
// family member, else ungrouped (catch-all).
func (s *Store) parentGroupFor(name string, itemType models.ItemType) string {
	switch {
	case itemType.Equal(models.ItemTypeTask):
		return models.ListGroupTask
	case itemType.Equal(models.ItemTypeProject):
		return models.ListGroupProject
	case itemType.Equal(models.ItemTypeHabit):
		return models.ListGroupHabit
	}
	for _, word := range strings.Fields(textsim.Normalize(name)) {
		if _, ok := familyKeywords[word]; ok {
			return models.ListGroupFamily
		}
	}
	return ""
}

// recomputeCounts recalculates every list count from scratch using the list
// kind's predicate. Full recomputation keeps the operation idempotent and
// independent of list order. Caller holds the lock.
func (s *Store) recomputeCounts() {
	now := s.now()
	for _, list := range s.lists {
		kind := list.Kind
		if kind == nil {
			kind = models.RelationshipList{Name: list.Name}
		}
		count := 0
		for _, task := range s.tasks {
			if kind.Counts(task, now) {
				count++
			}
		}
		list.Count = count
	}
}

// ToggleComplete flips a task's completion state.
func (s *Store) ToggleComplete(id uuid.UUID) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := s.findTask(id)
	if task == nil {
		return models.Task{}, fmt.Errorf("task %s not found", id)
	}
	task.IsCompleted = !task.IsCompleted
	task.UpdatedAt = s.now()
	s.recomputeCounts()
	return *task, nil
}

// ToggleFlag flips a task's flag, independent of matching.
func (s *Store) ToggleFlag(id uuid.UUID) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := s.findTask(id)
	if task == nil {
		return models.Task{}, fmt.Errorf("task %s not found", id)
	}
	task.IsFlagged = !task.IsFlagged
	task.UpdatedAt = s.now()
	return *task, nil
}

func (s *Store) findTask(id uuid.UUID) *models.Task {
	for _, t := range s.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Tasks returns a snapshot copy of all tasks.
func (s *Store) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		task := *t
		task.Relationships = append([]string(nil), t.Relationships...)
		out = append(out, task)
	}
	return out
}

// Lists returns a snapshot copy of all lists.
func (s *Store) Lists() []models.List {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.List, 0, len(s.lists))
	for _, l := range s.lists {
		out = append(out, *l)
	}
	return out
}
