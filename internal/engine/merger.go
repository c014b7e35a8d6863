package engine

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/listoapp/listo/internal/models"
)

// TaskUpdates is the partial update a merge produces. Nil pointers mean
// "leave the field alone".
type TaskUpdates struct {
	Text          *string  `json:"text,omitempty"`
	DueDate       *string  `json:"due_date,omitempty"`
	AssignedTo    *string  `json:"assigned_to,omitempty"`
	Relationships []string `json:"relationships,omitempty"`
	IsCompleted   *bool    `json:"is_completed,omitempty"`
}

// Empty reports whether the update set carries no changes.
func (u TaskUpdates) Empty() bool {
	return u.Text == nil && u.DueDate == nil && u.AssignedTo == nil &&
		u.Relationships == nil && u.IsCompleted == nil
}

// MergeResult is the decision for a matched existing task and new incoming
// fields: whether to update at all, the field updates to apply, and a
// human-readable audit reason.
type MergeResult struct {
	Updates      TaskUpdates `json:"updates"`
	ShouldUpdate bool        `json:"should_update"`
	Reason       string      `json:"reason"`
}

// fieldsAsTask builds a synthetic task from incoming fields so both sides of
// the score comparison go through the same scorer. Notes stay empty: chat
// extraction never supplies them. The category tag is folded into
// relationships, the same policy the create path applies.
func fieldsAsTask(f models.TaskFields) *models.Task {
	t := &models.Task{
		Text:       f.TaskName,
		DueDate:    f.DueDate,
		ItemType:   f.ItemType,
		AssignedTo: f.AssignedTo,
	}
	for _, p := range f.PeopleInvolved {
		t.AddRelationship(p)
	}
	if f.TaskCategory != "" {
		t.AddRelationship(f.TaskCategory)
	}
	return t
}

// Merge decides how new incoming fields combine with a matched existing
// task. An incoming utterance that is strictly less informative than what is
// already known never overwrites good data; otherwise each field follows its
// own update rule independently.
func Merge(existing *models.Task, fields models.TaskFields) MergeResult {
	incoming := fieldsAsTask(fields)

	existingScore := InformationScore(existing)
	newScore := InformationScore(incoming)

	if newScore < existingScore {
		return MergeResult{
			ShouldUpdate: false,
			Reason: fmt.Sprintf("kept existing version: information score %.1f vs incoming %.1f",
				existingScore, newScore),
		}
	}

	var updates TaskUpdates
	var changed []string

	// Text: only a strictly longer variant replaces the current one. Length
	// is measured in runes so accented text compares fairly.
	if utf8.RuneCountInString(incoming.Text) > utf8.RuneCountInString(existing.Text) {
		text := incoming.Text
		updates.Text = &text
		changed = append(changed, "text")
	}

	// Due date: fill when empty; replace a differing value only when the new
	// one is at least as precise (never regress from timed to untimed).
	if incoming.DueDate != "" {
		existingEmpty := strings.TrimSpace(existing.DueDate) == ""
		differs := incoming.DueDate != existing.DueDate
		noTimeRegression := !HasTimeOfDay(existing.DueDate) || HasTimeOfDay(incoming.DueDate)
		if existingEmpty || (differs && noTimeRegression) {
			due := incoming.DueDate
			updates.DueDate = &due
			changed = append(changed, "due date")
		}
	}

	// Assignee: new wins once present.
	if incoming.AssignedTo != "" && !strings.EqualFold(existing.AssignedTo, incoming.AssignedTo) {
		assignee := incoming.AssignedTo
		updates.AssignedTo = &assignee
		changed = append(changed, "assignee")
	}

	// Relationships: deduplicated union, applied only when it strictly grows
	// the existing set.
	union := unionRelationships(existing.Relationships, incoming.Relationships)
	if len(union) > len(existing.Relationships) {
		updates.Relationships = union
		changed = append(changed, "relationships")
	}

	// Reopening policy: new activity on a completed task reopens it.
	if existing.IsCompleted {
		reopened := false
		updates.IsCompleted = &reopened
		changed = append(changed, "reopened")
	}

	if updates.Empty() {
		return MergeResult{
			ShouldUpdate: false,
			Reason:       "no field adds information over the existing task",
		}
	}

	return MergeResult{
		Updates:      updates,
		ShouldUpdate: true,
		Reason:       "updated " + strings.Join(changed, ", "),
	}
}

// unionRelationships merges two participant lists preserving the order of
// the first, with case-insensitive dedup.
func unionRelationships(existing, incoming []string) []string {
	out := make([]string, 0, len(existing)+len(incoming))
	seen := func(name string) bool {
		for _, r := range out {
			if strings.EqualFold(r, name) {
				return true
			}
		}
		return false
	}
	for _, r := range existing {
		if r != "" && !seen(r) {
			out = append(out, r)
		}
	}
	for _, r := range incoming {
		if r != "" && !seen(r) {
			out = append(out, r)
		}
	}
	return out
}
