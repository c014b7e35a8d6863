package models

import (
	"testing"
	"time"
)

func TestListKindCounts(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	open := &Task{Text: "Comprar leche", DueDate: "2026-08-31 19:00", ItemType: ItemTypeTask, Relationships: []string{"Alice", "compras"}}
	done := &Task{Text: "Sacar la basura", IsCompleted: true, ItemType: ItemTypeTask}
	habit := &Task{Text: "Meditar", ItemType: ItemTypeHabit}
	later := &Task{Text: "Organizar cumpleaños", DueDate: "2026-09-15", ItemType: ItemTypeProject}

	tests := []struct {
		name string
		kind ListKind
		task *Task
		want bool
	}{
		{name: "all counts open", kind: AllList{}, task: open, want: true},
		{name: "all skips completed", kind: AllList{}, task: done, want: false},
		{name: "today counts due today", kind: TodayList{}, task: open, want: true},
		{name: "today skips future", kind: TodayList{}, task: later, want: false},
		{name: "today skips undated", kind: TodayList{}, task: habit, want: false},
		{name: "item type match", kind: ItemTypeList{Type: ItemTypeHabit}, task: habit, want: true},
		{name: "item type mismatch", kind: ItemTypeList{Type: ItemTypeHabit}, task: open, want: false},
		{name: "item type skips completed", kind: ItemTypeList{Type: ItemTypeTask}, task: done, want: false},
		{name: "relationship case-insensitive", kind: RelationshipList{Name: "alice"}, task: open, want: true},
		{name: "relationship absent", kind: RelationshipList{Name: "bob"}, task: open, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.kind.Counts(tt.task, now); got != tt.want {
				t.Errorf("Counts = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDueToday(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		due  string
		want bool
	}{
		{due: "2026-08-31", want: true},
		{due: "2026-08-31 19:00", want: true},
		{due: "31/08/2026", want: true},
		{due: "31-08-2026", want: true},
		{due: "2026-09-01", want: false},
		{due: "mañana", want: false},
		{due: "", want: false},
	}

	for _, tt := range tests {
		if got := dueToday(tt.due, now); got != tt.want {
			t.Errorf("dueToday(%q) = %v, want %v", tt.due, got, tt.want)
		}
	}
}

func TestColorForName(t *testing.T) {
	t.Parallel()

	if ColorForName("Compras") != ColorForName("compras") {
		t.Error("color should ignore case")
	}
	if ColorForName(" compras ") != ColorForName("compras") {
		t.Error("color should ignore surrounding whitespace")
	}

	// Every name lands inside the palette.
	seen := map[string]bool{}
	for _, p := range listPalette {
		seen[p] = true
	}
	for _, name := range []string{"all", "today", "family", "Alice", "Bob", "compras"} {
		if !seen[ColorForName(name)] {
			t.Errorf("color for %q is outside the palette", name)
		}
	}
}

func TestItemTypeEqual(t *testing.T) {
	t.Parallel()

	if !ItemType("Task").Equal(ItemTypeTask) {
		t.Error("item type equality should ignore case")
	}
	if ItemTypeTask.Equal(ItemTypeProject) {
		t.Error("distinct types should differ")
	}
	if !ItemTypeNone.Equal(ItemType("")) {
		t.Error("empty types should be equal")
	}
}

func TestAddRelationship(t *testing.T) {
	t.Parallel()

	task := &Task{}
	task.AddRelationship("Alice")
	task.AddRelationship("compras")
	task.AddRelationship("alice") // duplicate, different case
	task.AddRelationship("")

	if len(task.Relationships) != 2 {
		t.Fatalf("relationships = %v, want 2 entries", task.Relationships)
	}
	if task.Relationships[0] != "Alice" || task.Relationships[1] != "compras" {
		t.Errorf("order not preserved: %v", task.Relationships)
	}
	if !task.HasRelationship("ALICE") {
		t.Error("relationship lookup should ignore case")
	}
}
