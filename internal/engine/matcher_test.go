package engine

import (
	"testing"

	"github.com/listoapp/listo/internal/models"
)

func task(text string, itemType models.ItemType, opts ...func(*models.Task)) *models.Task {
	t := &models.Task{Text: text, ItemType: itemType}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func completed(t *models.Task) { t.IsCompleted = true }
func assignedTo(name string) func(*models.Task) {
	return func(t *models.Task) { t.AssignedTo = name }
}

func TestFindMatch_ExactTextVariants(t *testing.T) {
	t.Parallel()

	existing := []*models.Task{
		task("Comprar leche", models.ItemTypeTask),
	}
	// Case variants normalize to the same text: similarity 1.0, match found
	// even with empty assignee.
	m := FindMatch(MatchCandidate{Text: "comprar LECHE", ItemType: models.ItemTypeTask}, existing, DefaultMatchThreshold)
	if !m.Found() {
		t.Fatal("expected a match for a case variant of the same text")
	}
	if m.Index != 0 || m.Similarity != 1 {
		t.Errorf("got index %d similarity %v, want 0 and 1", m.Index, m.Similarity)
	}
}

func TestFindMatch_ModerateSimilarityNoAssignee(t *testing.T) {
	t.Parallel()

	// "Buy milk" vs "Buy milk and bread": same item type but similarity well
	// below 0.85, and differing assignees rule out the relaxed tier.
	existing := []*models.Task{
		task("Buy milk", models.ItemTypeTask),
	}
	m := FindMatch(MatchCandidate{
		Text:       "Buy milk and bread",
		AssignedTo: "Alice",
		ItemType:   models.ItemTypeTask,
	}, existing, DefaultMatchThreshold)
	if m.Found() {
		t.Errorf("expected no match, got index %d similarity %v", m.Index, m.Similarity)
	}
}

func TestFindMatch_AssigneeTierRelaxesThreshold(t *testing.T) {
	t.Parallel()

	existing := []*models.Task{
		task("llamar al medico hoy", models.ItemTypeTask, assignedTo("Alice")),
	}
	candidate := MatchCandidate{
		Text:       "llamar al medico",
		AssignedTo: "alice",
		ItemType:   models.ItemTypeTask,
	}

	// Similarity here is ~0.67-0.8: below the strict threshold.
	strict := FindMatch(MatchCandidate{Text: candidate.Text, ItemType: models.ItemTypeTask}, existing, DefaultMatchThreshold)
	withAssignee := FindMatch(candidate, existing, DefaultMatchThreshold)

	if withAssignee.Found() == strict.Found() {
		t.Fatalf("assignee tier should change the outcome: strict=%v relaxed=%v (sim %v)",
			strict.Found(), withAssignee.Found(), withAssignee.Similarity)
	}
	if !withAssignee.Found() {
		t.Errorf("expected the matching assignee to relax the threshold (sim %v)", withAssignee.Similarity)
	}
}

func TestFindMatch_ItemTypeIsHardPartition(t *testing.T) {
	t.Parallel()

	existing := []*models.Task{
		task("Comprar leche", models.ItemTypeProject),
	}
	m := FindMatch(MatchCandidate{Text: "Comprar leche", ItemType: models.ItemTypeTask}, existing, DefaultMatchThreshold)
	if m.Found() {
		t.Error("identical text with different item types must never match")
	}

	// But item type comparison is case-insensitive.
	m = FindMatch(MatchCandidate{Text: "Comprar leche", ItemType: "Project"}, existing, DefaultMatchThreshold)
	if !m.Found() {
		t.Error("item type comparison should be case-insensitive")
	}
}

func TestFindMatch_CompletedTasksExcluded(t *testing.T) {
	t.Parallel()

	existing := []*models.Task{
		task("Comprar leche", models.ItemTypeTask, completed),
	}
	m := FindMatch(MatchCandidate{Text: "Comprar leche", ItemType: models.ItemTypeTask}, existing, DefaultMatchThreshold)
	if m.Found() {
		t.Error("a completed task must never be a merge target, regardless of similarity")
	}
}

func TestFindMatch_HighestSimilarityWinsTiesToLowestIndex(t *testing.T) {
	t.Parallel()

	existing := []*models.Task{
		task("comprar leche y pan", models.ItemTypeTask),
		task("comprar leche", models.ItemTypeTask),
		task("Comprar Leche", models.ItemTypeTask), // ties with index 1
	}
	m := FindMatch(MatchCandidate{Text: "comprar leche", ItemType: models.ItemTypeTask}, existing, DefaultMatchThreshold)
	if !m.Found() {
		t.Fatal("expected a match")
	}
	if m.Index != 1 {
		t.Errorf("got index %d, want 1 (highest similarity, ties to lowest index)", m.Index)
	}
}

func TestFindMatch_EmptyCollection(t *testing.T) {
	t.Parallel()

	m := FindMatch(MatchCandidate{Text: "anything", ItemType: models.ItemTypeTask}, nil, DefaultMatchThreshold)
	if m.Found() || m.Index != -1 || m.Task != nil || m.Similarity != 0 {
		t.Errorf("no-match encoding violated: %+v", m)
	}
}
