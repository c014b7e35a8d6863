package assistant

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/listoapp/listo/internal/engine"
	"github.com/listoapp/listo/internal/events"
	"github.com/listoapp/listo/internal/models"
)

// stubExtractor returns canned fields keyed by utterance.
type stubExtractor struct {
	fields map[string]models.TaskFields
	err    error
	calls  int
}

func (s *stubExtractor) ExtractTaskFields(_ context.Context, utterance string) (models.TaskFields, error) {
	s.calls++
	if s.err != nil {
		return models.TaskFields{}, s.err
	}
	f, ok := s.fields[utterance]
	if !ok {
		return models.TaskFields{TaskName: utterance, ItemType: models.ItemTypeTask}, nil
	}
	return f, nil
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}
func (p *recordingPublisher) Close() error                      { return nil }
func (p *recordingPublisher) HealthCheck(context.Context) error { return nil }

func newTestService(extractor *stubExtractor, publisher events.Publisher) *Service {
	return NewService(extractor, engine.NewStore(0), publisher, zap.NewNop())
}

func TestHandleMessage_CompleteTaskCreated(t *testing.T) {
	t.Parallel()

	extractor := &stubExtractor{fields: map[string]models.TaskFields{
		"comprar leche mañana": {TaskName: "Comprar leche", DueDate: "mañana", ItemType: models.ItemTypeTask},
	}}
	publisher := &recordingPublisher{}
	svc := newTestService(extractor, publisher)

	resp, err := svc.HandleMessage(context.Background(), "comprar leche mañana")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Outcome == nil || resp.Outcome.Action != engine.ActionCreated {
		t.Fatalf("outcome = %+v, want created", resp.Outcome)
	}
	if resp.State != "idle" {
		t.Errorf("state = %q", resp.State)
	}
	if len(publisher.events) != 1 || publisher.events[0].Type != events.EventTaskCreated {
		t.Errorf("published events = %+v", publisher.events)
	}
}

func TestHandleMessage_SlotFillingRoundTrip(t *testing.T) {
	t.Parallel()

	extractor := &stubExtractor{fields: map[string]models.TaskFields{
		"comprar leche": {TaskName: "Comprar leche", ItemType: models.ItemTypeTask},
	}}
	svc := newTestService(extractor, nil)

	resp, err := svc.HandleMessage(context.Background(), "comprar leche")
	if err != nil {
		t.Fatal(err)
	}
	if resp.State != "awaiting_field" || resp.AwaitingField != engine.FieldDueDate {
		t.Fatalf("first turn should park the task: %+v", resp)
	}
	if resp.Outcome != nil {
		t.Error("no task should be committed yet")
	}

	resp, err = svc.HandleMessage(context.Background(), "mañana")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Outcome == nil || resp.Outcome.Action != engine.ActionCreated {
		t.Fatalf("date answer should commit the task: %+v", resp)
	}
	if extractor.calls != 1 {
		t.Errorf("date answer must not re-run extraction, calls = %d", extractor.calls)
	}

	tasks := svc.store.Tasks()
	if len(tasks) != 1 || tasks[0].DueDate != "mañana" {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestHandleMessage_NonDateInterimKeepsPending(t *testing.T) {
	t.Parallel()

	extractor := &stubExtractor{fields: map[string]models.TaskFields{
		"organizar cumpleaños": {TaskName: "Organizar cumpleaños", ItemType: models.ItemTypeProject},
		"sacar la basura esta noche y que no se me olvide el resto": {TaskName: "Sacar la basura", DueDate: "esta noche", ItemType: models.ItemTypeTask},
	}}
	svc := newTestService(extractor, nil)

	if _, err := svc.HandleMessage(context.Background(), "organizar cumpleaños"); err != nil {
		t.Fatal(err)
	}

	// Too long to read as a bare date answer, so it runs full extraction.
	resp, err := svc.HandleMessage(context.Background(), "sacar la basura esta noche y que no se me olvide el resto")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Outcome == nil {
		t.Fatalf("interim utterance should run full extraction: %+v", resp)
	}
	if svc.State() != engine.StateAwaitingField {
		t.Error("pending task should survive an interim utterance")
	}

	resp, err = svc.HandleMessage(context.Background(), "el viernes")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Outcome == nil || resp.Outcome.TaskName != "Organizar cumpleaños" {
		t.Errorf("date answer should complete the parked task: %+v", resp.Outcome)
	}
}

func TestHandleMessage_ExtractionFailureMutatesNothing(t *testing.T) {
	t.Parallel()

	extractor := &stubExtractor{err: errors.New("upstream timeout")}
	svc := newTestService(extractor, nil)

	if _, err := svc.HandleMessage(context.Background(), "comprar leche"); err == nil {
		t.Fatal("expected an error")
	}
	if len(svc.store.Tasks()) != 0 {
		t.Error("failed extraction must not create tasks")
	}
	if svc.State() != engine.StateIdle {
		t.Error("failed extraction must not park anything")
	}
}

func TestHandleMessage_EmptyMessage(t *testing.T) {
	t.Parallel()

	svc := newTestService(&stubExtractor{}, nil)
	if _, err := svc.HandleMessage(context.Background(), "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("err = %v, want ErrEmptyMessage", err)
	}
}

func TestCancel(t *testing.T) {
	t.Parallel()

	extractor := &stubExtractor{fields: map[string]models.TaskFields{
		"comprar leche": {TaskName: "Comprar leche", ItemType: models.ItemTypeTask},
	}}
	svc := newTestService(extractor, nil)

	if _, err := svc.HandleMessage(context.Background(), "comprar leche"); err != nil {
		t.Fatal(err)
	}
	if svc.State() != engine.StateAwaitingField {
		t.Fatal("task should be parked")
	}

	resp := svc.Cancel()
	if resp.State != "idle" {
		t.Errorf("state after cancel = %q", resp.State)
	}
	if svc.State() != engine.StateIdle {
		t.Error("cancel should clear the pending task")
	}
	if len(svc.store.Tasks()) != 0 {
		t.Error("cancel must not create a task")
	}

	// Cancelling again is a no-op with a distinct reply.
	again := svc.Cancel()
	if again.Reply == resp.Reply {
		t.Error("second cancel should report nothing pending")
	}
}

func TestHandleMessage_DuplicateIsMergedNotDuplicated(t *testing.T) {
	t.Parallel()

	extractor := &stubExtractor{fields: map[string]models.TaskFields{
		"comprar leche mañana":         {TaskName: "Comprar leche", DueDate: "mañana", ItemType: models.ItemTypeTask},
		"comprar leche mañana a las 7": {TaskName: "Comprar leche", DueDate: "mañana 19:00", AssignedTo: "Bob", ItemType: models.ItemTypeTask},
	}}
	svc := newTestService(extractor, nil)

	if _, err := svc.HandleMessage(context.Background(), "comprar leche mañana"); err != nil {
		t.Fatal(err)
	}
	resp, err := svc.HandleMessage(context.Background(), "comprar leche mañana a las 7")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Outcome == nil || resp.Outcome.Action != engine.ActionUpdated {
		t.Fatalf("outcome = %+v, want updated", resp.Outcome)
	}
	if len(svc.store.Tasks()) != 1 {
		t.Errorf("duplicate message must merge, got %d tasks", len(svc.store.Tasks()))
	}
}
