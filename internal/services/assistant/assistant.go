package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/listoapp/listo/internal/engine"
	"github.com/listoapp/listo/internal/events"
	"github.com/listoapp/listo/internal/models"
	"github.com/listoapp/listo/internal/services/nlp"
)

// ErrBusy is returned when a message arrives while a previous one is still
// being processed. The engine is invoked once per completed extraction call,
// never concurrently for the same session.
var ErrBusy = errors.New("a previous message is still being processed")

// ErrEmptyMessage is returned for blank input.
var ErrEmptyMessage = errors.New("message is empty")

// Response is the assistant's answer to one chat message.
type Response struct {
	// Reply is the user-facing confirmation or follow-up question.
	Reply string `json:"reply"`
	// State is the conversation state after processing ("idle" or
	// "awaiting_field").
	State string `json:"state"`
	// AwaitingField names the field a parked task is waiting for, when
	// State is "awaiting_field".
	AwaitingField string `json:"awaitingField,omitempty"`
	// Outcome describes what happened to the task collection, when a task
	// was committed this turn.
	Outcome *engine.Outcome `json:"outcome,omitempty"`
}

// Service orchestrates one chat session: extraction, slot filling, and the
// match/merge pipeline, in that order. All task-state mutation flows through
// a single Service so there is exactly one logical writer.
type Service struct {
	extractor nlp.Extractor
	store     *engine.Store
	slots     *engine.SlotFilling
	publisher events.Publisher
	logger    *zap.Logger

	// mu serializes message handling; TryLock gives concurrent submitters
	// an immediate ErrBusy instead of queueing them.
	mu sync.Mutex
}

// NewService creates an assistant service.
func NewService(extractor nlp.Extractor, store *engine.Store, publisher events.Publisher, logger *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		extractor: extractor,
		store:     store,
		slots:     engine.NewSlotFilling(),
		publisher: publisher,
		logger:    logger,
	}
}

// HandleMessage processes one chat message to completion. While a pending
// task awaits its due date, a short date-shaped message completes it;
// anything else is re-run through full extraction and the pending task stays
// parked. Extraction failure mutates nothing.
func (s *Service) HandleMessage(ctx context.Context, message string) (*Response, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	if !s.mu.TryLock() {
		return nil, ErrBusy
	}
	defer s.mu.Unlock()

	if s.slots.State() == engine.StateAwaitingField && engine.LooksLikeDateResponse(message) {
		fields, ok := s.slots.Complete(message)
		if ok {
			return s.commit(ctx, fields), nil
		}
	}

	fields, err := s.extractor.ExtractTaskFields(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("extract task fields: %w", err)
	}

	if missing := engine.MissingRequiredFields(fields); len(missing) > 0 {
		s.slots.Park(fields, missing, message)
		return &Response{
			Reply:         fmt.Sprintf("¿Para cuándo es %q?", fields.TaskName),
			State:         engine.StateAwaitingField.String(),
			AwaitingField: missing[0],
		}, nil
	}

	return s.commit(ctx, fields), nil
}

// Cancel discards the pending task, if any.
func (s *Service) Cancel() *Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slots.Cancel() {
		return &Response{
			Reply: "Listo, lo descarto.",
			State: engine.StateIdle.String(),
		}
	}
	return &Response{
		Reply: "No hay nada pendiente.",
		State: engine.StateIdle.String(),
	}
}

// State returns the current slot-filling state.
func (s *Service) State() engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots.State()
}

// commit pushes completed fields through the match/merge pipeline and
// publishes the outcome.
func (s *Service) commit(ctx context.Context, fields models.TaskFields) *Response {
	outcome := s.store.CreateOrUpdateTask(fields)

	if err := s.publisher.Publish(ctx, events.FromOutcome(outcome)); err != nil {
		// Event delivery is best effort; the task state already changed.
		s.logger.Warn("failed to publish task event",
			zap.String("task_id", outcome.TaskID.String()),
			zap.Error(err))
	}

	return &Response{
		Reply:   replyFor(outcome),
		State:   engine.StateIdle.String(),
		Outcome: &outcome,
	}
}

// replyFor renders the confirmation for an outcome.
func replyFor(o engine.Outcome) string {
	switch o.Action {
	case engine.ActionCreated:
		return fmt.Sprintf("Anotado: %q.", o.TaskName)
	case engine.ActionUpdated:
		return fmt.Sprintf("Actualicé %q (similitud %.0f%%).", o.TaskName, o.Similarity*100)
	default:
		return fmt.Sprintf("Ya tenía %q con más detalle, conservo esa versión.", o.TaskName)
	}
}
