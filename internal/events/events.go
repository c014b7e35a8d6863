package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/listoapp/listo/internal/engine"
)

// EventType identifies what happened to a task during message processing.
type EventType string

const (
	// EventTaskCreated is emitted when a message produced a brand new task.
	EventTaskCreated EventType = "task.created"
	// EventTaskUpdated is emitted when a message enriched an existing task.
	EventTaskUpdated EventType = "task.updated"
	// EventTaskKept is emitted when a duplicate message was discarded in
	// favor of the stored version.
	EventTaskKept EventType = "task.kept"
)

// Event is the payload published after each processed chat message.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	TaskID     uuid.UUID `json:"taskId"`
	TaskName   string    `json:"taskName"`
	Similarity float64   `json:"similarity,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// FromOutcome builds an event from a processing outcome.
func FromOutcome(o engine.Outcome) Event {
	e := Event{
		ID:         uuid.New(),
		TaskID:     o.TaskID,
		TaskName:   o.TaskName,
		Similarity: o.Similarity,
		Reason:     o.Reason,
		OccurredAt: time.Now().UTC(),
	}
	switch o.Action {
	case engine.ActionCreated:
		e.Type = EventTaskCreated
	case engine.ActionUpdated:
		e.Type = EventTaskUpdated
	default:
		e.Type = EventTaskKept
	}
	return e
}

// Publisher emits task events to interested consumers.
type Publisher interface {
	// Publish sends one event. Implementations must be safe for
	// concurrent use.
	Publish(ctx context.Context, event Event) error

	// Close releases the underlying connection.
	Close() error

	// HealthCheck verifies the transport is reachable.
	HealthCheck(ctx context.Context) error
}

// NopPublisher discards every event. Used when no broker is configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }

// HealthCheck implements Publisher.
func (NopPublisher) HealthCheck(context.Context) error { return nil }
