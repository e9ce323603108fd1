package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the task service.
const (
	EventTypeTaskCreated  = "task.created"
	EventTypeTaskAnswered = "task.answered"
)

// TaskEvent records something that happened to a task.
type TaskEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the EventType constants
	Type string `json:"type"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// TaskCreatedPayload is the payload of a task.created event.
type TaskCreatedPayload struct {
	TaskID    string    `json:"task_id"`
	TaskName  string    `json:"task_name"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TaskAnsweredPayload is the payload of a task.answered event.
// The submitted answer itself is deliberately absent.
type TaskAnsweredPayload struct {
	TaskID     string `json:"task_id"`
	TaskName   string `json:"task_name"`
	Correct    bool   `json:"correct"`
	Finished   bool   `json:"finished"`
	NextTaskID string `json:"next_task_id,omitempty"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *TaskEvent) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewTaskEvent creates a new TaskEvent with the specified type and payload.
func NewTaskEvent(eventType string, payload any, now time.Time) (*TaskEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &TaskEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: now.UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *TaskEvent) error
}
