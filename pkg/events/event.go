package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "COMPLETION_FAILED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation used throughout.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes
const (
	TypeCompletionDelivered = "COMPLETION_DELIVERED"
	TypeCompletionFailed    = "COMPLETION_FAILED"
)

func NewCompletionFailed(responseId string, chatId int64, step, reason string) Event {
	return BaseEvent{
		Type: TypeCompletionFailed,
		Data: map[string]interface{}{
			"response_id": responseId,
			"chat_id":     chatId,
			"step":        step,
			"reason":      reason,
		},
		OccurredAt: time.Now(),
	}
}

func NewCompletionDelivered(responseId string, chatId int64) Event {
	return BaseEvent{
		Type: TypeCompletionDelivered,
		Data: map[string]interface{}{
			"response_id": responseId,
			"chat_id":     chatId,
		},
		OccurredAt: time.Now(),
	}
}
