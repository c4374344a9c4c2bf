package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "AGENT_RUN_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

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

const AgentRunCompletedType = "AGENT_RUN_COMPLETED"

// NewAgentRunCompleted builds the audit event published after every
// pipeline invocation.
func NewAgentRunCompleted(data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       AgentRunCompletedType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
