package events

import (
	"context"
	"time"
)

const (
	ResearchStarted   = "RESEARCH_STARTED"
	ResearchCompleted = "RESEARCH_COMPLETED"
	ResearchFailed    = "RESEARCH_FAILED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "RESEARCH_STARTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher delivers events to the bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
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

func NewResearchStarted(sessionId, userId, query string) Event {
	return BaseEvent{
		Type:       ResearchStarted,
		Data:       map[string]interface{}{"session_id": sessionId, "user_id": userId, "query": query},
		OccurredAt: time.Now(),
	}
}

func NewResearchCompleted(sessionId, userId string, reportId int) Event {
	return BaseEvent{
		Type:       ResearchCompleted,
		Data:       map[string]interface{}{"session_id": sessionId, "user_id": userId, "report_id": reportId},
		OccurredAt: time.Now(),
	}
}

func NewResearchFailed(sessionId, userId, reason string) Event {
	return BaseEvent{
		Type:       ResearchFailed,
		Data:       map[string]interface{}{"session_id": sessionId, "user_id": userId, "error": reason},
		OccurredAt: time.Now(),
	}
}
