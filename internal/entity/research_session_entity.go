package entity

import (
	"encoding/json"
	"time"
)

type SessionStatus string

const (
	SessionStatusProcessing SessionStatus = "processing"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusFailed     SessionStatus = "failed"
)

// IsTerminal reports whether a session in this status may no longer change.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusFailed
}

type ResearchSession struct {
	SessionId   string
	UserId      string
	Query       string
	Status      SessionStatus
	CurrentStep string
	Stage       string
	Logs        []string
	Checkpoint  json.RawMessage
	ResultId    *int
	Error       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
