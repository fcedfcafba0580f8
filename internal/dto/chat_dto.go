package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
	// SessionId continues a stored conversation. Empty starts a new one.
	SessionId string `json:"sessionId" validate:"omitempty,uuid"`
}

type ChatSource struct {
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
	Excerpt string  `json:"excerpt"`
}

type ChatResponse struct {
	Role      string       `json:"role"`
	Answer    string       `json:"answer"`
	SessionId string       `json:"sessionId,omitempty"`
	Sources   []ChatSource `json:"sources"`
}

type ChatSessionResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type ClearChatsResponse struct {
	DeletedSessions int `json:"deletedSessions"`
}
