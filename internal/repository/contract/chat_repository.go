package contract

import (
	"context"
	"time"

	"inzite-research-be/internal/entity"

	"github.com/google/uuid"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	// FindOwned returns the session only when userId owns it.
	FindOwned(ctx context.Context, id uuid.UUID, userId string) (*entity.ChatSession, error)
	// FindAllByUser returns the user's sessions, most recently active first.
	FindAllByUser(ctx context.Context, userId string) ([]*entity.ChatSession, error)
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteAllByUser(ctx context.Context, userId string) error
}

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	// FindAllBySession returns the conversation oldest first.
	FindAllBySession(ctx context.Context, sessionId uuid.UUID) ([]*entity.ChatMessage, error)
	DeleteBySessions(ctx context.Context, sessionIds []uuid.UUID) error
}
