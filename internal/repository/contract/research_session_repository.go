package contract

import (
	"context"
	"errors"

	"inzite-research-be/internal/entity"
)

var (
	// ErrSessionNotActive is returned when updating a session that already reached a terminal status.
	ErrSessionNotActive = errors.New("research session is no longer processing")
	// ErrDuplicateSession is returned by Create when the session id is taken.
	ErrDuplicateSession = errors.New("research session id already taken")
)

type ResearchSessionRepository interface {
	Create(ctx context.Context, session *entity.ResearchSession) error
	FindByID(ctx context.Context, sessionId string) (*entity.ResearchSession, error)
	// Update persists progress. It only applies while the stored row is still processing.
	Update(ctx context.Context, session *entity.ResearchSession) error
	FindAllProcessing(ctx context.Context) ([]*entity.ResearchSession, error)
}
