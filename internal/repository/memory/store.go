package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Store groups the in-process repositories used when no database is configured.
type Store struct {
	Sessions *SessionRepository
	Reports  *ReportRepository
	Chunks   *DocumentChunkRepository

	ChatSessions *ChatSessionRepository
	ChatMessages *ChatMessageRepository
}

// NewStore keeps sessions for sessionTTL; zero keeps them until restart.
func NewStore(sessionTTL time.Duration) *Store {
	if sessionTTL <= 0 {
		sessionTTL = cache.NoExpiration
	}
	return &Store{
		Sessions: NewSessionRepository(sessionTTL),
		Reports:  NewReportRepository(),
		Chunks:   NewDocumentChunkRepository(),

		ChatSessions: NewChatSessionRepository(),
		ChatMessages: NewChatMessageRepository(),
	}
}
