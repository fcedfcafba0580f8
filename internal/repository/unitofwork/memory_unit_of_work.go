package unitofwork

import (
	"context"

	"inzite-research-be/internal/repository/contract"
	"inzite-research-be/internal/repository/memory"
)

// memoryUnitOfWork has no rollback; each repository call is atomic on its own.
type memoryUnitOfWork struct {
	store *memory.Store
}

func (u *memoryUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *memoryUnitOfWork) Commit() error                   { return nil }
func (u *memoryUnitOfWork) Rollback() error                 { return nil }

func (u *memoryUnitOfWork) ResearchSessionRepository() contract.ResearchSessionRepository {
	return u.store.Sessions
}

func (u *memoryUnitOfWork) ReportRepository() contract.ReportRepository {
	return u.store.Reports
}

func (u *memoryUnitOfWork) DocumentChunkRepository() contract.DocumentChunkRepository {
	return u.store.Chunks
}

func (u *memoryUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository {
	return u.store.ChatSessions
}

func (u *memoryUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository {
	return u.store.ChatMessages
}
