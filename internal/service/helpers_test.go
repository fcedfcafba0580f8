package service

import (
	"context"
	"errors"
	"sync"

	"inzite-research-be/internal/dto"
	"inzite-research-be/internal/entity"
	"inzite-research-be/internal/repository/contract"
	"inzite-research-be/internal/repository/memory"
	"inzite-research-be/internal/repository/unitofwork"
	"inzite-research-be/pkg/embedding"
	"inzite-research-be/pkg/events"
	"inzite-research-be/pkg/llm"
	"inzite-research-be/pkg/rag"
)

func newMemoryFactory() (unitofwork.RepositoryFactory, *memory.Store) {
	store := memory.NewStore(0)
	return unitofwork.NewMemoryRepositoryFactory(store), store
}

type recordingEvents struct {
	mu    sync.Mutex
	types []string
}

func (r *recordingEvents) Publish(ctx context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, event.EventType())
	return nil
}

func (r *recordingEvents) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.types...)
}

type recordingProgress struct {
	mu     sync.Mutex
	stages []string
}

func (r *recordingProgress) Publish(ctx context.Context, msg dto.ProgressMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := len(r.stages); n == 0 || r.stages[n-1] != msg.Stage {
		r.stages = append(r.stages, msg.Stage)
	}
}

type recordingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

type failingEmbedder struct{}

func (failingEmbedder) Generate(ctx context.Context, text, taskType string) (*embedding.EmbeddingResponse, error) {
	return nil, embedding.ErrMissingCredentials
}

// constantEmbedder returns the same full-size vector for any text.
type constantEmbedder struct{}

func (constantEmbedder) Generate(ctx context.Context, text, taskType string) (*embedding.EmbeddingResponse, error) {
	return embedding.NewEmbeddingResponse(constantVector()), nil
}

func constantVector() []float32 {
	vec := make([]float32, rag.DefaultConfig().Dimension)
	for i := range vec {
		vec[i] = 0.01
	}
	return vec
}

type stubLLM struct {
	answer string
	err    error
	prompt string
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.answer, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.prompt = prompt
	return s.answer, s.err
}

// failingReportsFactory wraps a factory so report inserts hit a dead database.
type failingReportsFactory struct {
	unitofwork.RepositoryFactory
}

func (f failingReportsFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return failingReportsUow{f.RepositoryFactory.NewUnitOfWork(ctx)}
}

type failingReportsUow struct {
	unitofwork.UnitOfWork
}

func (u failingReportsUow) ReportRepository() contract.ReportRepository {
	return failingReports{u.UnitOfWork.ReportRepository()}
}

type failingReports struct {
	contract.ReportRepository
}

func (failingReports) CreateWithNextID(ctx context.Context, _ *entity.Report) error {
	return errors.New("database unreachable")
}

// staleReadsFactory hides existing sessions from FindByID.
type staleReadsFactory struct {
	unitofwork.RepositoryFactory
}

func (f staleReadsFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return staleReadsUow{f.RepositoryFactory.NewUnitOfWork(ctx)}
}

type staleReadsUow struct {
	unitofwork.UnitOfWork
}

func (u staleReadsUow) ResearchSessionRepository() contract.ResearchSessionRepository {
	return staleSessions{u.UnitOfWork.ResearchSessionRepository()}
}

type staleSessions struct {
	contract.ResearchSessionRepository
}

func (staleSessions) FindByID(ctx context.Context, sessionId string) (*entity.ResearchSession, error) {
	return nil, nil
}
