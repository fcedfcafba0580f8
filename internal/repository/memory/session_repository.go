package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"inzite-research-be/internal/entity"
	"inzite-research-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

var _ contract.ResearchSessionRepository = &SessionRepository{}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *SessionRepository) Create(ctx context.Context, session *entity.ResearchSession) error {
	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	if err := r.cache.Add(session.SessionId, copySession(session), cache.DefaultExpiration); err != nil {
		return contract.ErrDuplicateSession
	}
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, sessionId string) (*entity.ResearchSession, error) {
	if x, found := r.cache.Get(sessionId); found {
		return copySession(x.(*entity.ResearchSession)), nil
	}
	return nil, nil
}

func (r *SessionRepository) Update(ctx context.Context, session *entity.ResearchSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(session.SessionId)
	if !found || x.(*entity.ResearchSession).Status != entity.SessionStatusProcessing {
		return contract.ErrSessionNotActive
	}
	session.UpdatedAt = time.Now()
	r.cache.Set(session.SessionId, copySession(session), cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) FindAllProcessing(ctx context.Context) ([]*entity.ResearchSession, error) {
	var out []*entity.ResearchSession
	for _, item := range r.cache.Items() {
		s := item.Object.(*entity.ResearchSession)
		if s.Status == entity.SessionStatusProcessing {
			out = append(out, copySession(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func copySession(s *entity.ResearchSession) *entity.ResearchSession {
	c := *s
	c.Logs = append([]string(nil), s.Logs...)
	if s.Checkpoint != nil {
		c.Checkpoint = append([]byte(nil), s.Checkpoint...)
	}
	if s.ResultId != nil {
		id := *s.ResultId
		c.ResultId = &id
	}
	return &c
}
