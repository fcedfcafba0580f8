package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"inzite-research-be/internal/entity"
	"inzite-research-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type ChatSessionRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

var _ contract.ChatSessionRepository = &ChatSessionRepository{}

func NewChatSessionRepository() *ChatSessionRepository {
	return &ChatSessionRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *ChatSessionRepository) Create(ctx context.Context, session *entity.ChatSession) error {
	if session.Id == uuid.Nil {
		session.Id = uuid.New()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = session.CreatedAt
	}
	c := *session
	r.cache.Set(session.Id.String(), &c, cache.NoExpiration)
	return nil
}

func (r *ChatSessionRepository) FindOwned(ctx context.Context, id uuid.UUID, userId string) (*entity.ChatSession, error) {
	x, found := r.cache.Get(id.String())
	if !found || userId == "" {
		return nil, nil
	}
	s := *x.(*entity.ChatSession)
	if s.UserId != userId {
		return nil, nil
	}
	return &s, nil
}

func (r *ChatSessionRepository) FindAllByUser(ctx context.Context, userId string) ([]*entity.ChatSession, error) {
	out := []*entity.ChatSession{}
	if userId == "" {
		return out, nil
	}
	for _, item := range r.cache.Items() {
		s := *item.Object.(*entity.ChatSession)
		if s.UserId == userId {
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *ChatSessionRepository) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if x, found := r.cache.Get(id.String()); found {
		s := *x.(*entity.ChatSession)
		s.UpdatedAt = at
		r.cache.Set(id.String(), &s, cache.NoExpiration)
	}
	return nil
}

func (r *ChatSessionRepository) DeleteAllByUser(ctx context.Context, userId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, item := range r.cache.Items() {
		if item.Object.(*entity.ChatSession).UserId == userId {
			r.cache.Delete(key)
		}
	}
	return nil
}

type ChatMessageRepository struct {
	mu       sync.RWMutex
	messages []*entity.ChatMessage
}

var _ contract.ChatMessageRepository = &ChatMessageRepository{}

func NewChatMessageRepository() *ChatMessageRepository {
	return &ChatMessageRepository{}
}

func (r *ChatMessageRepository) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if message.Id == uuid.Nil {
		message.Id = uuid.New()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	c := *message
	r.messages = append(r.messages, &c)
	return nil
}

// FindAllBySession keeps insertion order for messages stamped with the same time.
func (r *ChatMessageRepository) FindAllBySession(ctx context.Context, sessionId uuid.UUID) ([]*entity.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*entity.ChatMessage{}
	for _, m := range r.messages {
		if m.ChatSessionId == sessionId {
			c := *m
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *ChatMessageRepository) DeleteBySessions(ctx context.Context, sessionIds []uuid.UUID) error {
	drop := make(map[uuid.UUID]bool, len(sessionIds))
	for _, id := range sessionIds {
		drop[id] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.messages[:0]
	for _, m := range r.messages {
		if !drop[m.ChatSessionId] {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	return nil
}
