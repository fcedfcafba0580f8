package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"inzite-research-be/internal/entity"
	"inzite-research-be/internal/repository/contract"
	"inzite-research-be/pkg/utils"

	"github.com/google/uuid"
)

type DocumentChunkRepository struct {
	mu     sync.RWMutex
	chunks []*entity.DocumentChunk
}

var _ contract.DocumentChunkRepository = &DocumentChunkRepository{}

func NewDocumentChunkRepository() *DocumentChunkRepository {
	return &DocumentChunkRepository{}
}

func (r *DocumentChunkRepository) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, c := range chunks {
		if c.Id == uuid.Nil {
			c.Id = uuid.New()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		stored := *c
		stored.Embedding = append([]float32(nil), c.Embedding...)
		r.chunks = append(r.chunks, &stored)
	}
	return nil
}

func (r *DocumentChunkRepository) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId string) ([]*contract.ScoredChunk, error) {
	if limit <= 0 {
		limit = 20
	}

	r.mu.RLock()
	scored := make([]*contract.ScoredChunk, 0, len(r.chunks))
	for _, c := range r.chunks {
		if userId != "" && c.UserId != userId {
			continue
		}
		chunk := *c
		scored = append(scored, &contract.ScoredChunk{
			Chunk:      &chunk,
			Similarity: utils.CosineSimilarity(embedding, c.Embedding),
		})
	}
	r.mu.RUnlock()

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (r *DocumentChunkRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.chunks)), nil
}
