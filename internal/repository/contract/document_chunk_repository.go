package contract

import (
	"context"

	"inzite-research-be/internal/entity"
)

// ScoredChunk wraps DocumentChunk with its cosine similarity to a query vector
type ScoredChunk struct {
	Chunk      *entity.DocumentChunk
	Similarity float64 // 1.0 = identical
}

type DocumentChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	// SearchSimilarWithScore returns at most limit chunks ordered by descending similarity.
	// An empty userId searches every chunk.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId string) ([]*ScoredChunk, error)
	Count(ctx context.Context) (int64, error)
}
