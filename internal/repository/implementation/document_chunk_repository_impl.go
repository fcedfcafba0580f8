package implementation

import (
	"context"
	"sort"

	"inzite-research-be/internal/entity"
	"inzite-research-be/internal/mapper"
	"inzite-research-be/internal/model"
	"inzite-research-be/internal/repository/contract"
	"inzite-research-be/internal/repository/specification"
	"inzite-research-be/pkg/utils"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DocumentChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentChunkMapper
}

func NewDocumentChunkRepository(db *gorm.DB) contract.DocumentChunkRepository {
	return &DocumentChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentChunkMapper(),
	}
}

func (r *DocumentChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	for _, c := range chunks {
		if c.Id == uuid.Nil {
			c.Id = uuid.New()
		}
	}
	models := r.mapper.ToModels(chunks)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *DocumentChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId string) ([]*contract.ScoredChunk, error) {
	if limit <= 0 {
		limit = 20
	}
	if r.db.Dialector.Name() != "postgres" {
		return r.searchInProcess(ctx, embedding, limit, userId)
	}

	var results []scoredRow
	if err := similarityQuery(r.db.WithContext(ctx), embedding, limit, userId).Scan(&results).Error; err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredChunk, len(results))
	for i := range results {
		scored[i] = &contract.ScoredChunk{
			Chunk:      r.mapper.ToEntity(&results[i].DocumentChunk),
			Similarity: results[i].Similarity,
		}
	}
	return scored, nil
}

type scoredRow struct {
	model.DocumentChunk
	Similarity float64
}

// similarityQuery orders by the raw distance expression so the HNSW index on embedding
// can serve it. Cosine distance in pgvector is 1 - cosine_similarity.
func similarityQuery(db *gorm.DB, embedding []float32, limit int, userId string) *gorm.DB {
	queryVector := pgvector.NewVector(embedding)
	return specification.OwnedBy{UserID: userId}.Apply(db.Table("document_chunks")).
		Select("document_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Order(clause.OrderBy{Expression: clause.Expr{SQL: "embedding <=> ?", Vars: []interface{}{queryVector}, WithoutParentheses: true}}).
		Limit(limit)
}

// searchInProcess ranks rows in Go for dialects without a vector operator.
func (r *DocumentChunkRepositoryImpl) searchInProcess(ctx context.Context, embedding []float32, limit int, userId string) ([]*contract.ScoredChunk, error) {
	var models []*model.DocumentChunk
	query := specification.OwnedBy{UserID: userId}.Apply(r.db.WithContext(ctx))
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredChunk, 0, len(models))
	for _, m := range models {
		chunk := r.mapper.ToEntity(m)
		scored = append(scored, &contract.ScoredChunk{
			Chunk:      chunk,
			Similarity: utils.CosineSimilarity(embedding, chunk.Embedding),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (r *DocumentChunkRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.DocumentChunk{}).Count(&count).Error
	return count, err
}
