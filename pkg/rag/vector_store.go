package rag

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"inzite-research-be/internal/entity"
	"inzite-research-be/internal/pkg/logger"
	"inzite-research-be/internal/repository/unitofwork"
	"inzite-research-be/pkg/embedding"
	"inzite-research-be/pkg/llm"
	"inzite-research-be/pkg/utils"

	"golang.org/x/sync/errgroup"
)

const module = "VectorStore"

// VectorStoreManager owns chunk persistence: splitting, embedding, similarity search and reranking.
type VectorStoreManager struct {
	uowFactory unitofwork.RepositoryFactory
	embedder   embedding.EmbeddingProvider
	llm        llm.LLMProvider
	logger     logger.ILogger
	cfg        Config
}

func NewVectorStoreManager(
	uowFactory unitofwork.RepositoryFactory,
	embedder embedding.EmbeddingProvider,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
	cfg Config,
) *VectorStoreManager {
	def := DefaultConfig()
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = def.ChunkSize
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = def.ChunkOverlap
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = def.Dimension
	}
	if cfg.DefaultK <= 0 {
		cfg.DefaultK = def.DefaultK
	}
	if cfg.RerankItemChars <= 0 {
		cfg.RerankItemChars = def.RerankItemChars
	}
	if cfg.RerankThreshold <= 0 {
		cfg.RerankThreshold = def.RerankThreshold
	}
	return &VectorStoreManager{
		uowFactory: uowFactory,
		embedder:   embedder,
		llm:        llmProvider,
		logger:     log,
		cfg:        cfg,
	}
}

// ChunkDocuments splits every document into overlapping windows. Each chunk inherits its
// document's metadata plus a chunk_index.
func (m *VectorStoreManager) ChunkDocuments(docs []Document) []Document {
	var chunks []Document
	for _, doc := range docs {
		for i, text := range utils.SplitText(doc.Content, m.cfg.ChunkSize, m.cfg.ChunkOverlap) {
			meta := make(map[string]interface{}, len(doc.Metadata)+1)
			for k, v := range doc.Metadata {
				meta[k] = v
			}
			meta["chunk_index"] = i
			chunks = append(chunks, Document{Content: text, Metadata: meta})
		}
	}
	return chunks
}

// AddDocuments chunks, embeds and stores docs. Batches run one after another; chunks inside a
// batch embed concurrently. Chunks whose embedding fails are dropped. Returns the stored count.
func (m *VectorStoreManager) AddDocuments(ctx context.Context, docs []Document, userId string) (int, error) {
	chunks := m.ChunkDocuments(docs)
	if len(chunks) == 0 {
		return 0, nil
	}

	uow := m.uowFactory.NewUnitOfWork(ctx)
	repo := uow.DocumentChunkRepository()

	stored := 0
	dropped := 0
	for start := 0; start < len(chunks); start += m.cfg.BatchSize {
		end := start + m.cfg.BatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		vectors := m.embedBatch(ctx, batch)

		rows := make([]*entity.DocumentChunk, 0, len(batch))
		for i, vec := range vectors {
			if vec == nil {
				dropped++
				continue
			}
			rows = append(rows, &entity.DocumentChunk{
				UserId:    userId,
				Content:   batch[i].Content,
				Metadata:  batch[i].Metadata,
				Embedding: vec,
			})
		}
		if len(rows) == 0 {
			continue
		}
		if err := repo.CreateBulk(ctx, rows); err != nil {
			return stored, fmt.Errorf("store chunk batch: %w", err)
		}
		stored += len(rows)
	}

	m.logger.Info(module, "Documents ingested", map[string]interface{}{
		"documents": len(docs),
		"chunks":    len(chunks),
		"stored":    stored,
		"dropped":   dropped,
	})
	return stored, nil
}

// embedBatch returns one vector per chunk, nil where embedding failed or had the wrong size.
func (m *VectorStoreManager) embedBatch(ctx context.Context, batch []Document) [][]float32 {
	vectors := make([][]float32, len(batch))
	var mu sync.Mutex
	var g errgroup.Group

	for i := range batch {
		i := i
		g.Go(func() error {
			res, err := m.embedder.Generate(ctx, batch[i].Content, embedding.TaskRetrievalDocument)
			if err == nil {
				err = embedding.CheckDimension(res.Embedding.Values, m.cfg.Dimension)
			}
			if err != nil {
				m.logger.Warn(module, "Chunk embedding failed, dropping chunk", map[string]interface{}{
					"error": err.Error(),
				})
				return nil
			}
			mu.Lock()
			vectors[i] = res.Embedding.Values
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return vectors
}

// Search returns at most k chunks ordered by descending similarity. Any failure yields the
// fixed mock context instead of an error.
func (m *VectorStoreManager) Search(ctx context.Context, query string, k int, userId string) []Document {
	if k <= 0 {
		k = m.cfg.DefaultK
	}

	res, err := m.embedder.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err == nil {
		err = embedding.CheckDimension(res.Embedding.Values, m.cfg.Dimension)
	}
	if err != nil {
		m.logger.Warn(module, "Query embedding failed, using fallback context", map[string]interface{}{"error": err.Error()})
		return capDocs(fallbackContext(), k)
	}

	uow := m.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, res.Embedding.Values, k, userId)
	if err != nil {
		m.logger.Error(module, "Similarity search failed, using fallback context", map[string]interface{}{"error": err.Error()})
		return capDocs(fallbackContext(), k)
	}

	docs := make([]Document, 0, len(scored))
	for _, s := range scored {
		docs = append(docs, Document{
			Content:  s.Chunk.Content,
			Metadata: s.Chunk.Metadata,
			Score:    s.Similarity,
		})
	}
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Score > docs[j].Score })
	return capDocs(docs, k)
}

type rerankScore struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Rerank asks the LLM for a 0-1 relevance per document, sorts by it and keeps scores above the
// threshold. On any failure the input is returned unchanged.
func (m *VectorStoreManager) Rerank(ctx context.Context, query string, docs []Document) []Document {
	if len(docs) == 0 {
		return []Document{}
	}

	raw, err := m.llm.Generate(ctx, m.rerankPrompt(query, docs), llm.WithJSON(), llm.WithTemperature(0))
	if err != nil {
		m.logger.Warn(module, "Reranking failed, returning original order", map[string]interface{}{"error": err.Error()})
		return docs
	}

	scores, err := parseRerankScores(raw)
	if err != nil {
		m.logger.Warn(module, "Reranking output unreadable, returning original order", map[string]interface{}{"error": err.Error()})
		return docs
	}

	seen := make(map[int]bool, len(scores))
	reranked := make([]Document, 0, len(docs))
	for _, s := range scores {
		if s.Index < 0 || s.Index >= len(docs) || seen[s.Index] {
			continue
		}
		seen[s.Index] = true
		if s.RelevanceScore <= m.cfg.RerankThreshold {
			continue
		}
		d := docs[s.Index]
		d.Score = s.RelevanceScore
		reranked = append(reranked, d)
	}
	sort.SliceStable(reranked, func(i, j int) bool { return reranked[i].Score > reranked[j].Score })

	m.logger.Info(module, "Documents reranked", map[string]interface{}{"input": len(docs), "kept": len(reranked)})
	return reranked
}

func (m *VectorStoreManager) rerankPrompt(query string, docs []Document) string {
	var sb strings.Builder
	sb.WriteString("You are a reranking expert. Given a query and a list of documents, score each document's relevance to the query on a scale of 0 to 1.\n")
	sb.WriteString("Return the output as a JSON array of objects, where each object has an \"index\" (0-based) and a \"relevance_score\".\n\n")
	sb.WriteString(fmt.Sprintf("Query: %q\n\nDocuments:\n", query))
	for i, d := range docs {
		sb.WriteString(fmt.Sprintf("[%d] %s...\n", i, truncate(d.Content, m.cfg.RerankItemChars)))
	}
	sb.WriteString("\nOutput JSON:")
	return sb.String()
}

// parseRerankScores accepts a bare array or an object wrapping one, since JSON mode backends
// insist on a top-level object.
func parseRerankScores(raw string) ([]rerankScore, error) {
	var scores []rerankScore
	if err := llm.ExtractJSON(raw, &scores); err == nil {
		return scores, nil
	}

	var wrapped map[string][]rerankScore
	if err := llm.ExtractJSON(raw, &wrapped); err != nil {
		return nil, err
	}
	for _, v := range wrapped {
		if len(v) > 0 {
			return v, nil
		}
	}
	return nil, llm.ErrNoJSON
}

func capDocs(docs []Document, k int) []Document {
	if len(docs) > k {
		return docs[:k]
	}
	return docs
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
