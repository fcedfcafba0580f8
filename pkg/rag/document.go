package rag

// Document is a unit of text moving through ingestion, retrieval and reranking.
type Document struct {
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Score    float64                `json:"score"`
}

// Source returns the metadata "source" value, or "" when absent.
func (d Document) Source() string {
	if d.Metadata == nil {
		return ""
	}
	s, _ := d.Metadata["source"].(string)
	return s
}

// Config holds the vector store tuning knobs.
type Config struct {
	ChunkSize       int
	ChunkOverlap    int
	BatchSize       int
	Dimension       int
	DefaultK        int
	RerankThreshold float64
	RerankItemChars int
}

func DefaultConfig() Config {
	return Config{
		ChunkSize:       1500,
		ChunkOverlap:    150,
		BatchSize:       16,
		Dimension:       768,
		DefaultK:        20,
		RerankThreshold: 0.4,
		RerankItemChars: 300,
	}
}

// MockSource tags the placeholder context returned when retrieval is unavailable.
const MockSource = "mock-db-fallback"

// fallbackContext keeps summarization fed when the store or embedder is down.
func fallbackContext() []Document {
	return []Document{
		{
			Content:  "Mock Context 1: The market for this idea is growing rapidly due to increased digital adoption.",
			Metadata: map[string]interface{}{"source": MockSource},
			Score:    0.9,
		},
		{
			Content:  "Mock Context 2: Competitors are focusing on AI integration, leaving a gap for human-centric services.",
			Metadata: map[string]interface{}{"source": MockSource},
			Score:    0.85,
		},
	}
}
