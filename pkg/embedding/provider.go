package embedding

import (
	"context"
	"errors"
	"fmt"
)

// Task types understood by the Gemini embedding API. Other providers ignore them.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// ErrMissingCredentials is returned by hosted providers configured without an API key.
var ErrMissingCredentials = errors.New("embedding: missing credentials")

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
}

// DimensionError reports a vector whose length does not match the store's fixed dimension.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: want %d, got %d", e.Want, e.Got)
}

// CheckDimension returns a *DimensionError when values does not have exactly want entries.
func CheckDimension(values []float32, want int) error {
	if len(values) != want {
		return &DimensionError{Want: want, Got: len(values)}
	}
	return nil
}
