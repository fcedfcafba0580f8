package embedding

type EmbeddingRequestContentPart struct {
	Text string `json:"text"`
}

type EmbeddingRequestContent struct {
	Parts []EmbeddingRequestContentPart `json:"parts"`
}

type EmbeddingRequest struct {
	Model                string                  `json:"model"`
	Content              EmbeddingRequestContent `json:"content"`
	TaskType             string                  `json:"task_type,omitempty"`
	OutputDimensionality int                     `json:"output_dimensionality,omitempty"`
}

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// NewEmbeddingResponse wraps raw values in the shared response shape.
func NewEmbeddingResponse(values []float32) *EmbeddingResponse {
	return &EmbeddingResponse{Embedding: EmbeddingResponseEmbedding{Values: values}}
}
