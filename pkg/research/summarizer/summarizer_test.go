package summarizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"inzite-research-be/internal/pkg/logger"
	"inzite-research-be/pkg/llm"
	"inzite-research-be/pkg/rag"

	"github.com/stretchr/testify/assert"
)

type stubLLM struct {
	out    string
	err    error
	prompt string
	calls  int
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.out, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.calls++
	s.prompt = prompt
	return s.out, s.err
}

func docsOf(sizes ...int) []rag.Document {
	docs := make([]rag.Document, len(sizes))
	for i, n := range sizes {
		docs[i] = rag.Document{Content: strings.Repeat("x", n)}
	}
	return docs
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name      string
		docs      []rag.Document
		llm       *stubLLM
		wantLen   int
		want      string
		wantCalls int
	}{
		{name: "no documents", docs: nil, llm: &stubLLM{}, want: NoDocuments},
		{name: "short context passes through", docs: docsOf(100, 200), llm: &stubLLM{}, wantLen: 302},
		{name: "long context summarized", docs: docsOf(6000, 6000), llm: &stubLLM{out: "dense summary"}, want: "dense summary", wantCalls: 1},
		{name: "llm failure slices raw context", docs: docsOf(6000, 6000), llm: &stubLLM{err: errors.New("boom")}, wantLen: 10000, wantCalls: 1},
		{name: "blank llm output slices raw context", docs: docsOf(12000), llm: &stubLLM{out: "  "}, wantLen: 10000, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSummarizer(tt.llm, logger.NewNopLogger(), DefaultConfig())
			got := s.Summarize(context.Background(), tt.docs)
			if tt.want != "" {
				assert.Equal(t, tt.want, got)
			}
			if tt.wantLen > 0 {
				assert.Len(t, got, tt.wantLen)
			}
			assert.Equal(t, tt.wantCalls, tt.llm.calls)
		})
	}
}

func TestSummarize_CapsLLMInput(t *testing.T) {
	model := &stubLLM{out: "ok"}
	NewSummarizer(model, logger.NewNopLogger(), DefaultConfig()).Summarize(context.Background(), docsOf(50000))
	assert.Equal(t, 30000, strings.Count(model.prompt, "x"))
}
