package summarizer

import (
	"context"
	"fmt"
	"strings"

	"inzite-research-be/internal/pkg/logger"
	"inzite-research-be/pkg/llm"
	"inzite-research-be/pkg/rag"
)

const module = "Summarizer"

// NoDocuments is the summary used when nothing survived reranking.
const NoDocuments = "No relevant documents found."

type Config struct {
	// PassThroughBelow returns the context verbatim when shorter than this many characters.
	PassThroughBelow int
	InputCap         int
	FallbackChars    int
}

func DefaultConfig() Config {
	return Config{PassThroughBelow: 10000, InputCap: 30000, FallbackChars: 10000}
}

type Summarizer struct {
	llm    llm.LLMProvider
	logger logger.ILogger
	cfg    Config
}

func NewSummarizer(provider llm.LLMProvider, log logger.ILogger, cfg Config) *Summarizer {
	def := DefaultConfig()
	if cfg.PassThroughBelow <= 0 {
		cfg.PassThroughBelow = def.PassThroughBelow
	}
	if cfg.InputCap <= 0 {
		cfg.InputCap = def.InputCap
	}
	if cfg.FallbackChars <= 0 {
		cfg.FallbackChars = def.FallbackChars
	}
	return &Summarizer{llm: provider, logger: log, cfg: cfg}
}

// Summarize condenses docs into one context blob. It never fails.
func (s *Summarizer) Summarize(ctx context.Context, docs []rag.Document) string {
	if len(docs) == 0 {
		return NoDocuments
	}

	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = d.Content
	}
	contextText := strings.Join(parts, "\n\n")

	length := len([]rune(contextText))
	if length < s.cfg.PassThroughBelow {
		return contextText
	}

	prompt := fmt.Sprintf(`Summarize the following research documents into a comprehensive and detailed summary that captures all key facts, trends, and insights.
The summary should be structured and easy to read.

Documents:
%s`, truncate(contextText, s.cfg.InputCap))

	out, err := s.llm.Generate(ctx, prompt)
	if err == nil && strings.TrimSpace(out) == "" {
		err = fmt.Errorf("empty summary")
	}
	if err != nil {
		s.logger.Warn(module, "Summarization failed, using raw context", map[string]interface{}{"error": err.Error(), "chars": length})
		return truncate(contextText, s.cfg.FallbackChars)
	}

	s.logger.Info(module, "Context summarized", map[string]interface{}{"input_chars": length, "output_chars": len(out)})
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
