package intent

import (
	"context"
	"errors"
	"testing"

	"inzite-research-be/internal/pkg/logger"
	"inzite-research-be/pkg/llm"
	"inzite-research-be/pkg/research/state"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

type stubLLM struct {
	out string
	err error
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.out, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.out, s.err
}

func TestParseWithRules(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		industry      string
		intentType    string
		businessModel string
		audience      string
		competitors   []string
	}{
		{
			name:          "pet marketplace",
			query:         "AI pet-sitting marketplace",
			industry:      "pet",
			intentType:    "trend",
			businessModel: "Marketplace",
			audience:      "General Audience",
			competitors:   []string{},
		},
		{
			name:          "comparison wins over idea",
			query:         "Compare Notion vs Google Docs for students",
			industry:      "general",
			intentType:    "compare",
			businessModel: "General",
			audience:      "Students",
			competitors:   []string{"Compare Notion", "Google Docs"},
		},
		{
			name:          "plain idea",
			query:         "a startup to build tools for developers",
			industry:      "general",
			intentType:    "idea",
			businessModel: "SaaS",
			audience:      "Developers",
			competitors:   []string{},
		},
		{
			name:          "no pattern defaults to idea",
			query:         "helping farmers with weather",
			industry:      "general",
			intentType:    "idea",
			businessModel: "General",
			audience:      "General Audience",
			competitors:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseWithRules(tt.query)
			assert.Equal(t, tt.industry, got.Industry)
			assert.Equal(t, tt.intentType, got.IntentType)
			assert.Equal(t, tt.businessModel, got.BusinessModel)
			assert.Equal(t, tt.audience, got.TargetAudience)
			assert.Equal(t, tt.competitors, got.CompetitorNames)
			assert.Equal(t, "medium", got.ComplexityLevel)
			assert.Equal(t, "rules", got.Source)
			assert.Len(t, got.AgentTriggers, 3)
		})
	}
}

func TestParser_LLMPath(t *testing.T) {
	p := NewParser(&stubLLM{out: "```json\n{\"industry\":\"Pet Care\",\"intent_type\":\"market_research\",\"agent_triggers\":[]}\n```"}, logger.NewNopLogger())

	got := p.Parse(context.Background(), "AI pet-sitting marketplace")
	assert.Equal(t, "llm", got.Source)
	assert.Equal(t, "Pet Care", got.Industry)
	assert.Equal(t, "market_research", got.IntentType)
	assert.Equal(t, "General Audience", got.TargetAudience)
	assert.Equal(t, "AI pet-sitting marketplace", got.ProblemStatement)
	assert.Len(t, got.AgentTriggers, 3)
	assert.Equal(t, "AI pet-sitting marketplace", got.RawQuery)
}

func TestParser_FallsBackOnFailure(t *testing.T) {
	for name, provider := range map[string]llm.LLMProvider{
		"error":    &stubLLM{err: errors.New("no key")},
		"not json": &stubLLM{out: "Sure! Here is your intent."},
		"nil":      nil,
	} {
		t.Run(name, func(t *testing.T) {
			got := NewParser(provider, logger.NewNopLogger()).Parse(context.Background(), "fitness app")
			assert.Equal(t, "rules", got.Source)
			assert.Equal(t, "fitness", got.Industry)
			assert.Equal(t, "Mobile App", got.BusinessModel)
		})
	}
}

func TestParse_AlwaysPopulated(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		query := rapid.String().Draw(t, "query")
		useLLM := rapid.Bool().Draw(t, "llm")

		var provider llm.LLMProvider
		if useLLM {
			provider = &stubLLM{out: rapid.SampledFrom([]string{`{}`, `{"industry":""}`, `garbage`, `{"industry":"x","agent_triggers":["a"]}`}).Draw(t, "out")}
		}

		got := NewParser(provider, logger.NewNopLogger()).Parse(context.Background(), query)
		assertPopulated(t, got)
	})
}

func assertPopulated(t *rapid.T, m *state.IntentMetadata) {
	if m == nil {
		t.Fatalf("nil metadata")
	}
	for name, v := range map[string]string{
		"industry":          m.Industry,
		"target_audience":   m.TargetAudience,
		"problem_statement": m.ProblemStatement,
		"intent_type":       m.IntentType,
		"complexity_level":  m.ComplexityLevel,
	} {
		if v == "" {
			t.Fatalf("%s is empty", name)
		}
	}
	if len(m.AgentTriggers) == 0 {
		t.Fatalf("agent_triggers empty")
	}
}
