package agents

import (
	"context"
	"fmt"
	"strings"

	"inzite-research-be/pkg/research/state"
)

type CompetitorScout struct {
	deps Deps
}

func NewCompetitorScout(deps Deps) *CompetitorScout {
	return &CompetitorScout{deps: deps}
}

func (a *CompetitorScout) Name() state.AgentName { return state.CompetitorScout }

func (a *CompetitorScout) Run(ctx context.Context, idea string) state.AgentOutput {
	module := string(state.CompetitorScout)

	results := a.deps.webSearch(ctx, module, fmt.Sprintf("top competitors for %s", idea), 5)

	var urls []string
	for i := 0; i < len(results) && i < 3; i++ {
		urls = append(urls, results[i].URL)
	}
	pages := a.deps.scrapeAll(ctx, urls)

	var sb strings.Builder
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("Source: %s\nTitle: %s\nSnippet: %s\n\n", r.URL, r.Title, r.Content))
	}
	for _, p := range pages {
		sb.WriteString(fmt.Sprintf("Source: %s\nContent: %s\n\n", p.URL, truncate(p.Content, 2000)))
	}

	prompt := fmt.Sprintf(`Analyze the following competitor data for the startup idea: %q

COMPETITOR DATA:
%s
Identify the top competitors, their key features, pricing, and why they are similar.
Return a JSON object: {"competitors":[{"name":"","domain":"","summary":"","website":"","reason_for_similarity":"","estimated_similarity_score":<integer 0-100>,"key_features":[""],"pricing_model":"","target_audience":""}]}`, idea, sb.String())

	analysis, ok := generate(ctx, a.deps, module, prompt, func(c state.CompetitorAnalysis) bool {
		return len(c.Competitors) > 0
	})
	if !ok {
		analysis = FallbackCompetitors()
	}

	a.deps.Logger.Info(module, "Competitor analysis finished", map[string]interface{}{
		"search_results": len(results),
		"competitors":    len(analysis.Competitors),
		"fallback":       !ok,
	})

	return state.AgentOutput{
		Agent:         state.CompetitorScout,
		Success:       true,
		Fallback:      !ok,
		Analysis:      &analysis,
		SearchResults: results,
	}
}

func FallbackCompetitors() state.CompetitorAnalysis {
	return state.CompetitorAnalysis{Competitors: []state.Competitor{
		{
			Name:                     "Mock Competitor A",
			Domain:                   "Direct Competitor",
			Summary:                  "This is a mock competitor profile returned due to an LLM error. They offer a similar product with basic features.",
			ReasonForSimilarity:      "Targeting the same customer segment with overlapping functionality.",
			EstimatedSimilarityScore: 85,
			KeyFeatures:              []string{"Basic Feature 1", "Basic Feature 2"},
			PricingModel:             "Freemium",
			TargetAudience:           "Small Businesses",
			Website:                  "https://example.com/competitor-a",
		},
		{
			Name:                     "Mock Competitor B",
			Domain:                   "Indirect Competitor",
			Summary:                  "Another mock competitor. They solve the same problem but with a different approach.",
			ReasonForSimilarity:      "Solves the core problem using a manual service model.",
			EstimatedSimilarityScore: 60,
			KeyFeatures:              []string{"Service Feature 1"},
			PricingModel:             "Subscription",
			TargetAudience:           "Enterprise",
			Website:                  "https://example.com/competitor-b",
		},
	}}
}
