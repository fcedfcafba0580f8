package agents

import (
	"context"
	"fmt"
	"strings"

	"inzite-research-be/pkg/research/state"
	"inzite-research-be/pkg/search"
)

type TrendScraper struct {
	deps Deps
}

func NewTrendScraper(deps Deps) *TrendScraper {
	return &TrendScraper{deps: deps}
}

func (a *TrendScraper) Name() state.AgentName { return state.TrendScraper }

func (a *TrendScraper) Run(ctx context.Context, topic string) state.AgentOutput {
	module := string(state.TrendScraper)

	broad := a.deps.webSearch(ctx, module, fmt.Sprintf("developer surveys and trends 2025 for %s", topic), 5)
	if a.deps.News != nil {
		news, err := a.deps.News.SearchNews(ctx, topic, 5)
		if err != nil {
			a.deps.Logger.Warn(module, "News search failed", map[string]interface{}{"error": err.Error()})
		}
		broad = append(broad, news...)
	}
	deepDive := a.deps.webSearch(ctx, module, fmt.Sprintf("major developer pain points and challenges in %s", topic), 5)
	community := a.deps.webSearch(ctx, module, fmt.Sprintf("site:reddit.com %s discussions pain points", topic), 5)

	var all []search.Result
	all = append(all, broad...)
	all = append(all, deepDive...)
	all = append(all, community...)

	var sb strings.Builder
	for _, d := range all {
		sb.WriteString(fmt.Sprintf("Source: %s\nTitle: %s\nContent: %s\n\n", d.URL, d.Title, truncate(d.Content, 1000)))
	}

	prompt := fmt.Sprintf(`You are a Senior Market Trend Analyst.
Analyze the provided search data to identify impactful trends relevant to the concept: %q

Search Data:
%s
Be EXTREMELY DETAILED. Avoid generic statements. Provide concrete examples and evidence.

Return a JSON object: {"trends":[{"trend_name":"","short_summary":"","relevance_score":<integer 0-100>,"supporting_sources":[""]}]}`, topic, sb.String())

	report, ok := generate(ctx, a.deps, module, prompt, func(r state.TrendReport) bool {
		return len(r.Trends) > 0
	})
	if !ok {
		report = FallbackTrends()
	}

	a.deps.Logger.Info(module, "Trend scan finished", map[string]interface{}{
		"sources":  len(all),
		"trends":   len(report.Trends),
		"fallback": !ok,
	})

	return state.AgentOutput{
		Agent:    state.TrendScraper,
		Success:  true,
		Fallback: !ok,
		Trends:   &report,
	}
}

func FallbackTrends() state.TrendReport {
	return state.TrendReport{Trends: []state.Trend{
		{
			TrendName:         "AI-Driven Personalization (Mock)",
			ShortSummary:      "This is a mock trend returned because the LLM call failed. It represents the growing demand for hyper-personalized experiences.",
			RelevanceScore:    95,
			SupportingSources: []string{"https://example.com/mock-trend-source"},
		},
		{
			TrendName:         "Sustainable Tech Solutions (Mock)",
			ShortSummary:      "Mock trend indicating a shift towards eco-friendly technology and green energy solutions in the industry.",
			RelevanceScore:    88,
			SupportingSources: []string{"https://example.com/green-tech"},
		},
	}}
}
