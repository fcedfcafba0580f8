package agents

import (
	"context"
	"fmt"
	"strings"

	"inzite-research-be/pkg/research/state"
	"inzite-research-be/pkg/search"
)

type TechPaperMiner struct {
	deps Deps
}

func NewTechPaperMiner(deps Deps) *TechPaperMiner {
	return &TechPaperMiner{deps: deps}
}

func (a *TechPaperMiner) Name() state.AgentName { return state.TechPaperMiner }

func (a *TechPaperMiner) Run(ctx context.Context, topic string) state.AgentOutput {
	module := string(state.TechPaperMiner)

	broad := a.deps.webSearch(ctx, module, fmt.Sprintf("latest research papers and technical blogs about %s", topic), 5)

	var academic []search.Result
	if a.deps.Papers != nil {
		res, err := a.deps.Papers.SearchPapers(ctx, truncate(topic, 300), 3)
		if err != nil {
			a.deps.Logger.Warn(module, "Academic search failed", map[string]interface{}{"error": err.Error()})
		}
		academic = res
	}

	var urls []string
	for _, r := range broad {
		if r.URL == "" || strings.HasSuffix(r.URL, ".pdf") {
			continue
		}
		urls = append(urls, r.URL)
		if len(urls) == 2 {
			break
		}
	}
	pages := a.deps.scrapeAll(ctx, urls)

	var sb strings.Builder
	for _, d := range broad {
		sb.WriteString(fmt.Sprintf("Source: %s\nTitle: %s\nSnippet: %s\n\n", d.URL, d.Title, d.Content))
	}
	for _, d := range academic {
		sb.WriteString(fmt.Sprintf("Source: %s\nTitle: %s\nAuthors: %s\nAbstract: %s\n\n", d.URL, d.Title, strings.Join(d.Authors, ", "), d.Content))
	}
	for _, p := range pages {
		sb.WriteString(fmt.Sprintf("Source: %s\nContent: %s\n\n", p.URL, truncate(p.Content, 1500)))
	}

	prompt := fmt.Sprintf(`You are an AI research assistant. Your goal is to find key technical papers, articles, and libraries related to:
%q

RESEARCH DATA:
%s
Analyze the abstracts, snippets, and scraped text.
Select the most important 3-5 papers/articles/libraries.
Return a JSON object: {"papers":[{"title":"","authors":[""],"summary":"","source_url":"","key_findings":[""]}]}`, topic, sb.String())

	report, ok := generate(ctx, a.deps, module, prompt, func(r state.PaperReport) bool {
		return len(r.Papers) > 0
	})
	if !ok {
		report = FallbackPapers()
	}

	a.deps.Logger.Info(module, "Paper mining finished", map[string]interface{}{
		"web_results":   len(broad),
		"arxiv_results": len(academic),
		"papers":        len(report.Papers),
		"fallback":      !ok,
	})

	return state.AgentOutput{
		Agent:    state.TechPaperMiner,
		Success:  true,
		Fallback: !ok,
		Papers:   &report,
	}
}

func FallbackPapers() state.PaperReport {
	return state.PaperReport{Papers: []state.Paper{
		{
			Title:       "Mock Technical Paper: Advances in Agentic AI",
			Authors:     []string{"Jane Doe", "John Smith"},
			Summary:     "This is a mock abstract returned due to an LLM error. It discusses the theoretical foundations of autonomous agents.",
			KeyFindings: []string{"Agents can plan recursively", "Tool use improves accuracy"},
			SourceURL:   "https://arxiv.org/abs/mock-paper-1",
		},
		{
			Title:       "Optimizing LLM Context Windows (Mock)",
			Authors:     []string{"Alice Johnson"},
			Summary:     "Mock paper about efficient context management in large language models.",
			KeyFindings: []string{"Sliding windows reduce cost", "Summary tokens preserve context"},
			SourceURL:   "https://arxiv.org/abs/mock-paper-2",
		},
	}}
}
