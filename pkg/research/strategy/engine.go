package strategy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inzite-research-be/internal/pkg/logger"
	"inzite-research-be/pkg/llm"
	"inzite-research-be/pkg/research/state"
)

const (
	module          = "StrategyEngine"
	maxContextItems = 10
	snippetChars    = 2000
	maxFindings     = 5
)

var errNoContext = errors.New("no context found to summarize")

// Engine synthesizes the final strategy document.
type Engine struct {
	llm    llm.LLMProvider
	logger logger.ILogger
}

func NewEngine(provider llm.LLMProvider, log logger.ILogger) *Engine {
	return &Engine{llm: provider, logger: log}
}

// Synthesize always returns a fully shaped document. LLM or parse failures produce a
// context-derived fallback.
func (e *Engine) Synthesize(ctx context.Context, query string, contexts []string) *state.StrategyDocument {
	if len(contexts) > maxContextItems {
		contexts = contexts[:maxContextItems]
	}
	contextText := strings.Join(contexts, "\n\n")

	if strings.TrimSpace(contextText) == "" {
		return Fallback(contextText, errNoContext)
	}

	raw, err := e.llm.Generate(ctx, buildPrompt(query, contextText), llm.WithJSON())
	if err != nil {
		e.logger.Warn(module, "LLM call failed, building fallback strategy", map[string]interface{}{"error": err.Error()})
		return Fallback(contextText, err)
	}

	var doc state.StrategyDocument
	if err := llm.ExtractJSON(raw, &doc); err != nil {
		e.logger.Warn(module, "Strategy output unreadable, building fallback strategy", map[string]interface{}{"error": err.Error()})
		return Fallback(contextText, err)
	}
	if strings.TrimSpace(doc.ExecutiveSummary) == "" && len(doc.KeyFindings) == 0 {
		err := fmt.Errorf("strategy output has no content")
		e.logger.Warn(module, "Strategy output empty, building fallback strategy", nil)
		return Fallback(contextText, err)
	}
	doc.Fallback = false

	e.logger.Info(module, "Strategy synthesized", map[string]interface{}{
		"findings":        len(doc.KeyFindings),
		"opportunities":   len(doc.MarketOpportunities),
		"recommendations": len(doc.StrategicRecommendations),
	})
	return &doc
}

// Fallback builds a manual-review strategy from the raw context.
func Fallback(contextText string, cause error) *state.StrategyDocument {
	summary := fmt.Sprintf("**Note:** The AI summarizer encountered an error (%s). Below is the raw research data retrieved for your query.\n\n### Research Context Snippets:\n%s... (truncated)",
		cause.Error(), truncate(contextText, snippetChars))

	findings := ExtractFindings(contextText)
	if len(findings) == 0 {
		findings = []string{"Could not extract specific findings. Please review the Research Context above."}
	}

	var roadmap state.Roadmap
	roadmap.Set("phase_1_review", []string{"Read retrieved context", "Identify key trends"})
	roadmap.Set("phase_2_action", []string{"Formulate strategy based on raw data"})

	return &state.StrategyDocument{
		ExecutiveSummary: summary,
		KeyFindings:      findings,
		MarketOpportunities: []state.MarketOpportunity{{
			Opportunity: "Analysis of Retrieved Data",
			Impact:      "Unknown",
			Evidence:    []string{"Please refer to the raw research context provided in the Executive Summary."},
		}},
		RisksAndChallenges: []string{"LLM Summarization Failed - Manual Review Required"},
		StrategicRecommendations: []state.Recommendation{{
			Area:     "Manual Review",
			Action:   "Review the raw research data to derive insights.",
			Priority: "High",
			Owner:    "User",
		}},
		SuggestedKPIs: []state.KPI{{
			Name:      "Data Coverage",
			Target:    "N/A",
			Rationale: "Assess the quality of retrieved documents.",
		}},
		Roadmap:  roadmap,
		Fallback: true,
	}
}

// ExtractFindings picks up to five lines between 21 and 149 characters long.
func ExtractFindings(contextText string) []string {
	var findings []string
	for _, line := range strings.Split(contextText, "\n") {
		n := len([]rune(line))
		if n <= 20 || n >= 150 {
			continue
		}
		findings = append(findings, strings.TrimSpace(line))
		if len(findings) == maxFindings {
			break
		}
	}
	return findings
}

func buildPrompt(query, contextText string) string {
	return fmt.Sprintf(`You are a strategic startup consultant.
Your goal is to synthesize research into a comprehensive strategic report.

### User Idea/Query:
%s

### Research Context:
%s

### Instructions:
- Analyze the provided context deeply.
- Generate a structured strategic report in JSON format.
- Ensure the output matches the following schema EXACTLY.

### JSON Schema:
{
  "executive_summary": "High-level summary of the opportunity and strategy (2-3 sentences).",
  "key_findings": ["List of 3-5 critical insights from the research."],
  "market_opportunities": [
      { "opportunity": "Name of opportunity", "impact": "High/Medium/Low", "evidence": ["Supporting fact 1", "Supporting fact 2"] }
  ],
  "risks_and_challenges": ["List of 3-5 potential risks."],
  "strategic_recommendations": [
      { "area": "Product/Marketing/Tech", "action": "Specific recommendation", "priority": "High/Medium", "owner": "Role responsible" }
  ],
  "suggested_kpis": [
      { "name": "KPI Name", "target": "Target value", "rationale": "Why this matters" }
  ],
  "roadmap": {
      "phase_1_launch": ["Step 1", "Step 2"],
      "phase_2_growth": ["Step 1", "Step 2"]
  }
}`, query, contextText)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
