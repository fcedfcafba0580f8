package state

import (
	"strings"

	"inzite-research-be/pkg/search"
)

type AgentName string

const (
	CompetitorScout AgentName = "CompetitorScout"
	TrendScraper    AgentName = "TrendScraper"
	TechPaperMiner  AgentName = "TechPaperMiner"
)

// AllAgents is the full agent vocabulary in execution order.
func AllAgents() []AgentName {
	return []AgentName{CompetitorScout, TrendScraper, TechPaperMiner}
}

// ParseAgentName accepts both CamelCase and snake_case spellings, case-insensitively.
func ParseAgentName(s string) (AgentName, bool) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	for _, a := range AllAgents() {
		if strings.ToLower(string(a)) == key {
			return a, true
		}
	}
	return "", false
}

// NormalizeAgents maps names onto the vocabulary, dropping unknowns and duplicates.
func NormalizeAgents(names []string) []AgentName {
	seen := make(map[AgentName]bool)
	var out []AgentName
	for _, n := range names {
		a, ok := ParseAgentName(n)
		if !ok || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

type Competitor struct {
	Name                     string   `json:"name"`
	Domain                   string   `json:"domain"`
	Summary                  string   `json:"summary"`
	Website                  string   `json:"website,omitempty"`
	ReasonForSimilarity      string   `json:"reason_for_similarity"`
	EstimatedSimilarityScore Score    `json:"estimated_similarity_score"`
	KeyFeatures              []string `json:"key_features,omitempty"`
	PricingModel             string   `json:"pricing_model,omitempty"`
	TargetAudience           string   `json:"target_audience,omitempty"`
}

type CompetitorAnalysis struct {
	Competitors []Competitor `json:"competitors"`
}

type Trend struct {
	TrendName         string   `json:"trend_name"`
	ShortSummary      string   `json:"short_summary"`
	RelevanceScore    Score    `json:"relevance_score"`
	SupportingSources []string `json:"supporting_sources"`
}

type TrendReport struct {
	Trends []Trend `json:"trends"`
}

type Paper struct {
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Summary     string   `json:"summary"`
	SourceURL   string   `json:"source_url"`
	KeyFindings []string `json:"key_findings"`
}

type PaperReport struct {
	Papers []Paper `json:"papers"`
}

// AgentOutput is the uniform result of one research agent. Exactly one of Analysis, Trends
// or Papers is set. Fallback marks placeholder data.
type AgentOutput struct {
	Agent         AgentName           `json:"agent"`
	Success       bool                `json:"success"`
	Fallback      bool                `json:"fallback"`
	Analysis      *CompetitorAnalysis `json:"analysis,omitempty"`
	Trends        *TrendReport        `json:"trends,omitempty"`
	Papers        *PaperReport        `json:"papers,omitempty"`
	SearchResults []search.Result     `json:"searchResults,omitempty"`
}
