package report

import (
	"fmt"
	"strings"

	"inzite-research-be/pkg/research/state"
)

// NoStrategy is the markdown produced when the strategy stage left nothing to render.
const NoStrategy = "Error: No strategy generated."

const (
	GroupCompetitor = "Competitor Scout (Raw)"
	GroupTrend      = "Trend Scraper (Raw)"
	GroupPaper      = "Tech Paper Miner (Raw)"
)

// Build renders the strategy as markdown and groups raw agent outputs for display.
// It is a pure function of st.
func Build(st *state.PipelineState) (string, state.AgentGroups) {
	groups := GroupAgentOutputs(st.AgentOutputs)
	if st.Strategy == nil {
		return NoStrategy, groups
	}
	return RenderMarkdown(st.UserInput, st.Strategy), groups
}

func RenderMarkdown(title string, s *state.StrategyDocument) string {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", title)

	if s.ExecutiveSummary != "" {
		fmt.Fprintf(&md, "## Executive Summary\n%s\n\n", s.ExecutiveSummary)
	}

	if len(s.KeyFindings) > 0 {
		md.WriteString("## Key Findings\n")
		writeBullets(&md, s.KeyFindings)
		md.WriteString("\n")
	}

	if len(s.MarketOpportunities) > 0 {
		md.WriteString("## Market Opportunities\n")
		for _, op := range s.MarketOpportunities {
			fmt.Fprintf(&md, "### %s\n", op.Opportunity)
			fmt.Fprintf(&md, "**Impact:** %s\n", op.Impact)
			writeBullets(&md, op.Evidence)
			md.WriteString("\n")
		}
	}

	if len(s.RisksAndChallenges) > 0 {
		md.WriteString("## Risks & Challenges\n")
		writeBullets(&md, s.RisksAndChallenges)
		md.WriteString("\n")
	}

	if len(s.StrategicRecommendations) > 0 {
		md.WriteString("## Strategic Recommendations\n")
		for _, rec := range s.StrategicRecommendations {
			fmt.Fprintf(&md, "### %s\n", rec.Area)
			fmt.Fprintf(&md, "**Action:** %s\n", rec.Action)
			fmt.Fprintf(&md, "**Priority:** %s | **Owner:** %s\n\n", rec.Priority, rec.Owner)
		}
	}

	if len(s.Roadmap) > 0 {
		md.WriteString("## Implementation Roadmap\n")
		for _, phase := range s.Roadmap {
			fmt.Fprintf(&md, "### %s\n", strings.ReplaceAll(phase.Key, "_", " "))
			writeBullets(&md, phase.Value)
			md.WriteString("\n")
		}
	}

	return md.String()
}

// GroupAgentOutputs keys each output by the kind of payload it carries.
func GroupAgentOutputs(outputs []state.AgentOutput) state.AgentGroups {
	groups := state.AgentGroups{}
	for _, out := range outputs {
		switch {
		case out.Analysis != nil:
			groups.Set(GroupCompetitor, out)
		case out.Trends != nil:
			groups.Set(GroupTrend, out)
		case out.Papers != nil:
			groups.Set(GroupPaper, out)
		default:
			groups.Set(fmt.Sprintf("Agent Output %d", len(groups)+1), out)
		}
	}
	return groups
}

func writeBullets(md *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(md, "- %s\n", item)
	}
}
