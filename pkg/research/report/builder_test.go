package report

import (
	"encoding/json"
	"testing"

	"inzite-research-be/pkg/research/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState(t *testing.T) *state.PipelineState {
	t.Helper()
	var doc state.StrategyDocument
	require.NoError(t, json.Unmarshal([]byte(`{
		"executive_summary": "Strong demand.",
		"key_findings": ["Finding one", "Finding two"],
		"market_opportunities": [{"opportunity": "Urban owners", "impact": "High", "evidence": ["Survey A"]}],
		"risks_and_challenges": ["Trust"],
		"strategic_recommendations": [{"area": "Product", "action": "Vet sitters", "priority": "High", "owner": "COO"}],
		"suggested_kpis": [{"name": "Bookings", "target": "1k", "rationale": "Traction"}],
		"roadmap": {"phase_1_launch": ["Pilot"], "phase_2_growth": ["Expand", "Partner"]}
	}`), &doc))

	return &state.PipelineState{
		UserInput: "AI pet-sitting marketplace",
		Strategy:  &doc,
		AgentOutputs: []state.AgentOutput{
			{Agent: state.TrendScraper, Trends: &state.TrendReport{}},
			{Agent: state.CompetitorScout, Analysis: &state.CompetitorAnalysis{}},
			{Agent: state.TechPaperMiner, Papers: &state.PaperReport{}},
			{Agent: "Custom"},
		},
	}
}

func TestBuild_Markdown(t *testing.T) {
	md, _ := Build(sampleState(t))

	want := "# AI pet-sitting marketplace\n\n" +
		"## Executive Summary\nStrong demand.\n\n" +
		"## Key Findings\n- Finding one\n- Finding two\n\n" +
		"## Market Opportunities\n### Urban owners\n**Impact:** High\n- Survey A\n\n" +
		"## Risks & Challenges\n- Trust\n\n" +
		"## Strategic Recommendations\n### Product\n**Action:** Vet sitters\n**Priority:** High | **Owner:** COO\n\n" +
		"## Implementation Roadmap\n### phase 1 launch\n- Pilot\n\n### phase 2 growth\n- Expand\n- Partner\n\n"
	assert.Equal(t, want, md)
}

func TestBuild_Idempotent(t *testing.T) {
	st := sampleState(t)
	first, g1 := Build(st)
	second, g2 := Build(st)
	assert.Equal(t, first, second)

	j1, err := json.Marshal(g1)
	require.NoError(t, err)
	j2, err := json.Marshal(g2)
	require.NoError(t, err)
	assert.Equal(t, j1, j2)
}

func TestBuild_SkipsEmptySections(t *testing.T) {
	md, _ := Build(&state.PipelineState{
		UserInput: "idea",
		Strategy:  &state.StrategyDocument{ExecutiveSummary: "Only this."},
	})
	assert.Equal(t, "# idea\n\n## Executive Summary\nOnly this.\n\n", md)
}

func TestBuild_NoStrategy(t *testing.T) {
	md, groups := Build(&state.PipelineState{UserInput: "idea"})
	assert.Equal(t, NoStrategy, md)
	assert.Empty(t, groups)
}

func TestGroupAgentOutputs(t *testing.T) {
	groups := GroupAgentOutputs(sampleState(t).AgentOutputs)
	assert.Equal(t, []string{GroupTrend, GroupCompetitor, GroupPaper, "Agent Output 4"}, groups.Keys())
}
