package planner

import (
	"context"
	"encoding/json"
	"fmt"

	"inzite-research-be/internal/pkg/logger"
	"inzite-research-be/pkg/llm"
	"inzite-research-be/pkg/research/state"
)

const module = "Planner"

// Planner chooses which research agents to run for an intent.
type Planner struct {
	llm    llm.LLMProvider
	logger logger.ILogger
}

func NewPlanner(provider llm.LLMProvider, log logger.ILogger) *Planner {
	return &Planner{llm: provider, logger: log}
}

type rawPlan struct {
	PlanSteps      []string `json:"plan_steps"`
	SelectedAgents []string `json:"selected_agents"`
}

// Plan never returns an empty selection. Any failure selects every agent.
func (p *Planner) Plan(ctx context.Context, intent *state.IntentMetadata) *state.Plan {
	if p.llm == nil {
		return FallbackPlan()
	}

	prompt, err := buildPrompt(intent)
	if err != nil {
		p.logger.Warn(module, "Could not encode intent, using fallback plan", map[string]interface{}{"error": err.Error()})
		return FallbackPlan()
	}

	raw, err := p.llm.Generate(ctx, prompt, llm.WithJSON(), llm.WithTemperature(0.3))
	if err != nil {
		p.logger.Warn(module, "Planning failed, using fallback plan", map[string]interface{}{"error": err.Error()})
		return FallbackPlan()
	}

	var parsed rawPlan
	if err := llm.ExtractJSON(raw, &parsed); err != nil {
		p.logger.Warn(module, "Plan output unreadable, using fallback plan", map[string]interface{}{"error": err.Error()})
		return FallbackPlan()
	}

	agents := state.NormalizeAgents(parsed.SelectedAgents)
	if len(agents) == 0 {
		p.logger.Warn(module, "Plan selected no known agents, selecting all", map[string]interface{}{"selected": parsed.SelectedAgents})
		return FallbackPlan()
	}

	steps := parsed.PlanSteps
	if len(steps) == 0 {
		steps = stepsFor(agents)
	}

	p.logger.Info(module, "Plan generated", map[string]interface{}{"agents": agents})
	return &state.Plan{PlanSteps: steps, SelectedAgents: agents}
}

// FallbackPlan selects the full agent vocabulary.
func FallbackPlan() *state.Plan {
	agents := state.AllAgents()
	return &state.Plan{
		PlanSteps:      stepsFor(agents),
		SelectedAgents: agents,
		Fallback:       true,
	}
}

func stepsFor(agents []state.AgentName) []string {
	steps := make([]string, len(agents))
	for i, a := range agents {
		steps[i] = fmt.Sprintf("Execute %s", a)
	}
	return steps
}

func buildPrompt(intent *state.IntentMetadata) (string, error) {
	encoded, err := json.MarshalIndent(intent, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`You are an intelligent Dynamic Task Planner for an Agentic Startup Research Assistant.

Given the parsed startup intent:
%s

AVAILABLE AGENTS:
- CompetitorScout: Finds competitors and analyzes their features.
- TrendScraper: Finds latest market trends and news.
- TechPaperMiner: Finds technical papers and academic research.

If you are unsure whether an agent is useful, select it. Selecting all three is the safe default.

Return a pure JSON object with:
{
    "plan_steps": ["Step 1...", "Step 2..."],
    "selected_agents": ["AgentName1", "AgentName2"]
}`, encoded), nil
}
