package agents

import (
	"context"

	"inzite-research-be/internal/pkg/logger"
	"inzite-research-be/pkg/research/state"

	"golang.org/x/sync/errgroup"
)

// Runner fans the planner's selection out to the registered agents and waits for all of them.
type Runner struct {
	agents map[state.AgentName]Agent
	logger logger.ILogger
}

func NewRunner(log logger.ILogger, agents ...Agent) *Runner {
	r := &Runner{agents: make(map[state.AgentName]Agent, len(agents)), logger: log}
	for _, a := range agents {
		r.agents[a.Name()] = a
	}
	return r
}

// NewDefaultRunner registers all three research agents over shared deps.
func NewDefaultRunner(deps Deps) *Runner {
	return NewRunner(deps.Logger, NewCompetitorScout(deps), NewTrendScraper(deps), NewTechPaperMiner(deps))
}

// RunAgent runs one agent by name. ok is false when the name is not registered.
func (r *Runner) RunAgent(ctx context.Context, name state.AgentName, input string) (state.AgentOutput, bool) {
	a, ok := r.agents[name]
	if !ok {
		return state.AgentOutput{}, false
	}
	return a.Run(ctx, input), true
}

// Run executes every selected agent concurrently. Outputs follow the selection order;
// unregistered names are skipped.
func (r *Runner) Run(ctx context.Context, selected []state.AgentName, input string) []state.AgentOutput {
	slots := make([]*state.AgentOutput, len(selected))

	var g errgroup.Group
	for i, name := range selected {
		i, name := i, name
		g.Go(func() error {
			out, ok := r.RunAgent(ctx, name, input)
			if !ok {
				r.logger.Warn("AgentRunner", "Unknown agent skipped", map[string]interface{}{"agent": string(name)})
				return nil
			}
			slots[i] = &out
			return nil
		})
	}
	_ = g.Wait()

	outputs := make([]state.AgentOutput, 0, len(selected))
	for _, o := range slots {
		if o != nil {
			outputs = append(outputs, *o)
		}
	}
	return outputs
}
