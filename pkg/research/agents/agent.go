package agents

import (
	"context"

	"inzite-research-be/internal/pkg/logger"
	"inzite-research-be/pkg/llm"
	"inzite-research-be/pkg/research/state"
	"inzite-research-be/pkg/search"

	"golang.org/x/sync/errgroup"
)

// Agent is one research specialist. Run never fails: on any error it returns its
// fallback payload with Fallback set.
type Agent interface {
	Name() state.AgentName
	Run(ctx context.Context, idea string) state.AgentOutput
}

// Deps are the collaborators shared by every agent. News may be nil.
type Deps struct {
	Web     search.WebSearcher
	Papers  search.PaperSearcher
	News    search.NewsSearcher
	Scraper search.PageScraper
	LLM     llm.LLMProvider
	Logger  logger.ILogger
}

// webSearch logs and swallows search errors.
func (d Deps) webSearch(ctx context.Context, module, query string, n int) []search.Result {
	if d.Web == nil {
		return nil
	}
	res, err := d.Web.Search(ctx, query, n)
	if err != nil {
		d.Logger.Warn(module, "Web search failed", map[string]interface{}{"query": query, "error": err.Error()})
		return nil
	}
	return res
}

type scraped struct {
	URL     string
	Content string
}

// scrapeAll fetches urls concurrently, keeping input order.
func (d Deps) scrapeAll(ctx context.Context, urls []string) []scraped {
	out := make([]scraped, len(urls))
	if d.Scraper == nil {
		for i, u := range urls {
			out[i] = scraped{URL: u}
		}
		return out
	}

	var g errgroup.Group
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			out[i] = scraped{URL: u, Content: d.Scraper.Scrape(ctx, u, search.DefaultScrapeBudget)}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// generate asks the LLM for JSON into T. ok is false when the fallback should be used.
func generate[T any](ctx context.Context, d Deps, module, prompt string, valid func(T) bool) (T, bool) {
	var out T
	if d.LLM == nil {
		d.Logger.Warn(module, "No LLM configured, returning fallback data", nil)
		return out, false
	}

	raw, err := d.LLM.Generate(ctx, prompt, llm.WithJSON(), llm.WithTemperature(0.3))
	if err != nil {
		d.Logger.Warn(module, "Generation failed, returning fallback data", map[string]interface{}{"error": err.Error()})
		return out, false
	}
	if err := llm.ExtractJSON(raw, &out); err != nil || !valid(out) {
		d.Logger.Warn(module, "Generation output unusable, returning fallback data", map[string]interface{}{"raw_len": len(raw)})
		var zero T
		return zero, false
	}
	return out, true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
