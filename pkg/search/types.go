package search

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"
)

// ErrMissingCredentials is returned by adapters whose API key is not configured.
var ErrMissingCredentials = errors.New("search: missing credentials")

// Result is the uniform shape every search adapter returns.
type Result struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Content       string   `json:"content"`
	Authors       []string `json:"authors,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
}

// WebSearcher runs a general web search.
type WebSearcher interface {
	Search(ctx context.Context, query string, numResults int) ([]Result, error)
}

// PaperSearcher runs an academic paper search.
type PaperSearcher interface {
	SearchPapers(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// NewsSearcher fetches recent news articles for a topic.
type NewsSearcher interface {
	SearchNews(ctx context.Context, topic string, pageSize int) ([]Result, error)
}

// PageScraper fetches a page and returns its visible text. It never fails: errors are
// reported inline in the returned text so callers can still build a context blob.
type PageScraper interface {
	Scrape(ctx context.Context, url string, maxChars int) string
}

// NewLimiter returns a limiter allowing one call per interval with the given burst.
func NewLimiter(interval time.Duration, burst int) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	return rate.NewLimiter(rate.Every(interval), burst)
}

func wait(ctx context.Context, l *rate.Limiter) error {
	if l == nil {
		return nil
	}
	return l.Wait(ctx)
}
