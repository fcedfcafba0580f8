package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const arxivDefaultURL = "http://export.arxiv.org/api/query"

// ArxivClient is a PaperSearcher over the public arXiv Atom API. No key is required.
type ArxivClient struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

var _ PaperSearcher = &ArxivClient{}

type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
}

func NewArxivClient(limiter *rate.Limiter) *ArxivClient {
	return &ArxivClient{
		endpoint: arxivDefaultURL,
		client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  limiter,
	}
}

// WithEndpoint overrides the API endpoint.
func (c *ArxivClient) WithEndpoint(endpoint string) *ArxivClient {
	c.endpoint = endpoint
	return c
}

func (c *ArxivClient) SearchPapers(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if err := wait(ctx, c.limiter); err != nil {
		return nil, err
	}

	apiURL := fmt.Sprintf("%s?search_query=all:%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		c.endpoint, url.QueryEscape(query), maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create arxiv request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read arxiv response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv api error: status %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.Unmarshal(raw, &feed); err != nil {
		return nil, fmt.Errorf("decode arxiv feed: %w", err)
	}

	results := make([]Result, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		authors := make([]string, 0, len(e.Authors))
		for _, a := range e.Authors {
			authors = append(authors, a.Name)
		}
		results = append(results, Result{
			Title:         flattenLines(e.Title),
			URL:           strings.TrimSpace(e.ID),
			Content:       flattenLines(e.Summary),
			Authors:       authors,
			PublishedDate: strings.TrimSpace(e.Published),
		})
	}
	return results, nil
}

func flattenLines(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}
