package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const tavilyDefaultURL = "https://api.tavily.com/search"

// TavilyClient is a WebSearcher backed by the Tavily search API.
type TavilyClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

var _ WebSearcher = &TavilyClient{}

type tavilyRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	NumResults int    `json:"num_results"`
	MaxResults int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

func NewTavilyClient(apiKey string, limiter *rate.Limiter) *TavilyClient {
	return &TavilyClient{
		apiKey:   apiKey,
		endpoint: tavilyDefaultURL,
		client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  limiter,
	}
}

// WithEndpoint overrides the API endpoint.
func (c *TavilyClient) WithEndpoint(endpoint string) *TavilyClient {
	c.endpoint = endpoint
	return c
}

func (c *TavilyClient) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	if c.apiKey == "" {
		return nil, ErrMissingCredentials
	}
	if err := wait(ctx, c.limiter); err != nil {
		return nil, err
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:     c.apiKey,
		Query:      query,
		NumResults: numResults,
		MaxResults: numResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal tavily request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("create tavily request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tavily response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily api error: status %d, body: %s", resp.StatusCode, string(raw))
	}

	var parsed tavilyResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode tavily response: %w", err)
	}

	results := make([]Result, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, Result{Title: r.Title, URL: r.URL, Content: r.Content})
	}
	return results, nil
}
