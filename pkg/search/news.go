package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const newsAPIDefaultURL = "https://newsapi.org/v2/everything"

// NewsAPIClient is a NewsSearcher backed by newsapi.org.
type NewsAPIClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

var _ NewsSearcher = &NewsAPIClient{}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func NewNewsAPIClient(apiKey string, limiter *rate.Limiter) *NewsAPIClient {
	return &NewsAPIClient{
		apiKey:   apiKey,
		endpoint: newsAPIDefaultURL,
		client:   &http.Client{Timeout: 20 * time.Second},
		limiter:  limiter,
	}
}

// WithEndpoint overrides the API endpoint.
func (c *NewsAPIClient) WithEndpoint(endpoint string) *NewsAPIClient {
	c.endpoint = endpoint
	return c
}

func (c *NewsAPIClient) SearchNews(ctx context.Context, topic string, pageSize int) ([]Result, error) {
	if c.apiKey == "" {
		return nil, ErrMissingCredentials
	}
	if err := wait(ctx, c.limiter); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", topic)
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", fmt.Sprint(pageSize))
	params.Set("language", "en")
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create news request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read news response: %w", err)
	}

	var parsed newsAPIResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode news response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || parsed.Status == "error" {
		return nil, fmt.Errorf("news api error: status %d, %s", resp.StatusCode, parsed.Message)
	}

	results := make([]Result, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		results = append(results, Result{
			Title:         a.Title,
			URL:           a.URL,
			Content:       a.Description,
			PublishedDate: a.PublishedAt,
		})
	}
	return results, nil
}
