package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	DefaultScrapeBudget = 8000
	// maxPageBytes bounds how much HTML is read. The text kept is far smaller.
	maxPageBytes = 2 << 20
	scraperUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Scraper extracts the visible body text of a page.
type Scraper struct {
	client   *http.Client
	maxBytes int64
}

var _ PageScraper = &Scraper{}

func NewScraper() *Scraper {
	return &Scraper{client: &http.Client{Timeout: 15 * time.Second}, maxBytes: maxPageBytes}
}

func (s *Scraper) Scrape(ctx context.Context, pageURL string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultScrapeBudget
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return fmt.Sprintf("Failed to scrape %s: %v", pageURL, err)
	}
	req.Header.Set("User-Agent", scraperUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Sprintf("Failed to scrape %s: %v", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Sprintf("Failed to scrape %s: %s", pageURL, http.StatusText(resp.StatusCode))
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, s.maxBytes))
	if err != nil {
		return fmt.Sprintf("Failed to scrape %s: %v", pageURL, err)
	}

	return truncateRunes(ExtractText(doc), maxChars)
}

// ExtractText returns the whitespace-collapsed text under <body>, skipping script and style.
func ExtractText(doc *html.Node) string {
	root := findElement(doc, "body")
	if root == nil {
		root = doc
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return strings.Join(strings.Fields(sb.String()), " ")
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
