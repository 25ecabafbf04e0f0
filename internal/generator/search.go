package generator

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultSearchEndpoint = "https://html.duckduckgo.com/html/"
	searchTimeout         = 20 * time.Second
	maxSearchResults      = 8
)

// Searcher performs one web search and returns the results as free text.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// DuckDuckGoSearcher scrapes the DuckDuckGo HTML endpoint. No API key
// needed, which keeps the research stage independent of the credential pool.
type DuckDuckGoSearcher struct {
	endpoint   string
	httpClient *http.Client
}

func NewDuckDuckGoSearcher() *DuckDuckGoSearcher {
	return &DuckDuckGoSearcher{
		endpoint:   defaultSearchEndpoint,
		httpClient: &http.Client{Timeout: searchTimeout},
	}
}

func (s *DuckDuckGoSearcher) Search(ctx context.Context, query string) (string, error) {
	reqURL := s.endpoint + "?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("build search request: %w", err)
	}
	// The HTML endpoint rejects requests without a browser-like agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse search page: %w", err)
	}

	return extractResults(doc), nil
}

func extractResults(doc *goquery.Document) string {
	var sb strings.Builder
	count := 0

	doc.Find(".result").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Find(".result__a").Text())
		snippet := strings.TrimSpace(sel.Find(".result__snippet").Text())
		if title == "" && snippet == "" {
			return true
		}
		if count > 0 {
			sb.WriteString("\n")
		}
		if title != "" {
			sb.WriteString(title)
			sb.WriteString(": ")
		}
		sb.WriteString(snippet)
		count++
		return count < maxSearchResults
	})

	return sb.String()
}
