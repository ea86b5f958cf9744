package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const searchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Pre-compiled regexes for DuckDuckGo HTML result extraction.
var (
	reTags       = regexp.MustCompile(`<[^>]+>`)
	reDDGLink    = regexp.MustCompile(`<a[^>]*class="[^"]*result__a[^"]*"[^>]*href="([^"]+)"[^>]*>([\s\S]*?)</a>`)
	reDDGSnippet = regexp.MustCompile(`<a class="result__snippet[^"]*".*?>([\s\S]*?)</a>`)
)

// SearchResult is one entry returned by the search tool.
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

type searchProvider interface {
	Search(ctx context.Context, query string, count int) ([]SearchResult, error)
}

// SearchToolOptions configures the web search tool.
type SearchToolOptions struct {
	BraveAPIKey          string
	BraveMaxResults      int
	BraveEnabled         bool
	DuckDuckGoMaxResults int
	Proxy                string
}

// SearchTool performs a web search. Brave is used when configured;
// otherwise it falls back to scraping DuckDuckGo's HTML endpoint, which
// needs no key.
type SearchTool struct {
	provider   searchProvider
	maxResults int
}

func NewSearchTool(opts SearchToolOptions) *SearchTool {
	if opts.BraveEnabled && opts.BraveAPIKey != "" {
		count := opts.BraveMaxResults
		if count <= 0 {
			count = 5
		}
		return &SearchTool{
			provider:   &braveSearchProvider{apiKey: opts.BraveAPIKey, proxy: opts.Proxy},
			maxResults: count,
		}
	}

	count := opts.DuckDuckGoMaxResults
	if count <= 0 {
		count = 5
	}
	return &SearchTool{
		provider:   &duckDuckGoSearchProvider{proxy: opts.Proxy},
		maxResults: count,
	}
}

func (t *SearchTool) ID() string {
	return "search_web"
}

func (t *SearchTool) Description() string {
	return "Search the web and return the top results with titles, links, and snippets"
}

func (t *SearchTool) InputSchema() map[string]string {
	return map[string]string{
		"query": "string",
	}
}

func (t *SearchTool) OutputSchema() map[string]string {
	return map[string]string{
		"query":   "string",
		"results": "list",
	}
}

func (t *SearchTool) Execute(ctx context.Context, args map[string]any) (any, string, error) {
	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return nil, "", fmt.Errorf("query is required")
	}

	results, err := t.provider.Search(ctx, query, t.maxResults)
	if err != nil {
		return nil, "", err
	}
	if len(results) == 0 {
		return map[string]any{"query": query, "results": []SearchResult{}},
			fmt.Sprintf("No results for: %s", query), nil
	}

	return map[string]any{
		"query":   query,
		"results": results,
	}, fmt.Sprintf("%d results for: %s", len(results), query), nil
}

type braveSearchProvider struct {
	apiKey string
	proxy  string
}

func (p *braveSearchProvider) Search(ctx context.Context, query string, count int) ([]SearchResult, error) {
	searchURL := fmt.Sprintf("https://api.search.brave.com/res/v1/web/search?q=%s&count=%d",
		url.QueryEscape(query), count)

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", p.apiKey)

	body, err := doSearchRequest(req, p.proxy)
	if err != nil {
		return nil, err
	}

	var searchResp struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	results := make([]SearchResult, 0, len(searchResp.Web.Results))
	for i, item := range searchResp.Web.Results {
		if i >= count {
			break
		}
		results = append(results, SearchResult{
			Title:       item.Title,
			URL:         item.URL,
			Description: item.Description,
		})
	}
	return results, nil
}

type duckDuckGoSearchProvider struct {
	proxy string
}

func (p *duckDuckGoSearchProvider) Search(ctx context.Context, query string, count int) ([]SearchResult, error) {
	searchURL := fmt.Sprintf("https://html.duckduckgo.com/html/?q=%s", url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", searchUserAgent)

	body, err := doSearchRequest(req, p.proxy)
	if err != nil {
		return nil, err
	}

	return extractDDGResults(string(body), count), nil
}

func extractDDGResults(html string, count int) []SearchResult {
	matches := reDDGLink.FindAllStringSubmatch(html, count+5)
	snippetMatches := reDDGSnippet.FindAllStringSubmatch(html, count+5)

	results := make([]SearchResult, 0, count)
	for i, m := range matches {
		if i >= count {
			break
		}

		urlStr := m[1]
		// DDG wraps destinations in a redirect with the target in uddg=.
		if strings.Contains(urlStr, "uddg=") {
			if u, err := url.QueryUnescape(urlStr); err == nil {
				if idx := strings.Index(u, "uddg="); idx != -1 {
					urlStr = u[idx+5:]
				}
			}
		}

		result := SearchResult{
			Title: strings.TrimSpace(stripTags(m[2])),
			URL:   urlStr,
		}
		if i < len(snippetMatches) {
			result.Description = strings.TrimSpace(stripTags(snippetMatches[i][1]))
		}
		results = append(results, result)
	}
	return results
}

func stripTags(s string) string {
	return reTags.ReplaceAllString(s, "")
}

func doSearchRequest(req *http.Request, proxy string) ([]byte, error) {
	client, err := createHTTPClient(proxy, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search api error (status %d)", resp.StatusCode)
	}
	return body, nil
}
