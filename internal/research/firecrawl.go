// Package research fetches best-effort web content for intelligence refinement.
package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const firecrawlAPIURL = "https://api.firecrawl.dev/v0/scrape"

// Fetcher returns page text for a URL, or "" when nothing could be fetched.
type Fetcher interface {
	Fetch(ctx context.Context, url string) string
}

// FirecrawlClient scrapes pages through the Firecrawl API.
type FirecrawlClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// FirecrawlConfig holds configuration for the Firecrawl client.
type FirecrawlConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewFirecrawlClient creates a Firecrawl client.
func NewFirecrawlClient(cfg FirecrawlConfig) *FirecrawlClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = firecrawlAPIURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &FirecrawlClient{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type scrapeRequest struct {
	URL         string      `json:"url"`
	PageOptions pageOptions `json:"pageOptions"`
}

type pageOptions struct {
	OnlyMainContent bool `json:"onlyMainContent"`
}

type scrapeResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Markdown string `json:"markdown"`
		Content  string `json:"content"`
	} `json:"data"`
	Error string `json:"error"`
}

// Fetch never returns an error; failures are logged and yield "".
func (c *FirecrawlClient) Fetch(ctx context.Context, url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}

	text, err := c.scrape(ctx, url)
	if err != nil {
		slog.Warn("web fetch failed", "url", url, "error", err)
		return ""
	}

	slog.Debug("fetched page", "url", url, "chars", len(text))
	return text
}

func (c *FirecrawlClient) scrape(ctx context.Context, url string) (string, error) {
	body, err := json.Marshal(scrapeRequest{
		URL:         url,
		PageOptions: pageOptions{OnlyMainContent: true},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var scraped scrapeResponse
	if err := json.Unmarshal(respBody, &scraped); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if scraped.Error != "" {
		return "", fmt.Errorf("API error: %s", scraped.Error)
	}

	if scraped.Data.Markdown != "" {
		return scraped.Data.Markdown, nil
	}
	return scraped.Data.Content, nil
}

// NopFetcher always returns "". It stands in when no API key is configured.
type NopFetcher struct{}

// Fetch returns "".
func (NopFetcher) Fetch(context.Context, string) string { return "" }
