// Package search implements a thin client for the DuckDuckGo Instant Answer
// API. Each query is a single request/response round trip.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/edgard/nagbot/internal/config"
)

// Result is the best instant answer found for a query. Empty Text means the
// provider had nothing useful.
type Result struct {
	Text   string
	Source string
}

// Client queries instant answers for free-text queries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *slog.Logger
}

// NewClient creates a search client from configuration.
func NewClient(cfg config.SearchConfig, log *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		log:        log.With("component", "search_client"),
	}
}

// providerResponse mirrors the Instant Answer payload fields we use.
type providerResponse struct {
	Heading       string `json:"Heading"`
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	Answer        string `json:"Answer"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// Instant runs a query and returns the best available answer: the direct
// answer if present, else the abstract, else the first related topic.
func (c *Client) Instant(ctx context.Context, query string) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")
	endpoint := fmt.Sprintf("%s/?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "Search request failed", "query", query, "error", err)
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.WarnContext(ctx, "Search provider returned non-OK status", "query", query, "status", resp.StatusCode)
		return nil, fmt.Errorf("search provider returned status %d", resp.StatusCode)
	}

	var payload providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	switch {
	case payload.Answer != "":
		return &Result{Text: payload.Answer}, nil
	case payload.AbstractText != "":
		return &Result{Text: payload.AbstractText, Source: payload.AbstractURL}, nil
	case len(payload.RelatedTopics) > 0 && payload.RelatedTopics[0].Text != "":
		return &Result{Text: payload.RelatedTopics[0].Text, Source: payload.RelatedTopics[0].FirstURL}, nil
	default:
		return &Result{}, nil
	}
}
