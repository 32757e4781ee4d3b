// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/meshintel/blogsmith/internal/httputil"
	"github.com/meshintel/blogsmith/pkg/types"
)

// serperSearchURL is the Serper.dev search endpoint. Declared as a var so
// tests can substitute an httptest server.
var serperSearchURL = "https://google.serper.dev/search"

// SerperBackend queries the Serper.dev Google search API.
type SerperBackend struct {
	Client *http.Client
	APIKey string
}

// Name returns the backend identifier.
func (b *SerperBackend) Name() string { return "serper" }

// serperRequest is the request body for the Serper search API.
type serperRequest struct {
	Query    string `json:"q"`
	Country  string `json:"gl,omitempty"`
	Language string `json:"hl,omitempty"`
	Num      int    `json:"num,omitempty"`
}

// serperResponse is the subset of the Serper response the pipeline uses.
type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search posts the query to Serper and returns the organic results.
// Results without a link are dropped.
func (b *SerperBackend) Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}
	if b.APIKey == "" {
		return nil, fmt.Errorf("serper API key not configured")
	}

	num := cfg.PerQuery
	if num <= 0 {
		num = 5
	}

	body, err := json.Marshal(serperRequest{
		Query:    query,
		Country:  cfg.Country,
		Language: cfg.Language,
		Num:      num,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serperSearchURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", b.APIKey)
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Serper API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Serper API returned HTTP %d", resp.StatusCode)
	}

	var sr serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Serper response: %w", err)
	}

	var results []types.SearchResult
	for _, org := range sr.Organic {
		if org.Link == "" {
			continue
		}
		results = append(results, types.SearchResult{
			Title:   org.Title,
			URL:     org.Link,
			Snippet: org.Snippet,
			Source:  "serper",
		})
	}
	return results, nil
}
