// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries a web search provider and returns merged,
// deduplicated organic results for a set of queries.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/meshintel/blogsmith/pkg/types"
)

// Backend searches a single web search provider. Each provider implements
// this interface so the research stage stays provider-agnostic.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.SearchResult, error)
}

// ProviderError wraps a failure talking to the search provider: network
// errors, non-200 responses, and undecodable payloads. A ProviderError
// aborts the research run.
type ProviderError struct {
	Backend string
	Query   string
	Err     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("search backend %s: query %q: %v", e.Backend, e.Query, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsProviderError reports whether err is (or wraps) a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// Output holds the merged results and dedup statistics for one research run.
type Output struct {
	Results     []types.SearchResult
	DupsRemoved int
}

// Search runs each query against the backend in order, pausing
// cfg.InterQueryDelay between calls, then merges the results and removes
// duplicate URLs so no page is fetched twice in one run. The merged list is
// capped at cfg.MaxResults. Progress is written to w.
//
// A backend failure on any query aborts the whole run: partial research
// would silently bias the plan toward whichever queries happened to finish.
func Search(ctx context.Context, queries []string, backend Backend, cfg types.SearchConfig, w io.Writer) (Output, error) {
	if len(queries) == 0 {
		return Output{}, fmt.Errorf("no search queries: run the query stage first")
	}
	if backend == nil {
		return Output{}, fmt.Errorf("no search backend configured")
	}

	var all []types.SearchResult
	for i, query := range queries {
		if strings.TrimSpace(query) == "" {
			continue
		}
		if i > 0 && cfg.InterQueryDelay > 0 {
			select {
			case <-ctx.Done():
				return Output{}, ctx.Err()
			case <-time.After(cfg.InterQueryDelay):
			}
		}

		results, err := backend.Search(ctx, query, cfg)
		if err != nil {
			return Output{}, &ProviderError{Backend: backend.Name(), Query: query, Err: err}
		}
		fmt.Fprintf(w, "query %q: %d results\n", query, len(results))
		all = append(all, results...)
	}

	deduped, removed := dedupeByURL(all)

	if cfg.MaxResults > 0 && len(deduped) > cfg.MaxResults {
		deduped = deduped[:cfg.MaxResults]
	}

	return Output{Results: deduped, DupsRemoved: removed}, nil
}

// dedupeByURL drops results whose normalized URL was already seen. The
// first occurrence wins; later duplicates only fill in a missing snippet.
func dedupeByURL(results []types.SearchResult) ([]types.SearchResult, int) {
	seen := make(map[string]int) // normalized URL → index in deduped
	var deduped []types.SearchResult
	removed := 0

	for _, r := range results {
		if r.URL == "" {
			continue
		}
		key := normalizeURL(r.URL)
		if idx, ok := seen[key]; ok {
			if deduped[idx].Snippet == "" && r.Snippet != "" {
				deduped[idx].Snippet = r.Snippet
			}
			removed++
			continue
		}
		seen[key] = len(deduped)
		deduped = append(deduped, r)
	}
	return deduped, removed
}

// normalizeURL lowercases the scheme and host and strips a trailing slash
// so trivially different spellings of the same page collapse.
func normalizeURL(raw string) string {
	s := strings.TrimSuffix(raw, "/")
	if i := strings.Index(s, "://"); i >= 0 {
		prefixEnd := i + len("://")
		rest := s[prefixEnd:]
		slash := strings.Index(rest, "/")
		if slash < 0 {
			slash = len(rest)
		}
		s = strings.ToLower(s[:prefixEnd]+rest[:slash]) + rest[slash:]
	}
	return s
}

// FormatTable writes results as a human-readable table to w.
func FormatTable(out Output, w io.Writer) {
	if len(out.Results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-50s  %s\n", "Rank", "Title", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, r := range out.Results {
		title := r.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-50s  %s\n", i+1, title, r.URL)
	}

	fmt.Fprintf(w, "\n%d results", len(out.Results))
	if out.DupsRemoved > 0 {
		fmt.Fprintf(w, " (%d duplicates removed)", out.DupsRemoved)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes results as indented JSON to w.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Results)
}
