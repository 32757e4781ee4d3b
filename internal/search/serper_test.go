// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meshintel/blogsmith/pkg/types"
)

const sampleSerperJSON = `{
  "searchParameters": {"q": "best electric bicycles 2024", "gl": "us", "hl": "en"},
  "organic": [
    {
      "title": "The Best Electric Bikes of 2024",
      "link": "https://example.com/best-ebikes",
      "snippet": "We tested 40 electric bikes this year...",
      "position": 1
    },
    {
      "title": "Electric Bike Buying Guide",
      "link": "https://example.org/ebike-guide",
      "snippet": "Everything to know before buying.",
      "position": 2
    },
    {
      "title": "Result without a link",
      "snippet": "should be dropped",
      "position": 3
    }
  ]
}`

func newSerperTestServer(t *testing.T, handler http.HandlerFunc) *SerperBackend {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := serperSearchURL
	serperSearchURL = ts.URL
	t.Cleanup(func() { serperSearchURL = old })

	return &SerperBackend{Client: ts.Client(), APIKey: "test-key"}
}

func TestSerperSearch(t *testing.T) {
	var gotReq serperRequest
	var gotAPIKey string
	backend := newSerperTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("X-API-KEY")
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleSerperJSON))
	})

	cfg := types.SearchConfig{Country: "us", Language: "en", PerQuery: 5}
	results, err := backend.Search(context.Background(), "best electric bicycles 2024", cfg)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}

	if gotAPIKey != "test-key" {
		t.Errorf("X-API-KEY = %q, want %q", gotAPIKey, "test-key")
	}
	if gotReq.Query != "best electric bicycles 2024" || gotReq.Country != "us" || gotReq.Language != "en" || gotReq.Num != 5 {
		t.Errorf("request body = %+v", gotReq)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (link-less result dropped)", len(results))
	}
	if results[0].URL != "https://example.com/best-ebikes" {
		t.Errorf("results[0].URL = %q", results[0].URL)
	}
	if results[0].Title != "The Best Electric Bikes of 2024" {
		t.Errorf("results[0].Title = %q", results[0].Title)
	}
	if results[0].Source != "serper" {
		t.Errorf("results[0].Source = %q, want serper", results[0].Source)
	}
	if results[1].Snippet != "Everything to know before buying." {
		t.Errorf("results[1].Snippet = %q", results[1].Snippet)
	}
}

func TestSerperSearchHTTPError(t *testing.T) {
	backend := newSerperTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	})

	_, err := backend.Search(context.Background(), "anything", types.SearchConfig{})
	if err == nil {
		t.Fatal("expected error for HTTP 403")
	}
}

func TestSerperSearchMalformedJSON(t *testing.T) {
	backend := newSerperTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := backend.Search(context.Background(), "anything", types.SearchConfig{})
	if err == nil {
		t.Fatal("expected error for malformed response")
	}
}

func TestSerperSearchValidation(t *testing.T) {
	b := &SerperBackend{APIKey: "k"}
	if _, err := b.Search(context.Background(), "", types.SearchConfig{}); err == nil {
		t.Error("expected error for empty query")
	}

	b = &SerperBackend{}
	if _, err := b.Search(context.Background(), "bikes", types.SearchConfig{}); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestSerperSearchEmptyOrganic(t *testing.T) {
	backend := newSerperTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"organic": []}`))
	})

	results, err := backend.Search(context.Background(), "obscure query", types.SearchConfig{})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}
