// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshintel/blogsmith/internal/generate"
	"github.com/meshintel/blogsmith/internal/pipeline"
	"github.com/meshintel/blogsmith/internal/scrape"
	"github.com/meshintel/blogsmith/pkg/types"
)

type stubSearch struct {
	results []types.SearchResult
	err     error
}

func (s *stubSearch) Name() string { return "stub" }

func (s *stubSearch) Search(context.Context, string, types.SearchConfig) ([]types.SearchResult, error) {
	return s.results, s.err
}

const queriesJSON = `{"queries": ["best electric bicycles 2024"]}`

const planJSON = `{
	"primary_keyword": "electric bicycles",
	"secondary_keywords": ["e-bike"],
	"title": "Electric Bicycles: The Complete Guide",
	"outline": ["Introduction", "Motors", "Conclusion"]
}`

// newTestApp wires the full stack behind an httptest server and returns a
// cookie-carrying client for it.
func newTestApp(t *testing.T, llmResponses []string, searchErr error) (*httptest.Server, *http.Client) {
	t.Helper()

	content := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "<html><body><p>%s</p></body></html>",
			strings.Repeat("Electric bicycle knowledge in every sentence. ", 10))
	}))
	t.Cleanup(content.Close)

	backend := &stubSearch{
		results: []types.SearchResult{{Title: "Guide", URL: content.URL + "/guide", Source: "stub"}},
		err:     searchErr,
	}

	cfg := types.DefaultConfig()
	cfg.Search.InterQueryDelay = 0
	cfg.Generation.MinWords = 20
	cfg.Generation.MaxWords = 100

	llm := &generate.MockClient{Responses: llmResponses}
	newWriter := func() *pipeline.Writer {
		return pipeline.New(cfg, backend, scrape.NewFetcher(cfg.Scrape), llm, io.Discard)
	}

	srv := httptest.NewServer(New(cfg, newWriter).Routes())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func get(t *testing.T, c *http.Client, u string) string {
	t.Helper()
	resp, err := c.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func post(t *testing.T, c *http.Client, u string, form url.Values) string {
	t.Helper()
	resp, err := c.PostForm(u, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	// Handlers redirect back to the wizard; the client follows.
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestWizardFullFlow(t *testing.T) {
	body := "## Introduction\n\n" + strings.TrimSpace(strings.Repeat("word ", 48))
	srv, client := newTestApp(t, []string{queriesJSON, planJSON, body}, nil)

	page := get(t, client, srv.URL+"/")
	assert.Contains(t, page, "What would you like to write about?")

	page = post(t, client, srv.URL+"/topic", url.Values{"topic": {"electric bicycles"}})
	assert.Contains(t, page, "best electric bicycles 2024")
	assert.Contains(t, page, "Perform Research")

	page = post(t, client, srv.URL+"/research", nil)
	assert.Contains(t, page, `value="electric bicycles"`)
	assert.Contains(t, page, "Electric Bicycles: The Complete Guide")
	assert.Contains(t, page, "Update and Continue")

	page = post(t, client, srv.URL+"/plan", url.Values{
		"primary_keyword":    {"electric bicycles"},
		"secondary_keywords": {"e-bike\nbattery range"},
		"title":              {"My Own Title"},
		"outline":            {"Intro\nMiddle\nEnd"},
	})
	assert.Contains(t, page, "Generate Article")
	assert.Contains(t, page, "My Own Title")

	page = post(t, client, srv.URL+"/write", url.Values{"words": {"50"}})
	assert.Contains(t, page, "Regenerate Article")
	assert.Contains(t, page, "<h2>Introduction</h2>")
	assert.Contains(t, page, "Download as Markdown")

	resp, err := client.Get(srv.URL + "/download")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "electric_bicycles_blog.md")
	dl, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(dl), "# My Own Title")
}

func TestSearchFailureShowsError(t *testing.T) {
	srv, client := newTestApp(t, []string{queriesJSON}, fmt.Errorf("simulated network error"))

	post(t, client, srv.URL+"/topic", url.Values{"topic": {"electric bicycles"}})
	page := post(t, client, srv.URL+"/research", nil)

	assert.Contains(t, page, "simulated network error")
	// The run did not reach planning; the research form is still shown.
	assert.Contains(t, page, "Perform Research")
	assert.NotContains(t, page, "Update and Continue")
}

func TestEmptyTopicShowsError(t *testing.T) {
	srv, client := newTestApp(t, nil, nil)
	page := post(t, client, srv.URL+"/topic", url.Values{"topic": {"   "}})
	assert.Contains(t, page, "topic must not be empty")
}

func TestRestartClearsRun(t *testing.T) {
	srv, client := newTestApp(t, []string{queriesJSON}, nil)

	post(t, client, srv.URL+"/topic", url.Values{"topic": {"electric bicycles"}})
	page := post(t, client, srv.URL+"/restart", nil)
	assert.Contains(t, page, "What would you like to write about?")
}

func TestStagePostsRequirePost(t *testing.T) {
	srv, client := newTestApp(t, nil, nil)
	resp, err := client.Get(srv.URL + "/topic")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestDownloadWithoutArticle(t *testing.T) {
	srv, client := newTestApp(t, nil, nil)
	resp, err := client.Get(srv.URL + "/download")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUnknownPathIs404(t *testing.T) {
	srv, client := newTestApp(t, nil, nil)
	resp, err := client.Get(srv.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitLines(" a \n\n b\n"))
	assert.Nil(t, splitLines("  \n "))
}

func TestSessionStoreEvictsIdleSessions(t *testing.T) {
	newWriter := func() *pipeline.Writer {
		return pipeline.New(types.DefaultConfig(), &stubSearch{}, scrape.NewFetcher(types.ScrapeConfig{}), &generate.MockClient{}, io.Discard)
	}
	store := newStore()

	stale := store.getOrCreate("stale", newWriter)
	store.mu.Lock()
	stale.lastSeen = time.Now().Add(-2 * sessionTTL)
	store.mu.Unlock()

	fresh := store.getOrCreate("fresh", newWriter)
	require.NotNil(t, fresh)

	store.mu.Lock()
	_, staleKept := store.sessions["stale"]
	_, freshKept := store.sessions["fresh"]
	store.mu.Unlock()
	assert.False(t, staleKept, "idle session must be evicted")
	assert.True(t, freshKept)

	// Re-requesting an evicted id yields a fresh session.
	again := store.getOrCreate("stale", newWriter)
	assert.NotSame(t, stale, again)
}

func TestSessionStoreKeepsActiveSessions(t *testing.T) {
	newWriter := func() *pipeline.Writer {
		return pipeline.New(types.DefaultConfig(), &stubSearch{}, scrape.NewFetcher(types.ScrapeConfig{}), &generate.MockClient{}, io.Discard)
	}
	store := newStore()

	first := store.getOrCreate("active", newWriter)
	second := store.getOrCreate("other", newWriter)
	require.NotSame(t, first, second)

	assert.Same(t, first, store.getOrCreate("active", newWriter))
	assert.Same(t, second, store.getOrCreate("other", newWriter))
}
