// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape fetches pages found by the research stage and extracts
// plain text for the planning prompt. Fetch failures degrade to empty
// documents: the run continues with whatever content was retrievable.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/meshintel/blogsmith/internal/httputil"
	"github.com/meshintel/blogsmith/pkg/types"
)

// contentSelectors are tried in order to locate the main article body
// before falling back to every paragraph on the page.
var contentSelectors = []string{
	"article",
	"main",
	"div.content", "div.post", "div.entry", "div.article",
}

// minHeadingLen filters out decorative one- and two-character headings.
const minHeadingLen = 4

// FetchError wraps a failure to retrieve or parse one page. Callers treat
// it per-document: log and continue, never abort the run.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reports whether err is (or wraps) a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// Fetcher retrieves pages and extracts their text.
type Fetcher struct {
	client *http.Client
	cfg    types.ScrapeConfig
}

// NewFetcher builds a Fetcher. Zero-valued config fields fall back to
// their DefaultConfig values individually; explicit settings are kept.
func NewFetcher(cfg types.ScrapeConfig) *Fetcher {
	def := types.DefaultConfig().Scrape
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.MaxDocuments == 0 {
		cfg.MaxDocuments = def.MaxDocuments
	}
	if cfg.MinTextLength == 0 {
		cfg.MinTextLength = def.MinTextLength
	}
	return &Fetcher{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

// Fetch retrieves one URL and extracts title, paragraph text, and h1-h3
// headings. Non-HTML content, HTTP errors, and network failures return a
// FetchError.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (types.Document, error) {
	doc := types.Document{URL: pageURL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return doc, &FetchError{URL: pageURL, Err: err}
	}
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, f.client, req, 1)
	if err != nil {
		return doc, &FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return doc, &FetchError{URL: pageURL, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	ctype := resp.Header.Get("Content-Type")
	if ctype != "" && !strings.Contains(ctype, "html") && !strings.Contains(ctype, "text/plain") {
		return doc, &FetchError{URL: pageURL, Err: fmt.Errorf("unsupported content type %q", ctype)}
	}

	parsed, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return doc, &FetchError{URL: pageURL, Err: fmt.Errorf("parsing HTML: %w", err)}
	}

	doc.Title = strings.TrimSpace(parsed.Find("title").First().Text())
	doc.Text = extractText(parsed)
	doc.Headings = extractHeadings(parsed)
	return doc, nil
}

// extractText pulls paragraph text from the main content container, or
// from the whole page when no container matches.
func extractText(doc *goquery.Document) string {
	for _, sel := range contentSelectors {
		container := doc.Find(sel).First()
		if container.Length() > 0 {
			if text := paragraphText(container); text != "" {
				return text
			}
		}
	}
	return paragraphText(doc.Selection)
}

// paragraphText joins the non-empty <p> elements under sel.
func paragraphText(sel *goquery.Selection) string {
	var parts []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := strings.TrimSpace(p.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n\n")
}

// extractHeadings returns h1-h3 headings in document order, dropping
// headings shorter than minHeadingLen runes.
func extractHeadings(doc *goquery.Document) []types.Heading {
	var headings []types.Heading
	doc.Find("h1, h2, h3").Each(func(_ int, h *goquery.Selection) {
		text := strings.TrimSpace(h.Text())
		if utf8.RuneCountInString(text) < minHeadingLen {
			return
		}
		headings = append(headings, types.Heading{
			Level: goquery.NodeName(h),
			Text:  text,
		})
	})
	return headings
}

// FetchAll fetches each search result one at a time and returns a document
// per attempted URL. Failed fetches and pages with less than
// cfg.MinTextLength characters of text yield empty-text documents; the run
// proceeds with whatever was retrievable. Fetching stops once
// cfg.MaxDocuments non-empty documents have been collected. Warnings and
// progress go to w.
func (f *Fetcher) FetchAll(ctx context.Context, results []types.SearchResult, w io.Writer) ([]types.Document, error) {
	maxDocs := f.cfg.MaxDocuments
	if maxDocs <= 0 {
		maxDocs = 25
	}

	var docs []types.Document
	collected := 0
	for _, r := range results {
		if collected >= maxDocs {
			break
		}
		if err := ctx.Err(); err != nil {
			return docs, err
		}

		doc, err := f.Fetch(ctx, r.URL)
		if err != nil {
			fmt.Fprintf(w, "warning: %v\n", err)
			docs = append(docs, types.Document{URL: r.URL})
			continue
		}

		if len(doc.Text) < f.cfg.MinTextLength {
			fmt.Fprintf(w, "skipped %s: %d chars of text\n", r.URL, len(doc.Text))
			docs = append(docs, types.Document{URL: r.URL, Title: doc.Title})
			continue
		}

		fmt.Fprintf(w, "fetched %s (%d chars)\n", r.URL, len(doc.Text))
		docs = append(docs, doc)
		collected++
	}
	return docs, nil
}
