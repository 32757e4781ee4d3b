// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the blogsmith pipeline.
package types

// SearchResult represents one organic result returned by a web search backend.
type SearchResult struct {
	// Title is the result title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// URL is the result link. Results without a link are discarded upstream.
	URL string `json:"url" yaml:"url"`

	// Snippet is the short description shown on the results page.
	Snippet string `json:"snippet" yaml:"snippet"`

	// Source identifies which backend found this result (e.g. "serper").
	Source string `json:"source" yaml:"source"`
}

// Heading is a section heading recovered from a scraped page.
type Heading struct {
	// Level is the HTML heading tag name ("h1", "h2", "h3").
	Level string `json:"level" yaml:"level"`

	// Text is the heading text with surrounding whitespace trimmed.
	Text string `json:"text" yaml:"text"`
}

// Document holds the plain text extracted from one fetched page. A failed
// fetch produces a Document with the URL set and an empty Text so the run
// can continue with whatever was retrievable.
type Document struct {
	// URL is the page address the text was extracted from.
	URL string `json:"url" yaml:"url"`

	// Title is the page <title>, possibly empty.
	Title string `json:"title" yaml:"title"`

	// Text is the extracted paragraph text. May be empty on fetch failure.
	Text string `json:"text" yaml:"text"`

	// Headings lists h1-h3 headings in document order.
	Headings []Heading `json:"headings,omitempty" yaml:"headings,omitempty"`
}

// Empty reports whether the document carries no usable text.
func (d Document) Empty() bool { return d.Text == "" }

// ContentPlan is the editable intermediate artifact produced by the planning
// stage and reviewed by the user before the writing stage.
type ContentPlan struct {
	// PrimaryKeyword is the main keyword the article should rank for.
	PrimaryKeyword string `json:"primary_keyword" yaml:"primary_keyword"`

	// SecondaryKeywords are complementary keywords, in suggested order.
	SecondaryKeywords []string `json:"secondary_keywords" yaml:"secondary_keywords"`

	// Title is the proposed article title.
	Title string `json:"title" yaml:"title"`

	// Outline lists section headings for the article, in order.
	Outline []string `json:"outline" yaml:"outline"`
}

// Complete reports whether the plan has everything the writing stage needs.
func (p ContentPlan) Complete() bool {
	return p.PrimaryKeyword != "" && p.Title != "" && len(p.Outline) > 0
}

// Merge applies user edits onto the plan. Empty fields keep prior values.
func (p *ContentPlan) Merge(edits ContentPlan) {
	if edits.PrimaryKeyword != "" {
		p.PrimaryKeyword = edits.PrimaryKeyword
	}
	if len(edits.SecondaryKeywords) > 0 {
		p.SecondaryKeywords = edits.SecondaryKeywords
	}
	if edits.Title != "" {
		p.Title = edits.Title
	}
	if len(edits.Outline) > 0 {
		p.Outline = edits.Outline
	}
}

// Article is the final output of the writing stage.
type Article struct {
	// Title is the article title from the approved plan.
	Title string `json:"title" yaml:"title"`

	// Body is the generated article in Markdown.
	Body string `json:"body" yaml:"body"`

	// WordCount is the number of words in Body.
	WordCount int `json:"word_count" yaml:"word_count"`
}
