// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/meshintel/blogsmith/pkg/types"
)

// GenerateQueries asks the model for cfg.QueryCount search queries for the
// topic. When the response cannot be parsed the deterministic fallback
// queries are returned instead, so a sloppy model response never blocks
// the run. Provider failures also fall back: the fallback queries are
// always usable.
func GenerateQueries(ctx context.Context, client Client, topic string, cfg types.GenerationConfig) ([]string, error) {
	count := cfg.QueryCount
	if count <= 0 {
		count = 5
	}

	prompt, err := BuildQueriesPrompt(topic, count)
	if err != nil {
		return nil, &ParseError{Op: "queries", Err: err}
	}

	raw, err := client.CompleteJSON(ctx, prompt)
	if err != nil {
		return FallbackQueries(topic, count), nil
	}

	queries, err := parseQueries(raw)
	if err != nil {
		return FallbackQueries(topic, count), nil
	}

	if len(queries) > count {
		queries = queries[:count]
	}
	return queries, nil
}

// FallbackQueries derives deterministic search queries from the topic,
// used when the model cannot produce a usable query list.
func FallbackQueries(topic string, count int) []string {
	queries := []string{
		topic + " guide",
		topic + " best practices",
		"how to " + topic,
		topic + " tips",
		topic + " examples",
	}
	if count > 0 && count < len(queries) {
		queries = queries[:count]
	}
	return queries
}

// AnalyzeDocuments asks the model for a content plan grounded in the
// scraped documents. The plan must come back with a non-empty title and
// primary keyword; anything less is a ParseError.
func AnalyzeDocuments(ctx context.Context, client Client, topic string, docs []types.Document, cfg types.GenerationConfig) (types.ContentPlan, error) {
	usable := 0
	for _, d := range docs {
		if !d.Empty() {
			usable++
		}
	}
	if usable == 0 {
		return types.ContentPlan{}, fmt.Errorf("no scraped content to analyze: run the research stage first")
	}

	prompt, err := BuildAnalysisPrompt(topic, docs)
	if err != nil {
		return types.ContentPlan{}, &ParseError{Op: "analysis", Err: err}
	}

	raw, err := client.CompleteJSON(ctx, prompt)
	if err != nil {
		return types.ContentPlan{}, &ProviderError{Op: "analysis", Err: err}
	}

	var pr planResponse
	if err := parseLooseJSON(raw, &pr); err != nil {
		return types.ContentPlan{}, &ParseError{Op: "analysis", Err: err}
	}

	plan := types.ContentPlan{
		PrimaryKeyword:    strings.TrimSpace(pr.PrimaryKeyword),
		SecondaryKeywords: cleanStrings(pr.SecondaryKeywords),
		Title:             strings.TrimSpace(pr.Title),
		Outline:           cleanStrings(pr.Outline),
	}

	if plan.Title == "" || plan.PrimaryKeyword == "" {
		return types.ContentPlan{}, &ParseError{Op: "analysis", Err: fmt.Errorf("plan missing title or primary keyword")}
	}
	return plan, nil
}

// WriteArticle asks the model for the article body in Markdown. The body
// is returned as-is; the caller enforces the word-count range.
func WriteArticle(ctx context.Context, client Client, topic string, plan types.ContentPlan, words int, cfg types.GenerationConfig) (string, error) {
	if !plan.Complete() {
		return "", fmt.Errorf("content plan is incomplete: primary keyword, title, and outline are required")
	}
	if words <= 0 {
		words = cfg.TargetWords()
	}

	prompt, err := BuildArticlePrompt(topic, plan, words)
	if err != nil {
		return "", &ParseError{Op: "article", Err: err}
	}

	body, err := client.Complete(ctx, prompt)
	if err != nil {
		return "", &ProviderError{Op: "article", Err: err}
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return "", &ParseError{Op: "article", Err: fmt.Errorf("empty article body")}
	}
	return body, nil
}
