// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the four blog-writing stages: query
// generation, research, content planning, and article writing. One Writer
// owns one run; ownership is single-threaded and nothing survives the
// process.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/meshintel/blogsmith/internal/generate"
	"github.com/meshintel/blogsmith/internal/scrape"
	"github.com/meshintel/blogsmith/internal/search"
	"github.com/meshintel/blogsmith/pkg/types"
)

// Stage identifies where a run currently is. Transitions are strictly
// linear; the planning stage waits for user review before writing.
type Stage int

const (
	// StageTopic: waiting for a topic.
	StageTopic Stage = iota
	// StageResearch: queries generated, research not yet performed.
	StageResearch
	// StagePlanning: documents collected, plan awaiting user review.
	StagePlanning
	// StageWriting: plan approved, article not yet generated.
	StageWriting
	// StageDone: article generated.
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageTopic:
		return "topic"
	case StageResearch:
		return "research"
	case StagePlanning:
		return "planning"
	case StageWriting:
		return "writing"
	case StageDone:
		return "done"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// ErrStage is returned when an operation is invoked out of order.
var ErrStage = errors.New("operation not valid in current stage")

// WordCountError reports an article body outside the configured range.
// It counts as a generation failure: the run produced no acceptable
// article.
type WordCountError struct {
	Words, Min, Max int
}

func (e *WordCountError) Error() string {
	return fmt.Sprintf("article is %d words, outside the %d-%d target range", e.Words, e.Min, e.Max)
}

// Writer orchestrates one blog-writing run.
type Writer struct {
	cfg     types.PipelineConfig
	backend search.Backend
	fetcher *scrape.Fetcher
	llm     generate.Client
	log     io.Writer

	stage   Stage
	topic   string
	queries []string
	results []types.SearchResult
	docs    []types.Document
	plan    types.ContentPlan
	article *types.Article
}

// New builds a Writer from its collaborators. log receives per-stage
// progress and warnings; pass io.Discard to silence it.
func New(cfg types.PipelineConfig, backend search.Backend, fetcher *scrape.Fetcher, llm generate.Client, log io.Writer) *Writer {
	if log == nil {
		log = io.Discard
	}
	return &Writer{
		cfg:     cfg,
		backend: backend,
		fetcher: fetcher,
		llm:     llm,
		log:     log,
	}
}

// Stage returns the run's current stage.
func (w *Writer) Stage() Stage { return w.stage }

// Topic returns the run's topic.
func (w *Writer) Topic() string { return w.topic }

// Queries returns the generated search queries.
func (w *Writer) Queries() []string { return w.queries }

// Results returns the deduplicated search results.
func (w *Writer) Results() []types.SearchResult { return w.results }

// Documents returns the scraped documents, including empty placeholders
// for failed fetches.
func (w *Writer) Documents() []types.Document { return w.docs }

// Plan returns the current content plan.
func (w *Writer) Plan() types.ContentPlan { return w.plan }

// Article returns the generated article, if the writing stage has
// completed.
func (w *Writer) Article() (types.Article, bool) {
	if w.article == nil {
		return types.Article{}, false
	}
	return *w.article, true
}

// Reset discards all run state and returns to the topic stage.
func (w *Writer) Reset() {
	*w = Writer{
		cfg:     w.cfg,
		backend: w.backend,
		fetcher: w.fetcher,
		llm:     w.llm,
		log:     w.log,
	}
}

// ProcessTopic starts a new run: it discards any prior state, stores the
// topic, and generates search queries. The topic must be non-empty.
func (w *Writer) ProcessTopic(ctx context.Context, topic string) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return fmt.Errorf("topic must not be empty")
	}

	w.Reset()
	w.topic = topic

	queries, err := generate.GenerateQueries(ctx, w.llm, topic, w.cfg.Generation)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		return fmt.Errorf("query stage produced no queries for %q", topic)
	}

	w.queries = queries
	w.stage = StageResearch
	fmt.Fprintf(w.log, "topic %q: %d search queries\n", topic, len(queries))
	return nil
}

// Research runs the search queries, deduplicates results by URL, and
// fetches each page once. A search provider failure aborts the run; fetch
// failures degrade to empty documents.
func (w *Writer) Research(ctx context.Context) error {
	if w.stage != StageResearch {
		return fmt.Errorf("%w: research requires generated queries (stage %s)", ErrStage, w.stage)
	}

	out, err := search.Search(ctx, w.queries, w.backend, w.cfg.Search, w.log)
	if err != nil {
		return err
	}
	if len(out.Results) == 0 {
		return fmt.Errorf("search returned no results for %q", w.topic)
	}
	w.results = out.Results

	docs, err := w.fetcher.FetchAll(ctx, out.Results, w.log)
	if err != nil {
		return err
	}
	w.docs = docs

	usable := 0
	for _, d := range docs {
		if !d.Empty() {
			usable++
		}
	}
	fmt.Fprintf(w.log, "research: %d documents (%d with content)\n", len(docs), usable)
	if usable == 0 {
		return fmt.Errorf("no article content could be retrieved for %q", w.topic)
	}
	return nil
}

// Analyze produces a content plan from the scraped documents and suspends
// the run for user review.
func (w *Writer) Analyze(ctx context.Context) error {
	if w.stage != StageResearch || len(w.docs) == 0 {
		return fmt.Errorf("%w: analysis requires completed research (stage %s)", ErrStage, w.stage)
	}

	plan, err := generate.AnalyzeDocuments(ctx, w.llm, w.topic, w.docs, w.cfg.Generation)
	if err != nil {
		return err
	}

	w.plan = plan
	w.stage = StagePlanning
	fmt.Fprintf(w.log, "plan: %q (primary keyword %q, %d sections)\n", plan.Title, plan.PrimaryKeyword, len(plan.Outline))
	return nil
}

// UpdatePlan applies the user's edits and approves the plan for writing.
// Empty edit fields keep the suggested values.
func (w *Writer) UpdatePlan(edits types.ContentPlan) error {
	if w.stage != StagePlanning {
		return fmt.Errorf("%w: no plan awaiting review (stage %s)", ErrStage, w.stage)
	}

	w.plan.Merge(edits)
	if !w.plan.Complete() {
		return fmt.Errorf("content plan is incomplete after edits")
	}
	w.stage = StageWriting
	return nil
}

// Write generates the article from the approved plan. A body outside the
// configured word range is a WordCountError and no article is kept; the
// stage stays at writing so the user can regenerate.
func (w *Writer) Write(ctx context.Context) error {
	return w.writeArticle(ctx, 0)
}

// WriteWithTarget is Write with an explicit target word count, used by
// the front end's word-count control.
func (w *Writer) WriteWithTarget(ctx context.Context, words int) error {
	return w.writeArticle(ctx, words)
}

func (w *Writer) writeArticle(ctx context.Context, words int) error {
	if w.stage != StageWriting && w.stage != StageDone {
		return fmt.Errorf("%w: writing requires an approved plan (stage %s)", ErrStage, w.stage)
	}

	body, err := generate.WriteArticle(ctx, w.llm, w.topic, w.plan, words, w.cfg.Generation)
	if err != nil {
		return err
	}

	count := CountWords(body)
	minWords, maxWords := w.wordRange(words)
	if count < minWords || count > maxWords {
		return &WordCountError{Words: count, Min: minWords, Max: maxWords}
	}

	w.article = &types.Article{Title: w.plan.Title, Body: body, WordCount: count}
	w.stage = StageDone
	fmt.Fprintf(w.log, "article: %q (%d words)\n", w.plan.Title, count)
	return nil
}

// wordRange returns the acceptable word-count bounds. An explicit target
// shifts the configured range proportionally around it.
func (w *Writer) wordRange(target int) (int, int) {
	minWords, maxWords := w.cfg.Generation.MinWords, w.cfg.Generation.MaxWords
	if minWords <= 0 || maxWords <= 0 || minWords > maxWords {
		minWords, maxWords = 1000, 1500
	}
	if target > 0 {
		span := (maxWords - minWords) / 2
		minWords, maxWords = target-span, target+span
		if minWords < 0 {
			minWords = 0
		}
	}
	return minWords, maxWords
}

// CountWords counts whitespace-separated words.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
