// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshintel/blogsmith/internal/generate"
	"github.com/meshintel/blogsmith/internal/pipeline"
	"github.com/meshintel/blogsmith/internal/scrape"
	"github.com/meshintel/blogsmith/internal/search"
	"github.com/meshintel/blogsmith/pkg/types"
)

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Write an article from the command line",
	Long: `Write runs the pipeline without the browser. With --topic it researches
the topic, proposes a content plan, and saves it to the --plan file for
review. Run again with only --plan to generate the article from the
reviewed plan. Pass --no-review to skip the checkpoint and generate in
one run.`,
	RunE: runWrite,
}

func init() {
	rootCmd.AddCommand(writeCmd)

	writeCmd.Flags().String("topic", "", "topic to research and write about")
	writeCmd.Flags().String("plan", "plan.yaml", "content plan checkpoint file")
	writeCmd.Flags().String("out", "", "output markdown file (default: stdout)")
	writeCmd.Flags().Int("words", 0, "target word count (default from config)")
	writeCmd.Flags().Bool("no-review", false, "skip the plan review checkpoint")
}

func runWrite(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	planPath, _ := cmd.Flags().GetString("plan")
	outPath, _ := cmd.Flags().GetString("out")
	words, _ := cmd.Flags().GetInt("words")
	noReview, _ := cmd.Flags().GetBool("no-review")

	cfg := loadConfig()
	writer, err := newWriter(cfg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if topic == "" {
		// Second run: resume from a reviewed plan file.
		pf, err := pipeline.LoadPlan(planPath)
		if err != nil {
			return err
		}
		if err := writer.ResumeFromPlan(pf); err != nil {
			return err
		}
		return writeOut(ctx, writer, outPath, words)
	}

	if err := writer.ProcessTopic(ctx, topic); err != nil {
		return err
	}
	if err := writer.Research(ctx); err != nil {
		return err
	}
	if err := writer.Analyze(ctx); err != nil {
		return err
	}

	if !noReview {
		pf := pipeline.PlanFile{Topic: writer.Topic(), Plan: writer.Plan()}
		if err := pipeline.SavePlan(planPath, pf); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Plan saved to %s. Review it, then run:\n  blogsmith write --plan %s\n", planPath, planPath)
		return nil
	}

	if err := writer.UpdatePlan(types.ContentPlan{}); err != nil {
		return err
	}
	return writeOut(ctx, writer, outPath, words)
}

// newWriter wires the search, scrape, and generation backends into a
// pipeline Writer using the merged config.
func newWriter(cfg types.PipelineConfig) (*pipeline.Writer, error) {
	llm, err := generate.NewOpenAIClient(cfg.Generation)
	if err != nil {
		return nil, err
	}
	backend := &search.SerperBackend{
		Client: &http.Client{Timeout: cfg.Search.Timeout},
		APIKey: cfg.Search.APIKey,
	}
	fetcher := scrape.NewFetcher(cfg.Scrape)
	return pipeline.New(cfg, backend, fetcher, llm, os.Stderr), nil
}

// writeOut generates the article and writes it as markdown.
func writeOut(ctx context.Context, writer *pipeline.Writer, outPath string, words int) error {
	var err error
	if words > 0 {
		err = writer.WriteWithTarget(ctx, words)
	} else {
		err = writer.Write(ctx)
	}
	if err != nil {
		return err
	}

	article, _ := writer.Article()
	doc := fmt.Sprintf("# %s\n\n%s\n", article.Title, article.Body)

	if outPath == "" {
		fmt.Print(doc)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("writing article: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Article written to %s (%d words)\n", outPath, article.WordCount)
	return nil
}
