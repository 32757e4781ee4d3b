// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/meshintel/blogsmith/internal/generate"
	"github.com/meshintel/blogsmith/internal/pipeline"
	"github.com/meshintel/blogsmith/internal/scrape"
	"github.com/meshintel/blogsmith/internal/search"
	"github.com/meshintel/blogsmith/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser form flow",
	Long: `Serve runs the four-step article wizard in the browser: enter a topic,
review the research, edit the content plan, and generate the article.
Each browser session gets its own pipeline run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		llm, err := generate.NewOpenAIClient(cfg.Generation)
		if err != nil {
			return err
		}
		backend := &search.SerperBackend{
			Client: &http.Client{Timeout: cfg.Search.Timeout},
			APIKey: cfg.Search.APIKey,
		}
		fetcher := scrape.NewFetcher(cfg.Scrape)

		srv := server.New(cfg, func() *pipeline.Writer {
			return pipeline.New(cfg, backend, fetcher, llm, os.Stderr)
		})

		httpServer := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           srv.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		fmt.Fprintf(os.Stderr, "Listening on %s\n", cfg.Server.Addr)
		return httpServer.ListenAndServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default from config, \":8080\")")
}
