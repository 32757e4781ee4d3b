// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshintel/blogsmith/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run web searches and print the results",
	Long: `Search runs one or more queries against the search backend and prints
the deduplicated results. Useful for checking the API key and seeing
what the research stage would work with.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		queries, _ := cmd.Flags().GetStringArray("query")
		asJSON, _ := cmd.Flags().GetBool("json")

		if len(queries) == 0 {
			return errors.New("at least one --query is required")
		}

		cfg := loadConfig()
		backend := &search.SerperBackend{
			Client: &http.Client{Timeout: cfg.Search.Timeout},
			APIKey: cfg.Search.APIKey,
		}

		out, err := search.Search(cmd.Context(), queries, backend, cfg.Search, os.Stderr)
		if err != nil {
			return err
		}

		if asJSON {
			return search.FormatJSON(out, os.Stdout)
		}
		search.FormatTable(out, os.Stdout)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringArray("query", nil, "search query (repeatable)")
	searchCmd.Flags().Bool("json", false, "print results as JSON")
}
