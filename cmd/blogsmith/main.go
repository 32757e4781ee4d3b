// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the blogsmith CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshintel/blogsmith/internal/secrets"
	"github.com/meshintel/blogsmith/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the blogsmith CLI.
var rootCmd = &cobra.Command{
	Use:   "blogsmith",
	Short: "Research-driven blog article generation",
	Long: `blogsmith drafts a blog article from a topic string. It asks a language
model for search queries, researches the topic through a web search API,
scrapes the top results, proposes a content plan for review, and writes
the final article.

Run the browser flow with "blogsmith serve", or a scripted run with
"blogsmith write" using a plan-file checkpoint for review.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./blogsmith.yaml or ~/.config/blogsmith/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("blogsmith")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "blogsmith"))
		}
	}

	viper.SetEnvPrefix("BLOGSMITH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setConfigDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setConfigDefaults registers every config key with viper. Unmarshal only
// visits known keys, so without these defaults environment variables for
// unset keys would never be read.
func setConfigDefaults(v *viper.Viper) {
	d := types.DefaultConfig()

	v.SetDefault("search.timeout", d.Search.Timeout)
	v.SetDefault("search.user_agent", d.Search.UserAgent)
	v.SetDefault("search.api_key", "")
	v.SetDefault("search.country", d.Search.Country)
	v.SetDefault("search.language", d.Search.Language)
	v.SetDefault("search.per_query", d.Search.PerQuery)
	v.SetDefault("search.max_results", d.Search.MaxResults)
	v.SetDefault("search.inter_query_delay", d.Search.InterQueryDelay)

	v.SetDefault("scrape.timeout", d.Scrape.Timeout)
	v.SetDefault("scrape.user_agent", d.Scrape.UserAgent)
	v.SetDefault("scrape.max_documents", d.Scrape.MaxDocuments)
	v.SetDefault("scrape.min_text_length", d.Scrape.MinTextLength)

	v.SetDefault("generation.model", d.Generation.Model)
	v.SetDefault("generation.api_key", "")
	v.SetDefault("generation.base_url", "")
	v.SetDefault("generation.query_count", d.Generation.QueryCount)
	v.SetDefault("generation.min_words", d.Generation.MinWords)
	v.SetDefault("generation.max_words", d.Generation.MaxWords)

	v.SetDefault("server.addr", d.Server.Addr)
}

// loadConfig merges defaults, the viper config file, and secrets into a
// PipelineConfig. Secrets files win over config-file keys so credentials
// stay out of blogsmith.yaml.
func loadConfig() types.PipelineConfig {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "warning: ignoring malformed config: %v\n", err)
		cfg = types.DefaultConfig()
	}

	if v, ok := loadedSecrets[secrets.SerperKey]; ok {
		cfg.Search.APIKey = v
	}
	if v, ok := loadedSecrets[secrets.OpenAIKey]; ok {
		cfg.Generation.APIKey = v
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
