// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the timio-research CLI, the
// command-line surface over the evidence-to-report pipeline: generating
// research reports from a free-text query and inspecting the local report
// archive.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/timio-source/timio-research/internal/secrets"
	"github.com/timio-source/timio-research/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, else the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the timio-research CLI.
var rootCmd = &cobra.Command{
	Use:   "timio-research",
	Short: "Evidence-to-report research pipeline",
	Long: `timio-research turns a free-text topic into a structured research report:
a headline article, executive summary, timeline, grouped raw facts,
opposing perspectives with cited quotes, and deduplicated sources.

The pipeline gathers evidence through web search and concurrent scraping,
asks a generative model to synthesize a strict JSON report from that
evidence, repairs whatever the model returns, and validates every quote
against the text actually gathered.`,
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./timio-research.yaml or ~/.config/timio-research/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("timio-research")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "timio-research"))
		}
	}

	viper.SetEnvPrefix("TIMIO_RESEARCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the CLI logger writing human-readable lines to stderr.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if v, _ := rootCmd.PersistentFlags().GetBool("verbose"); v {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// buildConfig resolves the pipeline configuration: defaults, then config
// file and environment overrides, then API keys from .secrets/.
func buildConfig() types.PipelineConfig {
	cfg := types.DefaultPipelineConfig()

	if v := viper.GetInt("search.max_results"); v > 0 {
		cfg.Search.MaxResults = v
	}
	if v := viper.GetInt("scrape.batch_size"); v > 0 {
		cfg.Scrape.BatchSize = v
	}
	if v := viper.GetDuration("scrape.timeout"); v > 0 {
		cfg.Scrape.Timeout = v
	}
	if v := viper.GetString("synthesis.model"); v != "" {
		cfg.Synthesis.Model = v
	}
	if v := viper.GetString("synthesis.base_url"); v != "" {
		cfg.Synthesis.BaseURL = v
	}
	if v := viper.GetInt("synthesis.max_tokens"); v > 0 {
		cfg.Synthesis.MaxTokens = v
	}
	if v := viper.GetDuration("cache.ttl"); v > 0 {
		cfg.Cache.TTL = v
	}
	if v := viper.GetString("cache.archive_dir"); v != "" {
		cfg.Cache.ArchiveDir = v
	}

	cfg.Search.APIKey = secretDefault("tavily-api-key", viper.GetString("search.api_key"))
	cfg.Synthesis.APIKey = secretDefault("openai-api-key", viper.GetString("synthesis.api_key"))
	cfg.Images.APIKey = secretDefault("pexels-api-key", viper.GetString("images.api_key"))

	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
