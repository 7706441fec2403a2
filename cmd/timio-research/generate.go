// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/timio-source/timio-research/internal/cache"
	"github.com/timio-source/timio-research/internal/pipeline"
)

var generateCmd = &cobra.Command{
	Use:   "generate [query...]",
	Short: "Generate a research report for a query",
	Long: `Generate runs the full pipeline for a free-text query: web search,
concurrent scraping, model synthesis, response repair, provenance
validation, and report assembly. The report is printed to stdout and,
when an archive directory is configured, persisted by slug.

The command always produces a report: search, scrape, and model failures
degrade the result rather than aborting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		if query == "" {
			query = strings.Join(args, " ")
		}
		if strings.TrimSpace(query) == "" {
			return fmt.Errorf("a query is required: pass --query or positional words")
		}
		heroImage, _ := cmd.Flags().GetString("hero-image")
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg := buildConfig()
		log := newLogger()

		var opts []pipeline.Option
		if cfg.Cache.ArchiveDir != "" {
			archive, err := cache.NewArchive(cfg.Cache.ArchiveDir)
			if err != nil {
				return err
			}
			defer archive.Close()
			opts = append(opts, pipeline.WithArchive(archive))
		}

		engine := pipeline.New(cfg, log, opts...)
		report := engine.GenerateReport(cmd.Context(), query, heroImage)

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		fmt.Printf("%s\n", report.Article.Title)
		fmt.Printf("  slug:         %s\n", report.Article.Slug)
		fmt.Printf("  category:     %s\n", report.Article.Category)
		fmt.Printf("  sources:      %d\n", report.Article.SourceCount)
		fmt.Printf("  facts:        %d groups\n", len(report.RawFacts))
		fmt.Printf("  perspectives: %d\n", len(report.Perspectives))
		fmt.Printf("  timeline:     %d items\n", len(report.TimelineItems))
		for _, p := range report.ExecutiveSummary.Points {
			fmt.Printf("  - %s\n", p)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().String("query", "", "free-text research query")
	generateCmd.Flags().String("hero-image", "", "hero image URL override for the article")
	generateCmd.Flags().Bool("json", false, "print the full report as JSON")

	rootCmd.AddCommand(generateCmd)
}
