// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/timio-source/timio-research/internal/cache"
)

// openArchive opens the configured archive directory.
func openArchive() (*cache.Archive, error) {
	dir := buildConfig().Cache.ArchiveDir
	if dir == "" {
		return nil, fmt.Errorf("no archive directory configured: set cache.archive_dir")
	}
	return cache.NewArchive(dir)
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect the persistent report archive",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived reports, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()

		entries, err := archive.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("Archive is empty.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  %-40s  %q\n", e.CreatedAt.Format(time.DateOnly), e.Slug, e.Query)
		}
		return nil
	},
}

var archiveExportCmd = &cobra.Command{
	Use:   "export <slug>",
	Short: "Write an archived report to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		archive, err := openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()

		return archive.Export(cmd.Context(), args[0], format, os.Stdout)
	},
}

var archivePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete all archived reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()

		n, err := archive.Purge(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d reports.\n", n)
		return nil
	},
}

func init() {
	archiveExportCmd.Flags().String("format", "json", "output format: json or yaml")

	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveExportCmd)
	archiveCmd.AddCommand(archivePurgeCmd)
	rootCmd.AddCommand(archiveCmd)
}
