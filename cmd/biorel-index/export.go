// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the local SQLite index to YAML or JSON",
	Long: `Export writes the documents of the SQLite index (or a filtered subset)
to stdout or a file. Supports the same filter flags as search for partial
exports.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "yaml" && format != "json" {
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	outPath, _ := cmd.Flags().GetString("out")

	sink, err := openIndex()
	if err != nil {
		return err
	}
	defer sink.Close()

	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		w = f
	}

	opts := queryOptsFromFlags(cmd, args)
	if format == "json" {
		err = sink.ExportJSON(cmd.Context(), w, opts)
	} else {
		err = sink.ExportYAML(cmd.Context(), w, opts)
	}
	if err != nil {
		return err
	}
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "Exported to %s\n", outPath)
	}
	return nil
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().String("out", "", "output file (default stdout)")
	exportCmd.Flags().String("query", "", "full-text search filter for partial export")
	exportCmd.Flags().String("index", "", "export one index")
	exportCmd.Flags().String("journal", "", "filter by journal for partial export")
	exportCmd.Flags().String("from", "", "publication date range start (YYYY-MM-DD)")
	exportCmd.Flags().String("to", "", "publication date range end (YYYY-MM-DD)")
	exportCmd.Flags().Int("limit", 0, "maximum documents to export (0 = all)")
	exportCmd.Flags().String("index-db", "", "SQLite index file")
	configKey(exportCmd.Flags(), "index-db", "index.db_path")

	rootCmd.AddCommand(exportCmd)
}
