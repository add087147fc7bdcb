// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/biorel-index/internal/mapping"
)

var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "Manage the entity mapping store",
}

var mappingsIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest gene, chemical and disease vocabularies into SQLite",
	Long: `Ingest reads genes, chemicals and diseases tables (.tsv, .csv or .txt,
optionally gzip-compressed) from the input directory and stores them in the
mapping database. Sources unchanged since the last ingest are skipped.`,
	RunE: runMappingsIngest,
}

func runMappingsIngest(cmd *cobra.Command, args []string) error {
	store, err := mapping.NewStore(cfg.Mappings.DBPath, log)
	if err != nil {
		return err
	}
	defer store.Close()

	sum, err := store.IngestDir(cmd.Context(), cfg.Mappings.InputDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "indexed %d, updated %d, skipped %d, failed %d, entries %d\n",
		sum.Indexed, sum.Updated, sum.Skipped, sum.Failed, sum.Entries)
	if sum.Failed > 0 {
		return fmt.Errorf("%d mapping source(s) failed", sum.Failed)
	}
	return nil
}

func init() {
	mappingsIngestCmd.Flags().String("input-dir", "", "directory holding genes, chemicals and diseases tables")
	mappingsIngestCmd.Flags().String("db", "", "mapping database file")
	configKey(mappingsIngestCmd.Flags(), "input-dir", "mappings.input_dir")
	configKey(mappingsIngestCmd.Flags(), "db", "mappings.db_path")

	mappingsCmd.AddCommand(mappingsIngestCmd)
	rootCmd.AddCommand(mappingsCmd)
}
