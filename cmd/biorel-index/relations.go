// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/biorel-index/internal/pipeline"
)

var relationsCmd = &cobra.Command{
	Use:   "relations",
	Short: "Index curated relation tables",
}

var relationsIndexCmd = &cobra.Command{
	Use:   "index <index-name>",
	Short: "Parse a relation table and load one document per publication",
	Long: `Index parses a chem-gene, gene-disease or chem-disease table, resolves
identifiers against the mapping store, groups rows by publication, joins
the groups with metadata and loads them into the named index.

Rows whose publications all fall outside the overlap file are skipped.
With --gene-disease-table, chem-gene rows are cross-linked to the diseases
of their gene.`,
	Args: cobra.ExactArgs(1),
	RunE: runRelationsIndex,
}

func runRelationsIndex(cmd *cobra.Command, args []string) error {
	d, cleanup, err := newDeps(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer cleanup()

	sum, err := pipeline.RelationRun(cmd.Context(), cfg, args[0], d)
	return finish(d, sum, err)
}

func init() {
	fs := relationsIndexCmd.Flags()
	fs.String("kind", "", "relation table kind: chem-gene, gene-disease, or chem-disease")
	fs.String("table", "", "relation table (.tsv or .csv, optionally .gz)")
	fs.String("overlap-file", "", "file of in-scope publication identifiers, one per line")
	fs.String("gene-disease-table", "", "gene-disease table used to cross-link chem-gene rows")
	configKey(fs, "kind", "relations.kind")
	configKey(fs, "table", "relations.table")
	configKey(fs, "overlap-file", "relations.overlap_file")
	configKey(fs, "gene-disease-table", "relations.gene_disease_table")
	addIndexFlags(relationsIndexCmd)

	relationsCmd.AddCommand(relationsIndexCmd)
	rootCmd.AddCommand(relationsCmd)
}
