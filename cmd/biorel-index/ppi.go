// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/biorel-index/internal/pipeline"
)

var ppiCmd = &cobra.Command{
	Use:   "ppi",
	Short: "Index machine-read protein-protein interaction statements",
}

var ppiIndexCmd = &cobra.Command{
	Use:   "index <index-name>",
	Short: "Extract PPI evidence and load one document per publication",
	Long: `Index reads a statement batch (.json, .jsonl, .ndjson or .gob), extracts
one evidence record per statement and publication (or per evidence item
with --split), and loads the documents into the named index.

With --infer, every record is annotated with the other actors of its
relation, the actors of the opposite relation and the containers of its
target. --graph-export additionally writes the inferred relation graph to
the configured Neo4j database.`,
	Args: cobra.ExactArgs(1),
	RunE: runPPIIndex,
}

func runPPIIndex(cmd *cobra.Command, args []string) error {
	graphExport, _ := cmd.Flags().GetBool("graph-export")
	if graphExport {
		cfg.Statements.Infer = true
	}

	d, cleanup, err := newDeps(cmd.Context(), graphExport)
	if err != nil {
		return err
	}
	defer cleanup()

	sum, err := pipeline.PPIRun(cmd.Context(), cfg, args[0], d)
	return finish(d, sum, err)
}

func init() {
	fs := ppiIndexCmd.Flags()
	fs.String("statements", "", "statement batch file")
	fs.String("recognizer", "", "entity recognizer: prose or none")
	fs.Bool("split", false, "one document per evidence item")
	fs.Bool("infer", false, "annotate evidence with inferred facts")
	fs.Bool("graph-export", false, "export the inferred relation graph to Neo4j (implies --infer)")
	configKey(fs, "statements", "statements.path")
	configKey(fs, "recognizer", "statements.recognizer")
	configKey(fs, "split", "statements.split")
	configKey(fs, "infer", "statements.infer")
	addIndexFlags(ppiIndexCmd)

	ppiCmd.AddCommand(ppiIndexCmd)
	rootCmd.AddCommand(ppiCmd)
}
