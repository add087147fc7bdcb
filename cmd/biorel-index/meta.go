// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/biorel-index/internal/meta"
	"github.com/pdiddy/biorel-index/internal/table"
)

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Work with publication metadata",
}

var metaSubsetCmd = &cobra.Command{
	Use:   "subset <in.csv> <out.csv> [fields...]",
	Short: "Copy selected metadata columns, dropping untraceable rows",
	Long: `Subset copies the named columns of a metadata CSV (optionally .gz) to a
new CSV. Rows lacking pubmed_id or sha are dropped unless --allow-empty is
set. Without fields every column is kept; unknown fields are ignored.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runMetaSubset,
}

func runMetaSubset(cmd *cobra.Command, args []string) error {
	in, err := table.OpenFile(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("creating %s: %w", args[1], err)
	}

	st, err := meta.Subset(in, out, meta.Options{
		Fields:     args[2:],
		AllowEmpty: cfg.Meta.AllowEmpty,
		Log:        log,
	})
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing %s: %w", args[1], cerr)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "rows %d, kept %d, dropped %d\n", st.Rows, st.Kept, st.Dropped)
	return nil
}

func init() {
	metaSubsetCmd.Flags().Bool("allow-empty", false, "keep rows without pubmed_id or sha")
	configKey(metaSubsetCmd.Flags(), "allow-empty", "meta.allow_empty")

	metaCmd.AddCommand(metaSubsetCmd)
	rootCmd.AddCommand(metaCmd)
}
