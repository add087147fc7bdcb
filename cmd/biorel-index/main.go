// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the biorel-index CLI.
// Subcommands ingest mappings, index relation tables and PPI statements,
// subset publication metadata, and query or export the local index.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/biorel-index/internal/logging"
	"github.com/pdiddy/biorel-index/internal/secrets"
	"github.com/pdiddy/biorel-index/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the resolved configuration for the running command.
	cfg types.PipelineConfig

	// log is the process logger, built from cfg.Logging.
	log = zap.NewNop()

	// loadedSecrets holds credentials from the secrets directory and the
	// environment.
	loadedSecrets secrets.Set
)

// rootCmd is the base command for the biorel-index CLI.
var rootCmd = &cobra.Command{
	Use:   "biorel-index",
	Short: "Normalize biomedical relation data into searchable publication documents",
	Long: `biorel-index turns curated chemical-gene, gene-disease and chemical-disease
tables and machine-read protein-protein interaction statements into one
document per publication, joined with bibliographic metadata, and loads
the documents into a search index.

Mappings are ingested once with "mappings ingest". Each "relations index"
or "ppi index" run then builds one named index.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd); err != nil {
			return err
		}
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c

		l, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return err
		}
		log = l

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, log)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			log.Debug("secrets loaded", zap.Strings("keys", s.Keys()))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./biorel-index.yaml or ~/.config/biorel-index/config.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", secrets.DefaultDir, "directory of credential files")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json")
	configKey(rootCmd.PersistentFlags(), "log-level", "logging.level")
	configKey(rootCmd.PersistentFlags(), "log-format", "logging.format")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
