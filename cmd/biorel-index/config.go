// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/biorel-index/pkg/types"
)

// configAnnotation marks a flag with the config key it overrides.
const configAnnotation = "biorel-index/config-key"

// configKey ties flag name in fs to a config key. The binding is applied
// only for the command that runs, so several commands may share a key.
func configKey(fs *pflag.FlagSet, name, key string) {
	if err := fs.SetAnnotation(name, configAnnotation, []string{key}); err != nil {
		panic(err)
	}
}

// bindFlags binds every annotated flag visible to cmd to its config key.
func bindFlags(cmd *cobra.Command) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[configAnnotation]
		if len(keys) == 0 || bindErr != nil {
			return
		}
		bindErr = viper.BindPFlag(keys[0], f)
	})
	return bindErr
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("biorel-index")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "biorel-index"))
		}
	}

	setDefaults(types.DefaultConfig())
	configureEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configureEnv maps BIOREL_INDEX_SECTION_KEY variables onto section.key.
func configureEnv() {
	viper.SetEnvPrefix("BIOREL_INDEX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// setDefaults registers every config key so that environment variables
// reach Unmarshal.
func setDefaults(d types.PipelineConfig) {
	for key, value := range map[string]any{
		"mappings.db_path":             d.Mappings.DBPath,
		"mappings.input_dir":           d.Mappings.InputDir,
		"relations.kind":               d.Relations.Kind,
		"relations.table":              d.Relations.Table,
		"relations.overlap_file":       d.Relations.OverlapFile,
		"relations.gene_disease_table": d.Relations.GeneDiseaseTable,
		"statements.path":              d.Statements.Path,
		"statements.recognizer":        d.Statements.Recognizer,
		"statements.split":             d.Statements.Split,
		"statements.infer":             d.Statements.Infer,
		"meta.path":                    d.Meta.Path,
		"meta.allow_empty":             d.Meta.AllowEmpty,
		"checkpoint.dir":               d.Checkpoint.Dir,
		"checkpoint.s3_bucket":         d.Checkpoint.S3Bucket,
		"checkpoint.s3_prefix":         d.Checkpoint.S3Prefix,
		"checkpoint.s3_endpoint":       d.Checkpoint.S3Endpoint,
		"checkpoint.s3_region":         d.Checkpoint.S3Region,
		"index.backend":                string(d.Index.Backend),
		"index.db_path":                d.Index.DBPath,
		"index.output_path":            d.Index.OutputPath,
		"index.addresses":              d.Index.Addresses,
		"index.username":               d.Index.Username,
		"index.timeout":                d.Index.Timeout,
		"index.max_results":            d.Index.MaxResults,
		"graph.uri":                    d.Graph.URI,
		"graph.username":               d.Graph.Username,
		"graph.batch_size":             d.Graph.BatchSize,
		"logging.level":                d.Logging.Level,
		"logging.format":               d.Logging.Format,
		"logging.progress_every":       d.Logging.ProgressEvery,
		"metrics.textfile_path":        d.Metrics.TextfilePath,
	} {
		viper.SetDefault(key, value)
	}
}

// loadConfig resolves defaults, the config file, environment variables and
// bound flags into a PipelineConfig.
func loadConfig() (types.PipelineConfig, error) {
	c := types.DefaultConfig()
	if err := viper.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding config: %w", err)
	}
	return c, nil
}
