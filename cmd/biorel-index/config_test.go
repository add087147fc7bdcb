// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/biorel-index/pkg/types"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	setDefaults(types.DefaultConfig())
	configureEnv()
	t.Cleanup(viper.Reset)
}

func TestLoadConfigDefaults(t *testing.T) {
	resetViper(t)

	c, err := loadConfig()
	require.NoError(t, err)
	d := types.DefaultConfig()
	assert.Equal(t, d.Mappings, c.Mappings)
	assert.Equal(t, d.Index, c.Index)
	assert.Equal(t, d.Logging, c.Logging)
	assert.Equal(t, "chem-gene", c.Relations.Kind)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("BIOREL_INDEX_INDEX_BACKEND", "file")
	t.Setenv("BIOREL_INDEX_INDEX_TIMEOUT", "5s")
	t.Setenv("BIOREL_INDEX_META_ALLOW_EMPTY", "true")
	resetViper(t)

	c, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, types.BackendFile, c.Index.Backend)
	assert.Equal(t, 5*time.Second, c.Index.Timeout)
	assert.True(t, c.Meta.AllowEmpty)
	assert.Equal(t, "data/index.db", c.Index.DBPath)
}

func TestBindFlagsOverridesConfig(t *testing.T) {
	resetViper(t)

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("kind", "", "")
	cmd.Flags().String("table", "", "")
	configKey(cmd.Flags(), "kind", "relations.kind")
	configKey(cmd.Flags(), "table", "relations.table")
	require.NoError(t, cmd.Flags().Parse([]string{"--kind", "gene-disease"}))
	require.NoError(t, bindFlags(cmd))

	c, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "gene-disease", c.Relations.Kind)
	assert.Empty(t, c.Relations.Table, "unset flags leave the default")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
