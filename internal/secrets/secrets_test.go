// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Set
	}{
		{
			name: "trims key files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ElasticsearchPassword, "  es-pass  \n")
				writeFile(t, dir, S3AccessKey, "AKIAEXAMPLE\n")
				return dir
			},
			want: Set{ElasticsearchPassword: "es-pass", S3AccessKey: "AKIAEXAMPLE"},
		},
		{
			name: "missing directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent")
			},
			want: Set{},
		},
		{
			name: "blank files, dotfiles and subdirectories are ignored",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, Neo4jPassword, "graph")
				writeFile(t, dir, S3SecretKey, " \n\t")
				writeFile(t, dir, ".gitkeep", "x")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
				return dir
			},
			want: Set{Neo4jPassword: "graph"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadEnvironmentOverridesFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, Neo4jPassword, "from-file")
	writeFile(t, dir, S3AccessKey, "file-key")
	t.Setenv("BIOREL_INDEX_NEO4J_PASSWORD", " from-env ")
	t.Setenv("BIOREL_INDEX_S3_SECRET_KEY", "env-secret")
	t.Setenv("BIOREL_INDEX_S3_ACCESS_KEY", "")

	got, err := Load(dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "from-env", got.Get(Neo4jPassword))
	assert.Equal(t, "env-secret", got.Get(S3SecretKey))
	assert.Equal(t, "file-key", got.Get(S3AccessKey), "an empty variable does not clear the file value")
	assert.Empty(t, got.Get(ElasticsearchPassword))
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "BIOREL_INDEX_ELASTICSEARCH_PASSWORD", EnvName(ElasticsearchPassword))
	assert.Equal(t, "BIOREL_INDEX_S3_ACCESS_KEY", EnvName(S3AccessKey))
}

func TestSetKeys(t *testing.T) {
	s := Set{S3SecretKey: "b", ElasticsearchPassword: "a"}
	assert.Equal(t, []string{ElasticsearchPassword, S3SecretKey}, s.Keys())
	assert.Empty(t, Set{}.Keys())
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	dir := t.TempDir()
	writeFile(t, dir, Neo4jPassword, "graph")
	bad := filepath.Join(dir, S3SecretKey)
	require.NoError(t, os.WriteFile(bad, []byte("secret"), 0o000))

	got, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, Set{Neo4jPassword: "graph"}, got)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
