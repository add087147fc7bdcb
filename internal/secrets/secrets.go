// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves backend credentials. A secret comes from a file
// named after its key in the secrets directory, or from the environment,
// which wins. BIOREL_INDEX_NEO4J_PASSWORD overrides the neo4j-password file.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Credential keys used by the index, graph and checkpoint backends.
const (
	ElasticsearchPassword = "elasticsearch-password"
	Neo4jPassword         = "neo4j-password"
	S3AccessKey           = "s3-access-key"
	S3SecretKey           = "s3-secret-key"
)

// Known lists the keys consulted in the environment.
var Known = []string{ElasticsearchPassword, Neo4jPassword, S3AccessKey, S3SecretKey}

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets"

// EnvPrefix prefixes the environment form of a key.
const EnvPrefix = "BIOREL_INDEX_"

// Set maps credential keys to values.
type Set map[string]string

// Get returns the value for key, or "" when it is unset.
func (s Set) Get(key string) string { return s[key] }

// Keys returns the loaded key names in order. Values are never exposed.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// EnvName is the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// Load reads the key files in dir, then applies environment overrides for
// the Known keys. A missing directory is treated as empty. Files that cannot
// be read are logged and skipped.
func Load(dir string, log *zap.Logger) (Set, error) {
	if log == nil {
		log = zap.NewNop()
	}
	set, err := readDir(dir, log)
	if err != nil {
		return nil, err
	}
	for _, key := range Known {
		v, ok := os.LookupEnv(EnvName(key))
		if !ok {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			log.Debug("secret from environment", zap.String("key", key))
			set[key] = v
		}
	}
	return set, nil
}

func readDir(dir string, log *zap.Logger) (Set, error) {
	set := Set{}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return set, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}
	for _, e := range entries {
		key := e.Name()
		if e.IsDir() || strings.HasPrefix(key, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, key))
		if err != nil {
			log.Warn("skipping unreadable secret", zap.String("key", key), zap.Error(err))
			continue
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			set[key] = v
		}
	}
	return set, nil
}
