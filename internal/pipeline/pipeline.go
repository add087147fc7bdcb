// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires parsing, inference, assembly and indexing into the
// two batch runs: relation tables and PPI statements.
package pipeline

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/biorel-index/internal/assemble"
	"github.com/pdiddy/biorel-index/internal/checkpoint"
	"github.com/pdiddy/biorel-index/internal/graphdb"
	"github.com/pdiddy/biorel-index/internal/index"
	"github.com/pdiddy/biorel-index/internal/meta"
	"github.com/pdiddy/biorel-index/internal/metrics"
	"github.com/pdiddy/biorel-index/pkg/types"
)

// Deps holds the collaborators of a run. Sink is required; the rest are
// optional.
type Deps struct {
	Log     *zap.Logger
	Metrics *metrics.Run
	Sink    index.Sink

	// Checkpoints persists intermediate aggregates. Nil always recomputes.
	Checkpoints checkpoint.Store

	// Graph receives the inferred relation graph when inference runs.
	Graph *graphdb.Exporter
}

func (d Deps) withDefaults() (Deps, error) {
	if d.Sink == nil {
		return d, fmt.Errorf("pipeline: no index sink")
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewRun()
	}
	return d, nil
}

// Summary counts the work of one run.
type Summary struct {
	// Rows is the number of table rows or statements read. It is zero when
	// the aggregate came from a checkpoint.
	Rows int

	// Records is the number of aggregate entries.
	Records int

	// Skipped counts rows dropped by the gate or lacking identifiers, and
	// evidence skipped by inference passes.
	Skipped int

	Documents int
	Indexed   int
	Failed    int
}

// artifactName derives a checkpoint name from a run kind, its input and
// the settings that shape the aggregate. Changing any of them selects a new
// artifact.
func artifactName(kind, input string, shape ...string) string {
	base := filepath.Base(input)
	for _, ext := range []string{".gz", ".tsv", ".csv", ".txt", ".jsonl", ".ndjson", ".json", ".gob"} {
		base = strings.TrimSuffix(base, ext)
	}
	h := sha256.New()
	for _, s := range shape {
		io.WriteString(h, s)
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%s-%s-%x", kind, base, h.Sum(nil)[:6])
}

// fileStamp identifies a file by path and modification time. An unset path
// gives "".
func fileStamp(path string) string {
	if path == "" {
		return ""
	}
	info, err := os.Stat(path)
	if err != nil {
		return path
	}
	return path + "@" + info.ModTime().UTC().Format(time.RFC3339Nano)
}

func loadMeta(cfg types.MetaConfig, log *zap.Logger) (assemble.MetaLookup, error) {
	if cfg.Path == "" {
		log.Info("no metadata configured, documents get empty shells")
		return nil, nil
	}
	idx, err := meta.Load(cfg.Path, meta.Options{Fields: cfg.Fields, AllowEmpty: cfg.AllowEmpty, Log: log})
	if err != nil {
		return nil, err
	}
	log.Info("metadata indexed", zap.Int("publications", len(idx)))
	return idx, nil
}

func sinkName(backend types.IndexBackend) string {
	if backend == "" {
		return string(types.BackendSQLite)
	}
	return string(backend)
}

func deliver(ctx context.Context, d Deps, backend types.IndexBackend, name string, docs []types.IndexDocument, sum *Summary) error {
	sum.Documents = len(docs)
	loaded, err := d.Sink.Load(ctx, name, docs)
	sum.Indexed, sum.Failed = loaded.Indexed, loaded.Failed
	d.Metrics.AddDocuments(sinkName(backend), metrics.StatusOK, loaded.Indexed)
	d.Metrics.AddDocuments(sinkName(backend), metrics.StatusFailed, loaded.Failed)
	if err != nil {
		return fmt.Errorf("loading index %s: %w", name, err)
	}
	return nil
}
