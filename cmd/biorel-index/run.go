// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/biorel-index/internal/checkpoint"
	"github.com/pdiddy/biorel-index/internal/graphdb"
	"github.com/pdiddy/biorel-index/internal/index"
	"github.com/pdiddy/biorel-index/internal/metrics"
	"github.com/pdiddy/biorel-index/internal/pipeline"
	"github.com/pdiddy/biorel-index/internal/secrets"
)

// addIndexFlags registers the sink, checkpoint and metrics flags shared
// by the indexing commands.
func addIndexFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.String("backend", "", "index backend: sqlite, elasticsearch, or file")
	fs.String("index-db", "", "SQLite index file for the sqlite backend")
	fs.String("output", "", "output file for the file backend (.jsonl or .yaml)")
	fs.String("checkpoint-dir", "", "directory for intermediate aggregates")
	fs.String("metrics-file", "", "write run metrics in Prometheus text format to this file")
	fs.String("mappings-db", "", "SQLite file holding the entity mappings")
	fs.String("meta", "", "publication metadata CSV")
	configKey(fs, "backend", "index.backend")
	configKey(fs, "index-db", "index.db_path")
	configKey(fs, "output", "index.output_path")
	configKey(fs, "checkpoint-dir", "checkpoint.dir")
	configKey(fs, "metrics-file", "metrics.textfile_path")
	configKey(fs, "mappings-db", "mappings.db_path")
	configKey(fs, "meta", "meta.path")
}

// newDeps builds the collaborators of an indexing run. withGraph enables
// the Neo4j export when a graph URI is configured. The returned func
// releases them.
func newDeps(ctx context.Context, withGraph bool) (pipeline.Deps, func(), error) {
	d := pipeline.Deps{Log: log, Metrics: metrics.NewRun()}
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn("closing run resource", zap.Error(err))
			}
		}
	}

	sink, err := index.New(cfg.Index, loadedSecrets.Get(secrets.ElasticsearchPassword), index.WithLogger(log))
	if err != nil {
		return d, cleanup, err
	}
	d.Sink = sink
	closers = append(closers, sink.Close)

	store, err := checkpointStore(ctx)
	if err != nil {
		cleanup()
		return d, func() {}, err
	}
	d.Checkpoints = store

	if withGraph {
		if cfg.Graph.URI == "" {
			cleanup()
			return d, func() {}, fmt.Errorf("graph export requested but graph.uri is not set")
		}
		w, err := graphdb.NewNeo4jWriter(cfg.Graph.URI, cfg.Graph.Username, loadedSecrets.Get(secrets.Neo4jPassword))
		if err != nil {
			cleanup()
			return d, func() {}, err
		}
		d.Graph = graphdb.NewExporter(w, cfg.Graph.BatchSize, log)
		closers = append(closers, d.Graph.Close)
	}
	return d, cleanup, nil
}

// checkpointStore selects S3 when a bucket is configured, else the local
// directory. Both empty disables checkpoints.
func checkpointStore(ctx context.Context) (checkpoint.Store, error) {
	c := cfg.Checkpoint
	switch {
	case c.S3Bucket != "":
		client, err := checkpoint.NewS3Client(ctx, checkpoint.S3Options{
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			AccessKey: loadedSecrets.Get(secrets.S3AccessKey),
			SecretKey: loadedSecrets.Get(secrets.S3SecretKey),
		})
		if err != nil {
			return nil, err
		}
		log.Info("checkpoints in object storage", zap.String("bucket", c.S3Bucket), zap.String("prefix", c.S3Prefix))
		return checkpoint.NewS3Store(client, c.S3Bucket, c.S3Prefix), nil
	case c.Dir != "":
		return checkpoint.NewFileStore(c.Dir), nil
	default:
		return nil, nil
	}
}

// finish prints the run summary, writes the metrics textfile and turns
// failed documents into an error.
func finish(d pipeline.Deps, sum pipeline.Summary, runErr error) error {
	if err := d.Metrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
		log.Warn("writing metrics textfile", zap.String("path", cfg.Metrics.TextfilePath), zap.Error(err))
	}
	if runErr != nil {
		return runErr
	}
	fmt.Fprintf(os.Stdout, "rows %d, records %d, skipped %d, documents %d, indexed %d, failed %d\n",
		sum.Rows, sum.Records, sum.Skipped, sum.Documents, sum.Indexed, sum.Failed)
	if sum.Failed > 0 {
		return fmt.Errorf("%d document(s) failed indexing", sum.Failed)
	}
	return nil
}
