// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/biorel-index/internal/assemble"
	"github.com/pdiddy/biorel-index/internal/checkpoint"
	"github.com/pdiddy/biorel-index/internal/mapping"
	"github.com/pdiddy/biorel-index/internal/metrics"
	"github.com/pdiddy/biorel-index/internal/relation"
	"github.com/pdiddy/biorel-index/internal/table"
	"github.com/pdiddy/biorel-index/pkg/types"
)

// LoadMappings refreshes the mapping store from cfg.InputDir, when set, and
// loads the three mappings.
func LoadMappings(ctx context.Context, cfg types.MappingConfig, log *zap.Logger) (mapping.Set, error) {
	store, err := mapping.NewStore(cfg.DBPath, log)
	if err != nil {
		return mapping.Set{}, err
	}
	defer store.Close()

	if cfg.InputDir != "" {
		if _, err := store.IngestDir(ctx, cfg.InputDir); err != nil {
			return mapping.Set{}, fmt.Errorf("ingesting mappings: %w", err)
		}
	}
	set, err := store.LoadSet(ctx)
	if err != nil {
		return mapping.Set{}, fmt.Errorf("loading mappings: %w", err)
	}
	log.Info("mappings loaded",
		zap.Int("genes", set.Genes.Len()),
		zap.Int("chemicals", set.Chemicals.Len()),
		zap.Int("diseases", set.Diseases.Len()))
	return set, nil
}

// RelationOptions builds parser options from cfg: the mappings plus the
// optional overlap gate and gene-disease cross-link.
func RelationOptions(cfg types.RelationConfig, set mapping.Set, log *zap.Logger) (relation.Options, error) {
	opts := relation.Options{Genes: set.Genes, Chemicals: set.Chemicals, Diseases: set.Diseases}
	if cfg.OverlapFile != "" {
		gate, err := relation.LoadGate(cfg.OverlapFile)
		if err != nil {
			return opts, err
		}
		log.Info("overlap gate loaded", zap.Int("publications", gate.Len()))
		opts.Gate = gate
	}
	if cfg.GeneDiseaseTable != "" {
		idx, err := relation.LoadGeneDiseaseIndex(cfg.GeneDiseaseTable, set.Diseases)
		if err != nil {
			return opts, err
		}
		log.Info("gene-disease index loaded", zap.Int("genes", len(idx)))
		opts.GeneDiseases = idx
	}
	return opts, nil
}

// mappingStamp identifies the mapping set a run resolved against.
func mappingStamp(cfg types.MappingConfig, set mapping.Set) string {
	return fmt.Sprintf("%s:%d:%d:%d", cfg.DBPath, set.Genes.Len(), set.Chemicals.Len(), set.Diseases.Len())
}

// RelationRun parses one relation table, joins it with metadata and loads
// the documents into index name.
func RelationRun(ctx context.Context, cfg types.PipelineConfig, name string, d Deps) (Summary, error) {
	d, err := d.withDefaults()
	if err != nil {
		return Summary{}, err
	}
	log := d.Log.With(zap.String("run", "relations"), zap.String("index", name))

	kind, err := relation.ParseKind(cfg.Relations.Kind)
	if err != nil {
		return Summary{}, err
	}
	if cfg.Relations.Table == "" {
		return Summary{}, fmt.Errorf("no relation table configured")
	}

	set, err := LoadMappings(ctx, cfg.Mappings, log)
	if err != nil {
		return Summary{}, err
	}
	opts, err := RelationOptions(cfg.Relations, set, log)
	if err != nil {
		return Summary{}, err
	}
	parser, err := relation.New(kind, opts)
	if err != nil {
		return Summary{}, err
	}

	var parsed relation.Summary
	agg, err := checkpoint.Cached(ctx, log, d.Checkpoints, artifactName(string(kind), cfg.Relations.Table,
		fileStamp(cfg.Relations.OverlapFile),
		fileStamp(cfg.Relations.GeneDiseaseTable),
		mappingStamp(cfg.Mappings, set)),
		func(ctx context.Context) (*types.Aggregate[types.RelationRecord], error) {
			r, err := table.Open(cfg.Relations.Table)
			if err != nil {
				return nil, err
			}
			defer r.Close()
			agg, s, err := relation.ParseTable(ctx, parser, r, relation.ParseOptions{
				Log:           log,
				ProgressEvery: cfg.Logging.ProgressEvery,
			})
			parsed = s
			return agg, err
		})
	if err != nil {
		return Summary{}, err
	}

	source := string(kind)
	d.Metrics.AddRows(source, metrics.StatusParsed, parsed.Parsed)
	d.Metrics.AddRows(source, metrics.StatusGated, parsed.Gated)
	d.Metrics.AddRows(source, metrics.StatusNoPMID, parsed.NoPMID)

	sum := Summary{
		Rows:    parsed.Rows,
		Records: agg.Count(),
		Skipped: parsed.Gated + parsed.NoPMID,
	}

	metas, err := loadMeta(cfg.Meta, log)
	if err != nil {
		return sum, err
	}
	docs := assemble.Relations(agg, metas)
	if err := deliver(ctx, d, cfg.Index.Backend, name, docs, &sum); err != nil {
		return sum, err
	}

	log.Info("relation run finished",
		zap.Int("rows", sum.Rows), zap.Int("records", sum.Records), zap.Int("skipped", sum.Skipped),
		zap.Int("documents", sum.Documents), zap.Int("indexed", sum.Indexed), zap.Int("failed", sum.Failed))
	return sum, nil
}
