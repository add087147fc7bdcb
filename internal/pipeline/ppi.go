// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/biorel-index/internal/assemble"
	"github.com/pdiddy/biorel-index/internal/checkpoint"
	"github.com/pdiddy/biorel-index/internal/inference"
	"github.com/pdiddy/biorel-index/internal/ner"
	"github.com/pdiddy/biorel-index/internal/statements"
	"github.com/pdiddy/biorel-index/pkg/types"
)

// Extraction modes, used in checkpoint names and metric labels.
const (
	ModeAggregate = "aggregate"
	ModeSplit     = "split"
)

// PPIRun extracts evidence from a statement batch, optionally annotates it
// with inferred facts, joins it with metadata and loads the documents into
// index name.
func PPIRun(ctx context.Context, cfg types.PipelineConfig, name string, d Deps) (Summary, error) {
	d, err := d.withDefaults()
	if err != nil {
		return Summary{}, err
	}
	log := d.Log.With(zap.String("run", "ppi"), zap.String("index", name))

	if cfg.Statements.Path == "" {
		return Summary{}, fmt.Errorf("no statement batch configured")
	}
	rec, err := ner.New(cfg.Statements.Recognizer)
	if err != nil {
		return Summary{}, err
	}

	mode := ModeAggregate
	if cfg.Statements.Split {
		mode = ModeSplit
	}

	var extracted statements.Summary
	agg, err := checkpoint.Cached(ctx, log, d.Checkpoints, artifactName("ppi-"+mode, cfg.Statements.Path,
		cfg.Statements.Recognizer),
		func(ctx context.Context) (*types.Aggregate[types.EvidenceRecord], error) {
			stmts, err := statements.Load(cfg.Statements.Path)
			if err != nil {
				return nil, err
			}
			log.Info("statements loaded", zap.Int("statements", len(stmts)))

			ex := statements.NewExtractor(rec, log)
			ex.ProgressEvery = cfg.Logging.ProgressEvery
			var agg *types.Aggregate[types.EvidenceRecord]
			if mode == ModeSplit {
				agg, extracted, err = ex.Split(stmts)
			} else {
				agg, extracted, err = ex.Aggregate(stmts)
			}
			return agg, err
		})
	if err != nil {
		return Summary{}, err
	}
	d.Metrics.AddEvidence(mode, agg.Count())

	sum := Summary{Rows: extracted.Statements, Records: agg.Count()}

	if cfg.Statements.Infer {
		annotated, maps, st, err := inference.Run(agg, log)
		if err != nil {
			return sum, err
		}
		agg = annotated
		sum.Skipped = st.ContainerSkips + st.RelationSkips
		d.Metrics.AddInferenceSkips("containers", st.ContainerSkips)
		d.Metrics.AddInferenceSkips("relations", st.RelationSkips)

		if d.Graph != nil {
			if _, err := d.Graph.Export(ctx, maps.Relations); err != nil {
				return sum, fmt.Errorf("exporting graph: %w", err)
			}
		}
	}

	metas, err := loadMeta(cfg.Meta, log)
	if err != nil {
		return sum, err
	}
	var docs []types.IndexDocument
	if mode == ModeSplit {
		docs = assemble.PPIsSplit(agg, metas)
	} else {
		docs = assemble.PPIs(agg, metas)
	}
	if err := deliver(ctx, d, cfg.Index.Backend, name, docs, &sum); err != nil {
		return sum, err
	}

	log.Info("ppi run finished",
		zap.String("mode", mode),
		zap.Int("statements", sum.Rows), zap.Int("records", sum.Records), zap.Int("skipped", sum.Skipped),
		zap.Int("documents", sum.Documents), zap.Int("indexed", sum.Indexed), zap.Int("failed", sum.Failed))
	return sum, nil
}
