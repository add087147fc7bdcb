// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graphdb

import (
	"context"
	"errors"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/biorel-index/internal/inference"
)

type recorder struct {
	batches [][]map[string]any
	failOn  int
	closed  bool
}

func (r *recorder) WriteBatch(rows []map[string]any) error {
	if r.failOn > 0 && len(r.batches)+1 == r.failOn {
		return errors.New("connection reset")
	}
	r.batches = append(r.batches, rows)
	return nil
}

func (r *recorder) Close() error {
	r.closed = true
	return nil
}

func graph() inference.RelationInferenceMap {
	return inference.RelationInferenceMap{
		"MAPK1": {
			"Phosphorylation_by":   mapset.NewSet("RAF1", "MEK1"),
			"Dephosphorylation_by": mapset.NewSet("PP2A"),
		},
		"MDM2": {"Activation_by": mapset.NewSet("TP53")},
		"ELK1": {},
	}
}

func TestExportBatches(t *testing.T) {
	rec := &recorder{}
	exp := NewExporter(rec, 2, nil)

	sum, err := exp.Export(context.Background(), graph())
	require.NoError(t, err)
	assert.Equal(t, Summary{Edges: 4, Batches: 2}, sum)
	require.Len(t, rec.batches, 2)
	assert.Equal(t, map[string]any{"actor": "MEK1", "target": "MAPK1", "rel": "Phosphorylation"}, rec.batches[0][0])
	assert.Equal(t, map[string]any{"actor": "TP53", "target": "MDM2", "rel": "Activation"}, rec.batches[1][1])

	require.NoError(t, exp.Close())
	assert.True(t, rec.closed)
}

func TestExportStopsOnFailedBatch(t *testing.T) {
	rec := &recorder{failOn: 2}
	sum, err := NewExporter(rec, 3, nil).Export(context.Background(), graph())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch 2")
	assert.Equal(t, Summary{Edges: 3, Batches: 1}, sum)
}

func TestExportHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewExporter(&recorder{}, 0, nil).Export(ctx, graph())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExportEmptyGraph(t *testing.T) {
	rec := &recorder{}
	sum, err := NewExporter(rec, 0, nil).Export(context.Background(), inference.RelationInferenceMap{})
	require.NoError(t, err)
	assert.Zero(t, sum.Edges)
	assert.Empty(t, rec.batches)
}
