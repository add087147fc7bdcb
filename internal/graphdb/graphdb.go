// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graphdb exports the inferred protein relation graph to Neo4j.
package graphdb

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v4/neo4j"
	"go.uber.org/zap"

	"github.com/pdiddy/biorel-index/internal/inference"
)

const defaultBatchSize = 500

// mergeEdges upserts one batch of actor -> target edges.
const mergeEdges = `
	UNWIND $edges AS edge
	MERGE (a:Protein {name: edge.actor})
	MERGE (t:Protein {name: edge.target})
	MERGE (a)-[:ACTS_ON {rel: edge.rel}]->(t)
`

// BatchWriter writes one batch of edge rows in a single transaction.
type BatchWriter interface {
	WriteBatch(rows []map[string]any) error
	Close() error
}

// Exporter writes RelationInferenceMap edges in batches.
type Exporter struct {
	w         BatchWriter
	batchSize int
	log       *zap.Logger
}

// Summary counts exported edges and batches.
type Summary struct {
	Edges   int
	Batches int
}

// NewExporter wraps w. A non-positive batchSize uses 500.
func NewExporter(w BatchWriter, batchSize int, log *zap.Logger) *Exporter {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{w: w, batchSize: batchSize, log: log}
}

// Export writes every edge of rel. It stops at the first failed batch;
// batches already committed stay in the graph.
func (e *Exporter) Export(ctx context.Context, rel inference.RelationInferenceMap) (Summary, error) {
	edges := rel.Edges()
	var sum Summary
	for start := 0; start < len(edges); start += e.batchSize {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		end := min(start+e.batchSize, len(edges))
		rows := make([]map[string]any, 0, end-start)
		for _, edge := range edges[start:end] {
			rows = append(rows, map[string]any{
				"actor":  edge.Actor,
				"target": edge.Target,
				"rel":    edge.Rel,
			})
		}
		if err := e.w.WriteBatch(rows); err != nil {
			return sum, fmt.Errorf("writing edge batch %d: %w", sum.Batches+1, err)
		}
		sum.Edges += len(rows)
		sum.Batches++
	}
	e.log.Info("graph exported", zap.Int("edges", sum.Edges), zap.Int("batches", sum.Batches))
	return sum, nil
}

// Close closes the underlying writer.
func (e *Exporter) Close() error {
	return e.w.Close()
}

// Neo4jWriter runs batches as Neo4j write transactions.
type Neo4jWriter struct {
	driver neo4j.Driver
}

// NewNeo4jWriter connects to uri with basic auth.
func NewNeo4jWriter(uri, username, password string) (*Neo4jWriter, error) {
	driver, err := neo4j.NewDriver(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}
	return &Neo4jWriter{driver: driver}, nil
}

// WriteBatch merges rows in one write transaction.
func (n *Neo4jWriter) WriteBatch(rows []map[string]any) error {
	session := n.driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (any, error) {
		res, err := tx.Run(mergeEdges, map[string]any{"edges": rows})
		if err != nil {
			return nil, err
		}
		return res.Consume()
	})
	return err
}

// Close closes the driver.
func (n *Neo4jWriter) Close() error {
	return n.driver.Close()
}
