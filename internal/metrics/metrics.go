// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics holds the counters of one batch run. Each run owns its
// registry, and the result is written as a node-exporter textfile when the
// run ends.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Row statuses.
const (
	StatusParsed = "parsed"
	StatusGated  = "gated"
	StatusNoPMID = "no_pmid"
	StatusFailed = "failed"
	StatusOK     = "ok"
)

// Run groups the counters of one pipeline run.
type Run struct {
	Registry *prometheus.Registry

	Rows           *prometheus.CounterVec
	Evidence       *prometheus.CounterVec
	Documents      *prometheus.CounterVec
	InferenceSkips *prometheus.CounterVec
}

// NewRun registers a fresh set of counters.
func NewRun() *Run {
	r := &Run{
		Registry: prometheus.NewRegistry(),
		Rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "biorel_rows_total",
				Help: "Relation table rows read, by source and outcome",
			},
			[]string{"source", "status"},
		),
		Evidence: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "biorel_evidence_total",
				Help: "Evidence records extracted, by mode",
			},
			[]string{"mode"},
		),
		Documents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "biorel_documents_indexed_total",
				Help: "Documents handed to an index sink, by sink and outcome",
			},
			[]string{"sink", "status"},
		),
		InferenceSkips: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "biorel_inference_skips_total",
				Help: "Evidence items skipped by an inference pass",
			},
			[]string{"pass"},
		),
	}
	r.Registry.MustRegister(r.Rows, r.Evidence, r.Documents, r.InferenceSkips)
	return r
}

// AddRows adds n to the row counter. Zero counts are still recorded so
// every label pair appears in the output.
func (r *Run) AddRows(source, status string, n int) {
	r.Rows.WithLabelValues(source, status).Add(float64(n))
}

// AddEvidence adds n to the evidence counter for mode.
func (r *Run) AddEvidence(mode string, n int) {
	r.Evidence.WithLabelValues(mode).Add(float64(n))
}

// AddDocuments adds n to the document counter.
func (r *Run) AddDocuments(sink, status string, n int) {
	r.Documents.WithLabelValues(sink, status).Add(float64(n))
}

// AddInferenceSkips adds n to the skip counter for pass.
func (r *Run) AddInferenceSkips(pass string, n int) {
	r.InferenceSkips.WithLabelValues(pass).Add(float64(n))
}

// WriteTextfile writes the registry in text exposition format. An empty
// path is a no-op.
func (r *Run) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.Registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
