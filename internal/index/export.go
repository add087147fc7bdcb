// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/biorel-index/pkg/types"
)

const exportLimit = 1000000

// ExportYAML writes the matching documents to w as a YAML sequence.
func (s *SQLiteSink) ExportYAML(ctx context.Context, w io.Writer, opts QueryOptions) error {
	docs, err := s.exportDocuments(ctx, opts)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes the matching documents to w as an indented JSON array.
func (s *SQLiteSink) ExportJSON(ctx context.Context, w io.Writer, opts QueryOptions) error {
	docs, err := s.exportDocuments(ctx, opts)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func (s *SQLiteSink) exportDocuments(ctx context.Context, opts QueryOptions) ([]types.IndexDocument, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = exportLimit
	}
	results, err := s.Search(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	docs := make([]types.IndexDocument, len(results))
	for i, r := range results {
		docs[i] = r.Document
	}
	return docs, nil
}
