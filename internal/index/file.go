// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/biorel-index/pkg/types"
)

// FileSink writes documents to a file: JSON lines for .jsonl and .ndjson
// paths, a YAML sequence for .yaml and .yml. The index name is inserted
// before the extension, so "out/docs.jsonl" becomes "out/docs.<name>.jsonl".
type FileSink struct {
	path string
	yaml bool
	log  *zap.Logger
}

// NewFileSink returns a sink writing next to path.
func NewFileSink(path string, log *zap.Logger) (*FileSink, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &FileSink{path: path, log: log}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
	case ".yaml", ".yml":
		s.yaml = true
	default:
		return nil, fmt.Errorf("file sink: unsupported extension in %q", path)
	}
	return s, nil
}

// PathFor returns the file written for index name.
func (s *FileSink) PathFor(name string) string {
	ext := filepath.Ext(s.path)
	return strings.TrimSuffix(s.path, ext) + "." + name + ext
}

// Load truncates and rewrites the file for index name.
func (s *FileSink) Load(_ context.Context, name string, docs []types.IndexDocument) (Summary, error) {
	path := s.PathFor(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return Summary{}, fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var summary Summary
	if s.yaml {
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(docs); err != nil {
			return Summary{}, fmt.Errorf("marshaling YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return Summary{}, err
		}
		summary.Indexed = len(docs)
	} else {
		enc := json.NewEncoder(w)
		for _, doc := range docs {
			if err := enc.Encode(doc); err != nil {
				s.log.Warn("encoding document", zap.String("doc_id", doc.DocID), zap.Error(err))
				summary.Failed++
				continue
			}
			summary.Indexed++
		}
	}
	if err := w.Flush(); err != nil {
		return summary, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return summary, fmt.Errorf("closing %s: %w", path, err)
	}

	s.log.Info("index written", zap.String("path", path),
		zap.Int("indexed", summary.Indexed), zap.Int("failed", summary.Failed))
	return summary, nil
}

// Close is a no-op; each Load closes its own file.
func (s *FileSink) Close() error { return nil }
