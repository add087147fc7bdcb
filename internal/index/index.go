// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index loads assembled documents into a search backend. Every sink
// replaces an existing index of the same name.
package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/biorel-index/pkg/types"
)

// Sink bulk-loads documents into a named index.
type Sink interface {
	Load(ctx context.Context, name string, docs []types.IndexDocument) (Summary, error)
	Close() error
}

// Summary holds counts from one Load call.
type Summary struct {
	Indexed int
	Failed  int
}

// Total returns the number of documents handed to the sink.
func (s Summary) Total() int {
	return s.Indexed + s.Failed
}

// payloadText flattens a document's relation or evidence payload into the
// text searched alongside the title and abstract.
func payloadText(doc types.IndexDocument) string {
	var b strings.Builder
	write := func(parts ...string) {
		for _, p := range parts {
			if p == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(p)
		}
	}
	writePtr := func(p *string) {
		if p != nil {
			write(*p)
		}
	}

	for _, r := range doc.ActionInteractions {
		write(r.SubjectID, r.ObjectID)
		for _, attrs := range []types.Attributes{r.Subject, r.Object} {
			for _, k := range []string{"GeneSymbol", "GeneName", "ChemicalName", "DiseaseName"} {
				write(attrs[k])
			}
		}
		write(r.InteractionActions...)
		write(r.Containers...)
		write(r.Diseases...)
		write(r.Fields["Interaction"])
	}
	for _, e := range doc.PPIs {
		write(e.Rel)
		writePtr(e.Actor)
		writePtr(e.Target)
		write(e.Container, e.Text)
	}
	return b.String()
}

// New returns the sink selected by cfg. password is the Elasticsearch
// password, if any.
func New(cfg types.IndexConfig, password string, opts ...Option) (Sink, error) {
	o := newOptions(opts)
	switch cfg.Backend {
	case types.BackendSQLite, "":
		return NewSQLiteSink(cfg.DBPath, cfg.MaxResults, o.log)
	case types.BackendElasticsearch:
		return NewElasticsearchSink(ElasticsearchConfig{
			Addresses: cfg.Addresses,
			Username:  cfg.Username,
			Password:  password,
			Timeout:   cfg.Timeout,
		}, o.log)
	case types.BackendFile:
		return NewFileSink(cfg.OutputPath, o.log)
	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.Backend)
	}
}
