// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mapping resolves gene, chemical and disease identifiers to their
// attribute records. Mappings are built from CTD vocabulary tables, persisted
// in SQLite, and loaded wholesale into memory once per run.
package mapping

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/biorel-index/internal/table"
	"github.com/pdiddy/biorel-index/pkg/types"
)

// ChemicalPrefix is the namespace prefix chemical identifiers carry in the
// chemical vocabulary but not in the relation tables.
const ChemicalPrefix = "MESH:"

// Source describes the column contract of one vocabulary table.
type Source struct {
	Kind types.EntityKind

	// BaseName is the file stem looked up in an input directory.
	BaseName string

	// KeyColumn holds the identifier.
	KeyColumn string

	// AttrColumns are copied into the attribute record.
	AttrColumns []string
}

// Sources lists the vocabulary tables in ingest order.
var Sources = []Source{
	{Kind: types.EntityGene, BaseName: "genes", KeyColumn: "GeneID", AttrColumns: []string{"GeneName", "GeneSymbol"}},
	{Kind: types.EntityChemical, BaseName: "chemicals", KeyColumn: "ChemicalID", AttrColumns: []string{"ChemicalName"}},
	{Kind: types.EntityDisease, BaseName: "diseases", KeyColumn: "DiseaseID", AttrColumns: []string{"DiseaseName"}},
}

// SourceFor returns the table contract for kind.
func SourceFor(kind types.EntityKind) (Source, error) {
	for _, s := range Sources {
		if s.Kind == kind {
			return s, nil
		}
	}
	return Source{}, fmt.Errorf("unknown entity kind %q", kind)
}

// FindSource returns the first existing vocabulary file for kind in dir,
// trying .tsv, .csv and .txt with and without .gz.
func FindSource(dir string, kind types.EntityKind) (string, error) {
	src, err := SourceFor(kind)
	if err != nil {
		return "", err
	}
	for _, ext := range []string{".tsv", ".tsv.gz", ".csv", ".csv.gz", ".txt", ".txt.gz"} {
		p := filepath.Join(dir, src.BaseName+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no %s table in %s: %w", src.BaseName, dir, os.ErrNotExist)
}

// Key normalizes an identifier for lookup in a mapping of the given kind.
// Numeric identifiers lose float formatting; chemical identifiers gain the
// MESH: prefix when it is absent.
func Key(kind types.EntityKind, id string) string {
	id = table.NormalizeID(id)
	if id == "" {
		return ""
	}
	if kind == types.EntityChemical && !strings.HasPrefix(id, ChemicalPrefix) {
		return ChemicalPrefix + id
	}
	return id
}

// Mapping is an immutable identifier -> attributes lookup.
type Mapping struct {
	kind    types.EntityKind
	entries map[string]types.Attributes
}

// New builds a mapping from entries, normalizing every key.
func New(kind types.EntityKind, entries map[string]types.Attributes) Mapping {
	m := Mapping{kind: kind, entries: make(map[string]types.Attributes, len(entries))}
	for k, v := range entries {
		if key := Key(kind, k); key != "" {
			m.entries[key] = v
		}
	}
	return m
}

// Kind returns the entity kind the mapping resolves.
func (m Mapping) Kind() types.EntityKind { return m.kind }

// Len returns the number of entries.
func (m Mapping) Len() int { return len(m.entries) }

// Get resolves id. It never fails; a miss returns nil, false.
func (m Mapping) Get(id string) (types.Attributes, bool) {
	key := Key(m.kind, id)
	if key == "" {
		return nil, false
	}
	attrs, ok := m.entries[key]
	return attrs, ok
}

// GetOr resolves id, returning def on a miss.
func (m Mapping) GetOr(id string, def types.Attributes) types.Attributes {
	if attrs, ok := m.Get(id); ok {
		return attrs
	}
	return def
}

// FromTable reads a vocabulary table into a mapping without persisting it.
// Vocabulary tables are tab-delimited whatever their extension.
func FromTable(kind types.EntityKind, path string) (Mapping, error) {
	entries := make(map[string]types.Attributes)
	err := readSource(kind, path, func(key string, attrs types.Attributes) error {
		entries[key] = attrs
		return nil
	})
	if err != nil {
		return Mapping{}, err
	}
	return New(kind, entries), nil
}

func readSource(kind types.EntityKind, path string, fn func(string, types.Attributes) error) error {
	src, err := SourceFor(kind)
	if err != nil {
		return err
	}
	r, err := table.Open(path, table.WithComma('\t'))
	if err != nil {
		return fmt.Errorf("opening %s table: %w", kind, err)
	}
	defer r.Close()

	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading %s table %s: %w", kind, path, err)
		}
		key := Key(kind, row.Get(src.KeyColumn))
		if key == "" {
			continue
		}
		attrs := make(types.Attributes, len(src.AttrColumns))
		for _, col := range src.AttrColumns {
			attrs[col] = row.Get(col)
		}
		if err := fn(key, attrs); err != nil {
			return err
		}
	}
}
