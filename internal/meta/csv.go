// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package meta

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"

	"go.uber.org/zap"

	"github.com/pdiddy/biorel-index/internal/table"
	"github.com/pdiddy/biorel-index/pkg/types"
)

// Metadata CSV columns read into a MetaRecord.
const (
	ColSHA          = "sha"
	ColPubMedID     = "pubmed_id"
	ColDOI          = "doi"
	ColTitle        = "title"
	ColAbstract     = "abstract"
	ColJournal      = "journal"
	ColInstitutions = "institutions"
	ColCountries    = "countries"
	ColAuthors      = "authors"
	ColPublishTime  = "publish_time"
)

var setters = map[string]func(*types.MetaRecord, string){
	ColSHA:          func(m *types.MetaRecord, v string) { m.SHA = v },
	ColPubMedID:     func(m *types.MetaRecord, v string) { m.PubMedID = table.NormalizeID(v) },
	ColDOI:          func(m *types.MetaRecord, v string) { m.DOI = v },
	ColTitle:        func(m *types.MetaRecord, v string) { m.Title = v },
	ColAbstract:     func(m *types.MetaRecord, v string) { m.Abstract = v },
	ColJournal:      func(m *types.MetaRecord, v string) { m.Journal = v },
	ColInstitutions: func(m *types.MetaRecord, v string) { m.Institutions = v },
	ColCountries:    func(m *types.MetaRecord, v string) { m.Countries = v },
	ColAuthors:      func(m *types.MetaRecord, v string) { m.RawAuthors = v },
	ColPublishTime:  func(m *types.MetaRecord, v string) { m.RawPublishTime = v },
}

// Options selects which metadata rows and columns are kept.
type Options struct {
	// Fields restricts the kept columns. Empty keeps all of them.
	Fields []string

	// AllowEmpty keeps rows that lack pubmed_id or sha.
	AllowEmpty bool

	Log *zap.Logger
}

// Stats counts rows seen by LoadCSV and Subset.
type Stats struct {
	Rows    int
	Kept    int
	Dropped int
}

// keep resolves the requested fields against the header. Unknown fields
// are logged and ignored.
func (o Options) keep(header []string, log *zap.Logger) []string {
	if len(o.Fields) == 0 {
		return header
	}
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	var fields, ignored []string
	for _, f := range o.Fields {
		if present[f] {
			fields = append(fields, f)
		} else {
			ignored = append(ignored, f)
		}
	}
	if len(ignored) > 0 {
		log.Warn("ignoring unknown metadata fields", zap.Strings("fields", ignored))
	}
	return fields
}

func (o Options) logger() *zap.Logger {
	if o.Log == nil {
		return zap.NewNop()
	}
	return o.Log
}

// withJoinKey adds pubmed_id to fields when the header has it, since
// records are indexed by it.
func withJoinKey(fields, header []string) []string {
	if slices.Contains(fields, ColPubMedID) || !slices.Contains(header, ColPubMedID) {
		return fields
	}
	return append(slices.Clone(fields), ColPubMedID)
}

// traceable reports whether the row can be traced back to its paper.
func traceable(row table.Row) bool {
	return row.Get(ColPubMedID) != "" && row.Get(ColSHA) != ""
}

// LoadCSV reads metadata records from a CSV stream. pubmed_id is always
// read, whatever Fields says. Derived fields are not filled; see Normalize.
func LoadCSV(r io.Reader, opts Options) ([]types.MetaRecord, Stats, error) {
	log := opts.logger()
	tr, err := table.NewReader(r, ',')
	if err != nil {
		return nil, Stats{}, fmt.Errorf("reading metadata header: %w", err)
	}
	fields := withJoinKey(opts.keep(tr.Header(), log), tr.Header())

	var out []types.MetaRecord
	var st Stats
	for {
		row, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, st, fmt.Errorf("reading metadata row %d: %w", st.Rows+1, err)
		}
		st.Rows++
		if !opts.AllowEmpty && !traceable(row) {
			st.Dropped++
			continue
		}
		var rec types.MetaRecord
		for _, f := range fields {
			if set, ok := setters[f]; ok {
				set(&rec, row.Get(f))
			}
		}
		out = append(out, rec)
		st.Kept++
	}

	log.Info("metadata loaded", zap.Int("rows", st.Rows), zap.Int("kept", st.Kept), zap.Int("dropped", st.Dropped))
	return out, st, nil
}

// Subset copies the requested columns of a metadata CSV to w, dropping
// untraceable rows unless AllowEmpty is set.
func Subset(r io.Reader, w io.Writer, opts Options) (Stats, error) {
	log := opts.logger()
	tr, err := table.NewReader(r, ',')
	if err != nil {
		return Stats{}, fmt.Errorf("reading metadata header: %w", err)
	}
	fields := opts.keep(tr.Header(), log)

	cw := csv.NewWriter(w)
	if err := cw.Write(fields); err != nil {
		return Stats{}, fmt.Errorf("writing header: %w", err)
	}

	var st Stats
	record := make([]string, len(fields))
	for {
		row, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return st, fmt.Errorf("reading metadata row %d: %w", st.Rows+1, err)
		}
		st.Rows++
		if !opts.AllowEmpty && !traceable(row) {
			st.Dropped++
			continue
		}
		for i, f := range fields {
			record[i] = row.Get(f)
		}
		if err := cw.Write(record); err != nil {
			return st, fmt.Errorf("writing row: %w", err)
		}
		st.Kept++
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return st, fmt.Errorf("flushing output: %w", err)
	}

	log.Info("metadata subset written", zap.Int("rows", st.Rows), zap.Int("kept", st.Kept), zap.Int("dropped", st.Dropped))
	return st, nil
}

// Index holds metadata records keyed by publication identifier.
type Index map[string]types.MetaRecord

// NewIndex keys records by PubMedID. Later records replace earlier ones;
// records without an identifier are not indexed.
func NewIndex(records []types.MetaRecord) Index {
	idx := make(Index, len(records))
	for _, r := range records {
		if r.PubMedID != "" {
			idx[r.PubMedID] = r
		}
	}
	return idx
}

// Lookup returns a copy of the record for pmid.
func (idx Index) Lookup(pmid string) (types.MetaRecord, bool) {
	r, ok := idx[pmid]
	return r, ok
}

// Load reads a metadata CSV file (optionally gzip-compressed) into an index.
func Load(path string, opts Options) (Index, error) {
	rc, err := table.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	records, _, err := LoadCSV(rc, opts)
	if err != nil {
		return nil, fmt.Errorf("loading metadata %s: %w", path, err)
	}
	return NewIndex(records), nil
}
