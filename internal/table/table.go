// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table reads delimited text tables (TSV or CSV, optionally
// gzip-compressed) into header-keyed rows. CTD-style files carry their
// header on a "# "-prefixed comment line; plain files carry it on the
// first record.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/pgzip"
)

// Option adjusts how Open parses a table.
type Option func(*options)

type options struct {
	comma rune
}

// WithComma overrides the delimiter chosen from the file extension.
func WithComma(c rune) Option {
	return func(o *options) { o.comma = c }
}

// Reader yields header-keyed rows from a delimited table.
type Reader struct {
	csv     *csv.Reader
	closers []io.Closer
	header  []string
	index   map[string]int
	pending []string
	line    int
}

// Row is one data record. Values are addressed by header name.
type Row struct {
	// Line is the 1-based record number within the data section.
	Line   int
	index  map[string]int
	header []string
	values []string
}

// OpenFile opens path for reading, decompressing it when the name ends in .gz.
func OpenFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		return f, nil
	}
	zr, err := pgzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening gzip stream %s: %w", path, err)
	}
	return &gzipFile{Reader: zr, file: f}, nil
}

type gzipFile struct {
	*pgzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	zerr := g.Reader.Close()
	ferr := g.file.Close()
	return errors.Join(zerr, ferr)
}

// CommaFor returns the delimiter implied by a file name: comma for .csv,
// tab for everything else (.tsv, .txt, .tab).
func CommaFor(path string) rune {
	name := strings.TrimSuffix(strings.ToLower(path), ".gz")
	if filepath.Ext(name) == ".csv" {
		return ','
	}
	return '\t'
}

// Open opens a table file and resolves its header.
func Open(path string, opts ...Option) (*Reader, error) {
	o := options{comma: CommaFor(path)}
	for _, opt := range opts {
		opt(&o)
	}

	rc, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(rc, o.comma)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	r.closers = append(r.closers, rc)
	return r, nil
}

// NewReader wraps src and resolves the header. Comment lines start with
// "#". A comment line with more than one field is a header candidate; the
// last candidate seen before the first record wins. Without a candidate the
// first record is the header.
func NewReader(src io.Reader, comma rune) (*Reader, error) {
	cr := csv.NewReader(src)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	r := &Reader{csv: cr}
	var candidate []string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			if candidate == nil {
				return nil, fmt.Errorf("table has no header")
			}
			r.setHeader(candidate)
			return r, nil
		}
		if err != nil {
			return nil, err
		}
		if len(rec) > 0 && strings.HasPrefix(rec[0], "#") {
			if len(rec) > 1 {
				candidate = append([]string(nil), rec...)
				candidate[0] = strings.TrimSpace(strings.TrimPrefix(rec[0], "#"))
			}
			continue
		}
		if candidate != nil {
			r.setHeader(candidate)
			r.pending = rec
			return r, nil
		}
		r.setHeader(rec)
		return r, nil
	}
}

func (r *Reader) setHeader(cols []string) {
	r.header = make([]string, len(cols))
	r.index = make(map[string]int, len(cols))
	for i, c := range cols {
		c = strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
		r.header[i] = c
		if _, dup := r.index[c]; !dup {
			r.index[c] = i
		}
	}
}

// Header returns the resolved column names.
func (r *Reader) Header() []string {
	return r.header
}

// Next returns the next data row, or io.EOF when the table is exhausted.
// Comment lines inside the data section are skipped.
func (r *Reader) Next() (Row, error) {
	for {
		var rec []string
		if r.pending != nil {
			rec, r.pending = r.pending, nil
		} else {
			var err error
			rec, err = r.csv.Read()
			if err != nil {
				return Row{}, err
			}
		}
		if len(rec) > 0 && strings.HasPrefix(rec[0], "#") {
			continue
		}
		r.line++
		return Row{Line: r.line, index: r.index, header: r.header, values: rec}, nil
	}
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	r.closers = nil
	return errors.Join(errs...)
}

// NewRow builds a row from a column->value map. It is used by callers
// that assemble rows outside a table file.
func NewRow(values map[string]string) Row {
	row := Row{index: make(map[string]int, len(values))}
	for k, v := range values {
		row.index[k] = len(row.header)
		row.header = append(row.header, k)
		row.values = append(row.values, v)
	}
	return row
}

// Get returns the trimmed value of the first alias that is present and
// non-empty, or "".
func (r Row) Get(aliases ...string) string {
	for _, a := range aliases {
		i, ok := r.index[a]
		if !ok || i >= len(r.values) {
			continue
		}
		if v := strings.TrimSpace(r.values[i]); v != "" {
			return v
		}
	}
	return ""
}

// Has reports whether the row's table has column col.
func (r Row) Has(col string) bool {
	_, ok := r.index[col]
	return ok
}

// Fields returns every non-empty column of the row except those listed in
// exclude.
func (r Row) Fields(exclude ...string) map[string]string {
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[e] = true
	}
	out := make(map[string]string)
	for i, col := range r.header {
		if skip[col] || col == "" || i >= len(r.values) {
			continue
		}
		if v := strings.TrimSpace(r.values[i]); v != "" {
			out[col] = v
		}
	}
	return out
}

// NormalizeID returns id in canonical string form. Whole numbers written
// as floats ("123.0") lose their fractional zeros; other values are only
// trimmed.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	dot := strings.IndexByte(id, '.')
	if dot <= 0 || dot == len(id)-1 {
		return id
	}
	if !allOf(id[:dot], isDigit) || !allOf(id[dot+1:], func(c byte) bool { return c == '0' }) {
		return id
	}
	return id[:dot]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func allOf(s string, fn func(byte) bool) bool {
	for i := 0; i < len(s); i++ {
		if !fn(s[i]) {
			return false
		}
	}
	return true
}

// SplitList splits a delimited multi-value cell and drops empty parts.
func SplitList(cell, sep string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
