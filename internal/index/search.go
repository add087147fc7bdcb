// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/biorel-index/pkg/types"
)

// QueryOptions holds parameters for index queries.
type QueryOptions struct {
	// Index restricts results to one loaded index.
	Index string

	// Query is the FTS5 full-text search string.
	Query string

	// Journal filters by exact journal name.
	Journal string

	// From and To bound es_date inclusively ("YYYY-MM-DD").
	From string
	To   string

	// MaxResults limits result count. Zero uses the sink default.
	MaxResults int
}

// Result is one matched document.
type Result struct {
	Index    string              `json:"index" yaml:"index"`
	Rank     float64             `json:"rank" yaml:"rank"`
	Document types.IndexDocument `json:"document" yaml:"document"`
}

// Search queries the index with optional full-text search and filters.
// Full-text results are ranked by relevance; filter-only results are
// sorted by index, date and doc id.
func (s *SQLiteSink) Search(ctx context.Context, opts QueryOptions) ([]Result, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT d.index_name, d.doc, documents_fts.rank
			FROM documents_fts
			JOIN documents d ON d.rowid = documents_fts.rowid
			WHERE documents_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT d.index_name, d.doc, 0 AS rank
			FROM documents d
			WHERE 1=1`)
	}

	if opts.Index != "" {
		qb.WriteString(` AND d.index_name = ?`)
		args = append(args, opts.Index)
	}
	if opts.Journal != "" {
		qb.WriteString(` AND d.journal = ?`)
		args = append(args, opts.Journal)
	}
	if opts.From != "" {
		qb.WriteString(` AND d.es_date >= ?`)
		args = append(args, opts.From)
	}
	if opts.To != "" {
		qb.WriteString(` AND d.es_date <= ?`)
		args = append(args, opts.To)
	}

	if useFTS {
		qb.WriteString(` ORDER BY documents_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY d.index_name, d.es_date, d.doc_id`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r   Result
			doc string
		)
		if err := rows.Scan(&r.Index, &doc, &r.Rank); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal([]byte(doc), &r.Document); err != nil {
			return nil, fmt.Errorf("decoding document: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
