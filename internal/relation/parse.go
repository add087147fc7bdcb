// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relation

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/pdiddy/biorel-index/internal/table"
	"github.com/pdiddy/biorel-index/pkg/types"
)

// Summary counts what ParseTable did with each row.
type Summary struct {
	// Rows is the number of data rows read.
	Rows int

	// Parsed rows produced a record with at least one identifier.
	Parsed int

	// Gated rows had every identifier rejected by the gate.
	Gated int

	// NoPMID rows carried no publication identifier.
	NoPMID int

	// Records is the number of aggregate entries after fan-out.
	Records int
}

// ParseOptions controls logging during ParseTable.
type ParseOptions struct {
	Log *zap.Logger

	// ProgressEvery logs progress after this many rows. Zero disables it.
	ProgressEvery int
}

// ParseTable parses every row of r and fans each record out to all of its
// publication identifiers. A vocabulary error aborts the parse.
func ParseTable(ctx context.Context, p Parser, r *table.Reader, opts ParseOptions) (*types.Aggregate[types.RelationRecord], Summary, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("kind", string(p.Kind())))

	agg := types.NewAggregate[types.RelationRecord]()
	var s Summary

	for {
		if err := ctx.Err(); err != nil {
			return nil, s, err
		}
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, s, fmt.Errorf("reading row %d: %w", s.Rows+1, err)
		}
		s.Rows++

		hasIDs := len(table.SplitList(row.Get(ColPubMedIDs, ColPMIDs), listSep)) > 0
		rec, pmids, err := p.Parse(row)
		if err != nil {
			return nil, s, fmt.Errorf("parsing row %d: %w", row.Line, err)
		}
		switch {
		case !hasIDs:
			s.NoPMID++
		case len(pmids) == 0:
			s.Gated++
		default:
			s.Parsed++
			for _, pmid := range pmids {
				agg.Add(pmid, rec)
				s.Records++
			}
		}

		if opts.ProgressEvery > 0 && s.Rows%opts.ProgressEvery == 0 {
			log.Info("parsing relations", zap.Int("rows", s.Rows), zap.Int("records", s.Records))
		}
	}

	log.Info("relations parsed",
		zap.Int("rows", s.Rows),
		zap.Int("parsed", s.Parsed),
		zap.Int("gated", s.Gated),
		zap.Int("no_pmid", s.NoPMID),
		zap.Int("records", s.Records),
		zap.Int("publications", agg.Len()))
	return agg, s, nil
}
