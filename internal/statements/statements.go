// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package statements turns causal protein-interaction statements into
// EvidenceRecords, either one per evidence item or one per statement and
// publication.
package statements

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/biorel-index/internal/ner"
	"github.com/pdiddy/biorel-index/internal/vocab"
	"github.com/pdiddy/biorel-index/pkg/types"
)

// PubMedURLPrefix is joined with a PMID to form the publication URL.
const PubMedURLPrefix = "https://www.ncbi.nlm.nih.gov/pubmed/"

// Classify returns the meta-category of a relation type. An unknown type
// is a *vocab.Error.
func Classify(relType string) (types.MetaCategory, error) {
	return vocab.MetaCategory(relType)
}

// DeriveContainer names the role an actor plays in a relation with a naive
// suffix rule: "...tion" becomes "...tor" and "...Amount" becomes "...er".
// Other names pass through. The rule is morphological, not a dictionary, so
// it can produce non-words (IncreaseAmount -> IncreaseAmer).
func DeriveContainer(relType string) string {
	switch {
	case strings.HasSuffix(relType, "tion"):
		return strings.TrimSuffix(relType, "ion") + "or"
	case strings.HasSuffix(relType, "Amount"):
		return strings.TrimSuffix(relType, "ount") + "er"
	}
	return relType
}

// PMIDURL returns the PubMed URL for pmid, or "" for the unknown sentinel.
func PMIDURL(pmid string) string {
	if pmid == "" || pmid == types.UnknownPMID {
		return ""
	}
	return PubMedURLPrefix + pmid
}

// Summary counts the work done by one extraction pass.
type Summary struct {
	Statements int
	Evidence   int
	Records    int

	// Recognitions is the number of recognizer calls made.
	Recognitions int
}

// Extractor builds EvidenceRecords with an injected entity recognizer.
type Extractor struct {
	rec ner.Recognizer
	log *zap.Logger

	// ProgressEvery logs progress after this many statements. Zero
	// disables it.
	ProgressEvery int

	calls int
}

// NewExtractor returns an extractor using rec. A nil rec recognizes
// nothing and a nil log discards output.
func NewExtractor(rec ner.Recognizer, log *zap.Logger) *Extractor {
	if rec == nil {
		rec = ner.Noop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{rec: rec, log: log}
}

// ExtractEntities groups the entity spans in text by label. Empty text
// returns an empty grouping without calling the recognizer.
func (e *Extractor) ExtractEntities(text string) (map[string][]string, error) {
	if strings.TrimSpace(text) == "" {
		return map[string][]string{}, nil
	}
	e.calls++
	spans, err := e.rec.Recognize(text)
	if err != nil {
		return nil, fmt.Errorf("recognizing entities: %w", err)
	}
	if spans == nil {
		spans = map[string][]string{}
	}
	return spans, nil
}

// base builds the statement-level part of a record. Role keys follow from
// the meta-category alone, so every evidence item of the statement shares
// them.
func base(st types.Statement) (types.EvidenceRecord, error) {
	meta, err := Classify(st.Type)
	if err != nil {
		return types.EvidenceRecord{}, err
	}
	ents := st.AgentNames()
	rec := types.EvidenceRecord{
		Rel:      st.Type,
		MetaRel:  meta,
		Entities: ents,
	}
	if len(ents) > 0 {
		rec.Actor = ents[0]
	}
	if len(ents) == 2 {
		rec.Target = ents[1]
		if rec.Target != nil {
			rec.Container = DeriveContainer(st.Type) + "-" + *rec.Target
		}
	}
	return rec, nil
}

func normalizePMID(pmid string) string {
	pmid = strings.TrimSpace(pmid)
	if pmid == "" {
		return types.UnknownPMID
	}
	return pmid
}

// Stream emits one record per (statement, evidence) pair, each with its
// own publication identifier and its own entity pass.
func (e *Extractor) Stream(stmts []types.Statement, fn func(pmid string, rec types.EvidenceRecord) error) (Summary, error) {
	start := e.calls
	var s Summary
	for i, st := range stmts {
		rec, err := base(st)
		if err != nil {
			return s, fmt.Errorf("statement %d: %w", i, err)
		}
		s.Statements++
		for _, ev := range st.Evidence {
			s.Evidence++
			out := rec
			out.PMID = normalizePMID(ev.PMID)
			out.PMIDURL = PMIDURL(out.PMID)
			out.Text = ev.Text
			if out.NER, err = e.ExtractEntities(ev.Text); err != nil {
				return s, fmt.Errorf("statement %d: %w", i, err)
			}
			if err := fn(out.PMID, out); err != nil {
				return s, err
			}
			s.Records++
		}
		e.progress(s)
	}
	s.Recognitions = e.calls - start
	e.done("stream", s)
	return s, nil
}

// Split collects Stream output into an aggregate keyed by publication.
func (e *Extractor) Split(stmts []types.Statement) (*types.Aggregate[types.EvidenceRecord], Summary, error) {
	agg := types.NewAggregate[types.EvidenceRecord]()
	s, err := e.Stream(stmts, func(pmid string, rec types.EvidenceRecord) error {
		agg.Add(pmid, rec)
		return nil
	})
	if err != nil {
		return nil, s, err
	}
	return agg, s, nil
}

// Aggregate emits one record per (statement, publication). Evidence texts
// of a statement that share a publication are joined with a single space
// and the recognizer runs once over the joined text.
func (e *Extractor) Aggregate(stmts []types.Statement) (*types.Aggregate[types.EvidenceRecord], Summary, error) {
	start := e.calls
	agg := types.NewAggregate[types.EvidenceRecord]()
	var s Summary
	for i, st := range stmts {
		rec, err := base(st)
		if err != nil {
			return nil, s, fmt.Errorf("statement %d: %w", i, err)
		}
		s.Statements++

		var order []string
		texts := make(map[string][]string)
		for _, ev := range st.Evidence {
			s.Evidence++
			pmid := normalizePMID(ev.PMID)
			if _, ok := texts[pmid]; !ok {
				order = append(order, pmid)
				texts[pmid] = nil
			}
			if t := strings.TrimSpace(ev.Text); t != "" {
				texts[pmid] = append(texts[pmid], t)
			}
		}

		for _, pmid := range order {
			out := rec
			out.PMID = pmid
			out.PMIDURL = PMIDURL(pmid)
			out.Text = strings.Join(texts[pmid], " ")
			if out.NER, err = e.ExtractEntities(out.Text); err != nil {
				return nil, s, fmt.Errorf("statement %d: %w", i, err)
			}
			agg.Add(pmid, out)
			s.Records++
		}
		e.progress(s)
	}
	s.Recognitions = e.calls - start
	e.done("aggregate", s)
	return agg, s, nil
}

func (e *Extractor) progress(s Summary) {
	if e.ProgressEvery > 0 && s.Statements%e.ProgressEvery == 0 {
		e.log.Info("extracting evidence", zap.Int("statements", s.Statements), zap.Int("records", s.Records))
	}
}

func (e *Extractor) done(mode string, s Summary) {
	e.log.Info("evidence extracted",
		zap.String("mode", mode),
		zap.Int("statements", s.Statements),
		zap.Int("evidence", s.Evidence),
		zap.Int("records", s.Records),
		zap.Int("recognitions", s.Recognitions))
}
