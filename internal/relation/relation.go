// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relation parses CTD relation tables (chemical-gene interactions,
// gene-disease and chemical-disease associations) into normalized
// RelationRecords attributed to their publication identifiers.
//
// Identifiers are resolved through injected mappings and never fail. Action
// verbs and process names go through the closed tables in package vocab; a
// miss there aborts the parse with the raw value named.
package relation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/biorel-index/internal/mapping"
	"github.com/pdiddy/biorel-index/internal/table"
	"github.com/pdiddy/biorel-index/internal/vocab"
	"github.com/pdiddy/biorel-index/pkg/types"
)

// Column names shared by the CTD relation tables.
const (
	ColChemicalName       = "ChemicalName"
	ColChemicalID         = "ChemicalID"
	ColGeneSymbol         = "GeneSymbol"
	ColGeneID             = "GeneID"
	ColDiseaseName        = "DiseaseName"
	ColDiseaseID          = "DiseaseID"
	ColInteractionActions = "InteractionActions"
	ColPubMedIDs          = "PubMedIDs"
	ColPMIDs              = "pmids"
)

const (
	listSep = "|"
	pairSep = "^"
)

// ErrMalformedPair is returned for an action cell entry without a "^".
var ErrMalformedPair = errors.New("malformed interaction action pair")

// Parser turns one table row into a RelationRecord and the publication
// identifiers it is evidenced by. An empty identifier list means the row is
// out of scope.
type Parser interface {
	Kind() types.RelationKind
	Parse(row table.Row) (types.RelationRecord, []string, error)
}

// Options carries the parser's injected dependencies. Zero-valued mappings
// resolve nothing; a nil GeneDiseases disables cross-linking and a nil Gate
// admits every identifier.
type Options struct {
	Genes     mapping.Mapping
	Chemicals mapping.Mapping
	Diseases  mapping.Mapping

	GeneDiseases GeneDiseaseIndex
	Gate         *Gate
}

// ParseKind maps a CLI or config spelling ("chem-gene", "chem_gene") to a
// relation kind.
func ParseKind(s string) (types.RelationKind, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case string(types.RelationChemGene):
		return types.RelationChemGene, nil
	case string(types.RelationGeneDisease):
		return types.RelationGeneDisease, nil
	case string(types.RelationChemDisease), "chem_dise", "dise_chem":
		return types.RelationChemDisease, nil
	}
	return "", fmt.Errorf("unknown relation kind %q", s)
}

// New returns the parser for kind.
func New(kind types.RelationKind, opts Options) (Parser, error) {
	switch kind {
	case types.RelationChemGene:
		return &chemGene{opts: opts}, nil
	case types.RelationGeneDisease:
		return &geneDisease{opts: opts}, nil
	case types.RelationChemDisease:
		return &chemDisease{opts: opts}, nil
	}
	return nil, fmt.Errorf("no parser for relation kind %q", kind)
}

// chemGene parses chem_gene_ixns rows. The gene is the subject so that
// container labels read "<symbol><gene> <noun>".
type chemGene struct{ opts Options }

func (p *chemGene) Kind() types.RelationKind { return types.RelationChemGene }

func (p *chemGene) Parse(row table.Row) (types.RelationRecord, []string, error) {
	pmids, ok := publications(row, p.opts.Gate)
	if !ok {
		return types.RelationRecord{}, nil, nil
	}

	geneID := table.NormalizeID(row.Get(ColGeneID))
	gene, _ := p.opts.Genes.Get(geneID)
	chemID := row.Get(ColChemicalID)
	chem, _ := p.opts.Chemicals.Get(chemID)

	rec := types.RelationRecord{
		Kind:      types.RelationChemGene,
		SubjectID: geneID,
		Subject:   gene,
		ObjectID:  chemID,
		Object:    chem,
		Diseases:  p.opts.GeneDiseases.Lookup(geneID),
		Fields:    row.Fields(ColGeneID, ColChemicalID, ColInteractionActions, ColPubMedIDs, ColPMIDs),
	}

	display := displayName(gene, "GeneSymbol", row.Get(ColGeneSymbol), geneID)
	if err := parseActions(&rec, row.Get(ColInteractionActions), display); err != nil {
		return types.RelationRecord{}, nil, err
	}
	return rec, pmids, nil
}

// geneDisease parses genes_diseases rows.
type geneDisease struct{ opts Options }

func (p *geneDisease) Kind() types.RelationKind { return types.RelationGeneDisease }

func (p *geneDisease) Parse(row table.Row) (types.RelationRecord, []string, error) {
	pmids, ok := publications(row, p.opts.Gate)
	if !ok {
		return types.RelationRecord{}, nil, nil
	}

	geneID := table.NormalizeID(row.Get(ColGeneID))
	gene, _ := p.opts.Genes.Get(geneID)
	disID := row.Get(ColDiseaseID)
	dis, _ := p.opts.Diseases.Get(disID)

	rec := types.RelationRecord{
		Kind:      types.RelationGeneDisease,
		SubjectID: geneID,
		Subject:   gene,
		ObjectID:  disID,
		Object:    dis,
		Diseases:  p.opts.GeneDiseases.Lookup(geneID),
		Fields:    row.Fields(ColGeneID, ColDiseaseID, ColInteractionActions, ColPubMedIDs, ColPMIDs),
	}

	display := displayName(gene, "GeneSymbol", row.Get(ColGeneSymbol), geneID)
	if err := parseActions(&rec, row.Get(ColInteractionActions), display); err != nil {
		return types.RelationRecord{}, nil, err
	}
	return rec, pmids, nil
}

// chemDisease parses chemicals_diseases rows.
type chemDisease struct{ opts Options }

func (p *chemDisease) Kind() types.RelationKind { return types.RelationChemDisease }

func (p *chemDisease) Parse(row table.Row) (types.RelationRecord, []string, error) {
	pmids, ok := publications(row, p.opts.Gate)
	if !ok {
		return types.RelationRecord{}, nil, nil
	}

	chemID := row.Get(ColChemicalID)
	chem, _ := p.opts.Chemicals.Get(chemID)
	disID := row.Get(ColDiseaseID)
	dis, _ := p.opts.Diseases.Get(disID)

	rec := types.RelationRecord{
		Kind:      types.RelationChemDisease,
		SubjectID: chemID,
		Subject:   chem,
		ObjectID:  disID,
		Object:    dis,
		Fields:    row.Fields(ColChemicalID, ColDiseaseID, ColInteractionActions, ColPubMedIDs, ColPMIDs),
	}

	display := displayName(chem, "ChemicalName", row.Get(ColChemicalName), chemID)
	if err := parseActions(&rec, row.Get(ColInteractionActions), display); err != nil {
		return types.RelationRecord{}, nil, err
	}
	return rec, pmids, nil
}

// publications returns the row's identifiers after gating. ok is false when
// the gate rejected every identifier.
func publications(row table.Row, gate *Gate) ([]string, bool) {
	raw := table.SplitList(row.Get(ColPubMedIDs, ColPMIDs), listSep)
	ids := make([]string, len(raw))
	for i, id := range raw {
		ids[i] = table.NormalizeID(id)
	}
	if gate == nil {
		return ids, true
	}
	kept := gate.Filter(ids)
	return kept, len(kept) > 0
}

// parseActions fills InteractionActions and Containers from a
// "verb^process|verb^process" cell.
func parseActions(rec *types.RelationRecord, cell, display string) error {
	pairs := table.SplitList(cell, listSep)
	if len(pairs) == 0 {
		return nil
	}
	rec.InteractionActions = make([]string, 0, len(pairs))
	rec.Containers = make([]string, 0, len(pairs))
	for _, pair := range pairs {
		verb, process, ok := strings.Cut(pair, pairSep)
		if !ok {
			return fmt.Errorf("%w: %q", ErrMalformedPair, pair)
		}
		symbol, err := vocab.ActionSymbol(verb)
		if err != nil {
			return err
		}
		noun, err := vocab.ProcessNoun(process)
		if err != nil {
			return err
		}
		rec.InteractionActions = append(rec.InteractionActions, symbol+" "+process)
		rec.Containers = append(rec.Containers, symbol+display+" "+noun)
	}
	return nil
}

// displayName picks the label used in container strings: the mapped
// attribute, then the row's own name column, then the identifier.
func displayName(attrs types.Attributes, attr, rowValue, id string) string {
	if v := attrs[attr]; v != "" {
		return v
	}
	if rowValue != "" {
		return rowValue
	}
	return id
}
