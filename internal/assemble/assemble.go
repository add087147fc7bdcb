// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble joins relation or evidence payloads with bibliographic
// metadata into index documents.
package assemble

import (
	"fmt"

	"github.com/pdiddy/biorel-index/internal/meta"
	"github.com/pdiddy/biorel-index/pkg/types"
)

// MetaLookup resolves a publication identifier to its metadata record.
type MetaLookup interface {
	Lookup(pmid string) (types.MetaRecord, bool)
}

// shell returns a normalized copy of the metadata for pmid, or an empty
// record carrying only the identifier.
func shell(metas MetaLookup, pmid string) types.MetaRecord {
	rec := types.MetaRecord{PubMedID: pmid}
	if metas != nil {
		if found, ok := metas.Lookup(pmid); ok {
			rec = found
			rec.PubMedID = pmid
		}
	}
	meta.Normalize(&rec)
	return rec
}

func document(docID string, m types.MetaRecord) types.IndexDocument {
	return types.IndexDocument{
		DocID:        docID,
		SHA:          m.SHA,
		PubMedID:     m.PubMedID,
		Title:        m.Title,
		Abstract:     m.Abstract,
		Authors:      m.Authors,
		AuthorsFull:  m.AuthorsFull,
		Institutions: m.Institutions,
		Countries:    m.Countries,
		Journal:      m.Journal,
		PublishTime:  m.PublishTime,
		ESDate:       m.ESDate,
	}
}

// Relations emits one document per publication carrying its relation records.
func Relations(agg *types.Aggregate[types.RelationRecord], metas MetaLookup) []types.IndexDocument {
	docs := make([]types.IndexDocument, 0, agg.Len())
	for _, pmid := range agg.Keys() {
		doc := document(pmid, shell(metas, pmid))
		doc.ActionInteractions = agg.Get(pmid)
		docs = append(docs, doc)
	}
	return docs
}

// PPIs emits one document per publication carrying all of its evidence.
// The document URL is taken from the first evidence item.
func PPIs(agg *types.Aggregate[types.EvidenceRecord], metas MetaLookup) []types.IndexDocument {
	docs := make([]types.IndexDocument, 0, agg.Len())
	for _, pmid := range agg.Keys() {
		entries := agg.Get(pmid)
		doc := document(pmid, shell(metas, pmid))
		doc.PPIs = entries
		if len(entries) > 0 {
			doc.PMIDURL = entries[0].PMIDURL
		}
		docs = append(docs, doc)
	}
	return docs
}

// PPIsSplit emits one document per evidence item with id "<pmid>-<i>",
// where i counts items within the publication.
func PPIsSplit(agg *types.Aggregate[types.EvidenceRecord], metas MetaLookup) []types.IndexDocument {
	docs := make([]types.IndexDocument, 0, agg.Count())
	for _, pmid := range agg.Keys() {
		for i, e := range agg.Get(pmid) {
			doc := document(fmt.Sprintf("%s-%d", pmid, i), shell(metas, pmid))
			doc.PPIs = []types.EvidenceRecord{e}
			doc.PMIDURL = e.PMIDURL
			docs = append(docs, doc)
		}
	}
	return docs
}
