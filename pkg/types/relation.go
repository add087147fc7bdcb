// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the biorel-index pipeline:
// normalized relation rows, PPI evidence records, publication aggregates,
// bibliographic metadata, and the documents handed to an index sink.
package types

// Attributes is the attribute record stored for one mapping key, for example
// {"GeneName": "tumor protein p53", "GeneSymbol": "TP53"}.
type Attributes map[string]string

// EntityKind identifies which mapping an identifier resolves against.
type EntityKind string

const (
	EntityGene     EntityKind = "gene"
	EntityChemical EntityKind = "chemical"
	EntityDisease  EntityKind = "disease"
)

// RelationKind identifies the relation table a RelationRecord came from.
type RelationKind string

const (
	RelationChemGene    RelationKind = "chem_gene"
	RelationGeneDisease RelationKind = "gene_disease"
	RelationChemDisease RelationKind = "chem_disease"
)

// RelationRecord is one normalized row of a curated relation table.
// Unresolved identifiers leave Subject or Object nil; resolution never fails.
type RelationRecord struct {
	// Kind names the source relation table.
	Kind RelationKind `json:"kind" yaml:"kind"`

	// SubjectID is the identifier of the acting entity (the gene for
	// chemical-gene and gene-disease rows, the chemical for chemical-disease rows).
	SubjectID string `json:"subject_id" yaml:"subject_id"`

	// Subject is the resolved mapping record for SubjectID, or nil.
	Subject Attributes `json:"subject" yaml:"subject"`

	// ObjectID is the identifier of the other entity in the row.
	ObjectID string `json:"object_id" yaml:"object_id"`

	// Object is the resolved mapping record for ObjectID, or nil.
	Object Attributes `json:"object" yaml:"object"`

	// InteractionActions holds one "<symbol> <effect>" entry per action pair,
	// in source order (e.g. "++ activity").
	InteractionActions []string `json:"interaction_actions,omitempty" yaml:"interaction_actions,omitempty"`

	// Containers holds one derived container label per action pair
	// (e.g. "++TP53 Activator").
	Containers []string `json:"containers,omitempty" yaml:"containers,omitempty"`

	// Diseases lists diseases known for the row's gene when a gene-disease
	// cross-link is configured. Nil when absent.
	Diseases []string `json:"diseases,omitempty" yaml:"diseases,omitempty"`

	// Fields carries the remaining raw columns of the row (Interaction,
	// Organism, DirectEvidence, InferenceScore, ...).
	Fields map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
}
