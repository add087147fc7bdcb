// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// IndexDocument is the final joined record handed to an index sink.
// Exactly one of ActionInteractions or PPIs carries the payload.
type IndexDocument struct {
	// DocID is the publication identifier, or "<pmid>-<i>" when several
	// documents share one identifier.
	DocID string `json:"doc_id" yaml:"doc_id"`

	SHA          string       `json:"sha,omitempty" yaml:"sha,omitempty"`
	PubMedID     string       `json:"pubmed_id" yaml:"pubmed_id"`
	PMIDURL      string       `json:"pmid_url,omitempty" yaml:"pmid_url,omitempty"`
	Title        string       `json:"title,omitempty" yaml:"title,omitempty"`
	Abstract     string       `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Authors      []Author     `json:"authors" yaml:"authors"`
	AuthorsFull  []string     `json:"authors_full" yaml:"authors_full"`
	Institutions string       `json:"institutions,omitempty" yaml:"institutions,omitempty"`
	Countries    string       `json:"countries,omitempty" yaml:"countries,omitempty"`
	Journal      string       `json:"journal,omitempty" yaml:"journal,omitempty"`
	PublishTime  *PublishTime `json:"publish_time" yaml:"publish_time"`
	ESDate       *string      `json:"es_date" yaml:"es_date"`

	ActionInteractions []RelationRecord `json:"action_interactions,omitempty" yaml:"action_interactions,omitempty"`
	PPIs               []EvidenceRecord `json:"PPIs,omitempty" yaml:"PPIs,omitempty"`
}
