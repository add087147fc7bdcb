// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Author is one parsed entry of a "Last, First; Last, First" author list.
type Author struct {
	LastName  string  `json:"last_name" yaml:"last_name"`
	FirstName *string `json:"first_name" yaml:"first_name"`
}

// PublishTime is the structured form of a publication date. Either field is
// nil when the raw date did not carry it.
type PublishTime struct {
	Year  *string `json:"year" yaml:"year"`
	Month *string `json:"month" yaml:"month"`
}

// MetaRecord holds one publication's bibliographic metadata. The Raw fields
// are read from the source; the derived fields are filled by the metadata
// normalizer and are always recomputed from the Raw fields.
type MetaRecord struct {
	SHA          string `json:"sha,omitempty" yaml:"sha,omitempty"`
	PubMedID     string `json:"pubmed_id" yaml:"pubmed_id"`
	DOI          string `json:"doi,omitempty" yaml:"doi,omitempty"`
	Title        string `json:"title,omitempty" yaml:"title,omitempty"`
	Abstract     string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Journal      string `json:"journal,omitempty" yaml:"journal,omitempty"`
	Institutions string `json:"institutions,omitempty" yaml:"institutions,omitempty"`
	Countries    string `json:"countries,omitempty" yaml:"countries,omitempty"`

	// RawAuthors is the source "Last, First; Last, First" string.
	RawAuthors string `json:"raw_authors,omitempty" yaml:"raw_authors,omitempty"`

	// RawPublishTime is the source date string ("2020", "2020-05-18", "2020 May 18").
	RawPublishTime string `json:"raw_publish_time,omitempty" yaml:"raw_publish_time,omitempty"`

	// Authors is nil when RawAuthors is empty.
	Authors []Author `json:"authors" yaml:"authors"`

	// AuthorsFull holds "First Last" display names; nil when RawAuthors is empty.
	AuthorsFull []string `json:"authors_full" yaml:"authors_full"`

	// PublishTime is nil when RawPublishTime is empty.
	PublishTime *PublishTime `json:"publish_time" yaml:"publish_time"`

	// ESDate is the canonical "YYYY-MM-01" index date; nil when RawPublishTime is empty.
	ESDate *string `json:"es_date" yaml:"es_date"`
}
