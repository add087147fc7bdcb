// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
)

// UnknownPMID is the publication identifier assigned to evidence that lacks one.
const UnknownPMID = "UNK_PMID"

// MetaCategory is the coarse class of a statement's relation type. It decides
// which role keys label the two entities of an EvidenceRecord.
type MetaCategory string

const (
	Modification     MetaCategory = "Modification"
	RegulateActivity MetaCategory = "RegulateActivity"
	Other            MetaCategory = "Other"
)

// RoleKeys returns the serialized keys for the actor and target of a record
// in the given category: enz/sub, subj/obj, or ent1/ent2.
func RoleKeys(m MetaCategory) (actorKey, targetKey string) {
	switch m {
	case Modification:
		return "enz", "sub"
	case RegulateActivity:
		return "subj", "obj"
	default:
		return "ent1", "ent2"
	}
}

// Agent is one participant of a causal statement.
type Agent struct {
	Name   string            `json:"name" yaml:"name"`
	DBRefs map[string]string `json:"db_refs,omitempty" yaml:"db_refs,omitempty"`
}

// Evidence is one supporting sentence or passage for a statement.
type Evidence struct {
	PMID      string `json:"pmid,omitempty" yaml:"pmid,omitempty"`
	Text      string `json:"text,omitempty" yaml:"text,omitempty"`
	SourceAPI string `json:"source_api,omitempty" yaml:"source_api,omitempty"`
}

// Statement is a structured causal statement parsed upstream. Agents keeps
// the statement's agent order; a nil entry marks an unnamed participant.
type Statement struct {
	Type     string     `json:"type" yaml:"type"`
	Agents   []*Agent   `json:"agents" yaml:"agents"`
	Evidence []Evidence `json:"evidence" yaml:"evidence"`
}

// AgentNames returns the statement's agent names with nil for missing agents.
func (s Statement) AgentNames() []*string {
	names := make([]*string, len(s.Agents))
	for i, a := range s.Agents {
		if a != nil {
			name := a.Name
			names[i] = &name
		}
	}
	return names
}

// Inference holds the first-order facts attached to an EvidenceRecord by the
// inference annotate pass. A nil slice means the lookup missed.
type Inference struct {
	RelByProteins     []string `json:"rel_by_proteins"`
	OppoRelByProteins []string `json:"oppo_rel_by_proteins"`
	TargetContainer   []string `json:"target_container"`
}

// EvidenceRecord is one protein-interaction evidence item attributed to a
// publication. Actor and Target are serialized under the role keys chosen by
// MetaRel (see RoleKeys), never by which fields happen to be set.
type EvidenceRecord struct {
	Rel       string
	MetaRel   MetaCategory
	Actor     *string
	Target    *string
	Entities  []*string
	Container string
	Text      string
	NER       map[string][]string
	PMID      string
	PMIDURL   string

	// Inference is nil until the record has been annotated.
	Inference *Inference
}

// StrPtr returns a pointer to s, for building records in code and tests.
func StrPtr(s string) *string { return &s }

func (r EvidenceRecord) fields() map[string]any {
	actorKey, targetKey := RoleKeys(r.MetaRel)
	ner := r.NER
	if ner == nil {
		ner = map[string][]string{}
	}
	ents := r.Entities
	if ents == nil {
		ents = []*string{}
	}
	m := map[string]any{
		"rel":      r.Rel,
		"meta_rel": string(r.MetaRel),
		actorKey:   r.Actor,
		targetKey:  r.Target,
		"ents":     ents,
		"text":     r.Text,
		"ner":      ner,
		"pmid":     r.PMID,
		"pmid_url": r.PMIDURL,
	}
	if r.Container != "" {
		m["container"] = r.Container
	}
	if r.Inference != nil {
		m["rel_by_proteins"] = r.Inference.RelByProteins
		m["oppo_rel_by_proteins"] = r.Inference.OppoRelByProteins
		m["target_container"] = r.Inference.TargetContainer
	}
	return m
}

// MarshalJSON writes the record with its role-labeled entity keys.
func (r EvidenceRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.fields())
}

// MarshalYAML writes the same field layout as MarshalJSON.
func (r EvidenceRecord) MarshalYAML() (any, error) {
	return r.fields(), nil
}

// UnmarshalJSON reads a record written by MarshalJSON.
func (r *EvidenceRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var meta string
	if err := decodeKey(raw, "meta_rel", &meta); err != nil {
		return err
	}
	out := EvidenceRecord{MetaRel: MetaCategory(meta)}
	actorKey, targetKey := RoleKeys(out.MetaRel)

	for key, dst := range map[string]any{
		"rel":       &out.Rel,
		actorKey:    &out.Actor,
		targetKey:   &out.Target,
		"ents":      &out.Entities,
		"container": &out.Container,
		"text":      &out.Text,
		"ner":       &out.NER,
		"pmid":      &out.PMID,
		"pmid_url":  &out.PMIDURL,
	} {
		if err := decodeKey(raw, key, dst); err != nil {
			return err
		}
	}

	if _, ok := raw["rel_by_proteins"]; ok {
		out.Inference = &Inference{}
		if err := decodeKey(raw, "rel_by_proteins", &out.Inference.RelByProteins); err != nil {
			return err
		}
		if err := decodeKey(raw, "oppo_rel_by_proteins", &out.Inference.OppoRelByProteins); err != nil {
			return err
		}
		if err := decodeKey(raw, "target_container", &out.Inference.TargetContainer); err != nil {
			return err
		}
	}

	*r = out
	return nil
}

func decodeKey(raw map[string]json.RawMessage, key string, dst any) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}
