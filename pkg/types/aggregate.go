// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
)

// Aggregate groups entries by publication identifier. Keys are kept in
// first-insertion order so documents come out in a stable order; entries
// under one key keep their insertion order.
type Aggregate[T any] struct {
	keys    []string
	entries map[string][]T
}

// NewAggregate returns an empty aggregate.
func NewAggregate[T any]() *Aggregate[T] {
	return &Aggregate[T]{entries: make(map[string][]T)}
}

// Add appends entry under pmid.
func (a *Aggregate[T]) Add(pmid string, entry T) {
	if a.entries == nil {
		a.entries = make(map[string][]T)
	}
	if _, ok := a.entries[pmid]; !ok {
		a.keys = append(a.keys, pmid)
	}
	a.entries[pmid] = append(a.entries[pmid], entry)
}

// Keys returns the publication identifiers in insertion order.
func (a *Aggregate[T]) Keys() []string {
	return a.keys
}

// Get returns the entries attributed to pmid.
func (a *Aggregate[T]) Get(pmid string) []T {
	return a.entries[pmid]
}

// Len returns the number of distinct publication identifiers.
func (a *Aggregate[T]) Len() int {
	return len(a.keys)
}

// Count returns the total number of entries across all identifiers.
func (a *Aggregate[T]) Count() int {
	n := 0
	for _, e := range a.entries {
		n += len(e)
	}
	return n
}

// Each calls fn for every entry in key order. It stops at the first error.
func (a *Aggregate[T]) Each(fn func(pmid string, i int, entry T) error) error {
	for _, k := range a.keys {
		for i, e := range a.entries[k] {
			if err := fn(k, i, e); err != nil {
				return err
			}
		}
	}
	return nil
}

// Map returns a new aggregate with fn applied to every entry. Key order and
// entry order are preserved.
func Map[T, U any](a *Aggregate[T], fn func(T) U) *Aggregate[U] {
	out := NewAggregate[U]()
	for _, k := range a.keys {
		src := a.entries[k]
		dst := make([]U, len(src))
		for i, e := range src {
			dst[i] = fn(e)
		}
		out.keys = append(out.keys, k)
		out.entries[k] = dst
	}
	return out
}

type aggregateGroup[T any] struct {
	PMID    string `json:"pmid"`
	Entries []T    `json:"entries"`
}

// MarshalJSON writes the aggregate as an ordered list of {pmid, entries}.
func (a *Aggregate[T]) MarshalJSON() ([]byte, error) {
	groups := make([]aggregateGroup[T], 0, len(a.keys))
	for _, k := range a.keys {
		groups = append(groups, aggregateGroup[T]{PMID: k, Entries: a.entries[k]})
	}
	return json.Marshal(groups)
}

// UnmarshalJSON reads an aggregate written by MarshalJSON.
func (a *Aggregate[T]) UnmarshalJSON(data []byte) error {
	var groups []aggregateGroup[T]
	if err := json.Unmarshal(data, &groups); err != nil {
		return fmt.Errorf("decoding aggregate: %w", err)
	}
	a.keys = nil
	a.entries = make(map[string][]T, len(groups))
	for _, g := range groups {
		for _, e := range g.Entries {
			a.Add(g.PMID, e)
		}
		if len(g.Entries) == 0 {
			if _, ok := a.entries[g.PMID]; !ok {
				a.keys = append(a.keys, g.PMID)
				a.entries[g.PMID] = nil
			}
		}
	}
	return nil
}
