// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vocab holds the closed vocabularies used to normalize relation
// tables and causal statements. Each table is built once at package
// initialization and is read-only afterwards. A lookup miss is a *Error:
// the vocabulary is stale and must be extended, so callers abort rather
// than coerce the value.
package vocab

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pdiddy/biorel-index/pkg/types"
)

// ErrUnknown is wrapped by every *Error.
var ErrUnknown = errors.New("vocab: unknown value")

// Error names the table and the raw value that missed.
type Error struct {
	Table string
	Value string
}

func (e *Error) Error() string {
	return fmt.Sprintf("vocab: %s has no entry for %q", e.Table, e.Value)
}

func (e *Error) Unwrap() error { return ErrUnknown }

// Table is an immutable string-keyed lookup.
type Table[V any] struct {
	name    string
	entries map[string]V
}

func newTable[V any](name string, entries map[string]V) *Table[V] {
	m := make(map[string]V, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return &Table[V]{name: name, entries: m}
}

// Name returns the table name used in errors.
func (t *Table[V]) Name() string { return t.name }

// Lookup returns the value for key or a *Error.
func (t *Table[V]) Lookup(key string) (V, error) {
	v, ok := t.entries[key]
	if !ok {
		var zero V
		return zero, &Error{Table: t.name, Value: key}
	}
	return v, nil
}

// Contains reports whether key has an entry.
func (t *Table[V]) Contains(key string) bool {
	_, ok := t.entries[key]
	return ok
}

// Keys returns the table keys in sorted order.
func (t *Table[V]) Keys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries.
func (t *Table[V]) Len() int { return len(t.entries) }

// Actions maps relation-table action verbs to their symbols.
var Actions = newTable("interaction action", map[string]string{
	"increases": "++",
	"decreases": "--",
	"affects":   "->",
})

// ProcessNouns maps the biological process named after "^" in an
// interaction action to the agent noun used in container labels.
var ProcessNouns = newTable("process noun", map[string]string{
	"abundance":              "Abundance Regulator",
	"activity":               "Activator",
	"binding":                "Binder",
	"cotreatment":            "Cotreatment Agent",
	"expression":             "Expression Regulator",
	"folding":                "Chaperone",
	"localization":           "Localizer",
	"metabolic processing":   "Metabolizer",
	"acetylation":            "Acetyltransferase",
	"acylation":              "Acyltransferase",
	"alkylation":             "Alkylator",
	"amination":              "Aminotransferase",
	"carbamoylation":         "Carbamoyltransferase",
	"carboxylation":          "Carboxylase",
	"chemical synthesis":     "Synthase",
	"degradation":            "Degrader",
	"cleavage":               "Protease",
	"hydrolysis":             "Hydrolase",
	"ethylation":             "Ethylator",
	"glucuronidation":        "Glucuronosyltransferase",
	"glutathionylation":      "Glutathione Transferase",
	"glycation":              "Glycator",
	"glycosylation":          "Glycosyltransferase",
	"N-linked glycosylation": "Glycosyltransferase",
	"O-linked glycosylation": "Glycosyltransferase",
	"hydroxylation":          "Hydroxylase",
	"lipidation":             "Lipid Transferase",
	"farnesylation":          "Farnesyltransferase",
	"geranoylation":          "Geranyltransferase",
	"myristoylation":         "Myristoyltransferase",
	"palmitoylation":         "Palmitoyltransferase",
	"prenylation":            "Prenyltransferase",
	"methylation":            "Methyltransferase",
	"nitrosation":            "Nitrosylase",
	"nucleotidylation":       "Nucleotidyltransferase",
	"oxidation":              "Oxidase",
	"phosphorylation":        "Kinase",
	"reduction":              "Reductase",
	"ribosylation":           "Ribosyltransferase",
	"ADP-ribosylation":       "ADP-Ribosyltransferase",
	"sulfation":              "Sulfotransferase",
	"sumoylation":            "SUMO Ligase",
	"ubiquitination":         "Ubiquitin Ligase",
	"mutagenesis":            "Mutagen",
	"reaction":               "Reactant",
	"response to substance":  "Sensitizer",
	"splicing":               "Splicing Regulator",
	"stability":              "Stabilizer",
	"transport":              "Transporter",
	"export":                 "Exporter",
	"import":                 "Importer",
	"secretion":              "Secretagogue",
	"uptake":                 "Uptake Regulator",
})

// MetaCategories maps statement relation types to their meta-category.
var MetaCategories = newTable("relation type", map[string]types.MetaCategory{
	"Acetylation":         types.Modification,
	"Activation":          types.RegulateActivity,
	"Autophosphorylation": types.Modification,
	"Complex":             types.Other,
	"Deacetylation":       types.Modification,
	"DecreaseAmount":      types.RegulateActivity,
	"Deglycosylation":     types.Modification,
	"Dehydroxylation":     types.Modification,
	"Demethylation":       types.Modification,
	"Depalmitoylation":    types.Modification,
	"Dephosphorylation":   types.Modification,
	"Deribosylation":      types.Modification,
	"Desumoylation":       types.Modification,
	"Deubiquitination":    types.Modification,
	"Farnesylation":       types.Modification,
	"Glycosylation":       types.Modification,
	"Hydroxylation":       types.Modification,
	"IncreaseAmount":      types.RegulateActivity,
	"Inhibition":          types.RegulateActivity,
	"Methylation":         types.Modification,
	"Myristoylation":      types.Modification,
	"Palmitoylation":      types.Modification,
	"Phosphorylation":     types.Modification,
	"Ribosylation":        types.Modification,
	"Sumoylation":         types.Modification,
	"Translocation":       types.Other,
	"Ubiquitination":      types.Modification,
})

// OppositeRelations pairs each relation type with its opposite. Symmetric
// relations (Complex, Translocation, ...) are paired with themselves.
var OppositeRelations = newTable("opposite relation", map[string]string{
	"Activation":          "Inhibition",
	"Inhibition":          "Activation",
	"IncreaseAmount":      "DecreaseAmount",
	"DecreaseAmount":      "IncreaseAmount",
	"Acetylation":         "Deacetylation",
	"Deacetylation":       "Acetylation",
	"Glycosylation":       "Deglycosylation",
	"Deglycosylation":     "Glycosylation",
	"Methylation":         "Demethylation",
	"Demethylation":       "Methylation",
	"Palmitoylation":      "Depalmitoylation",
	"Depalmitoylation":    "Palmitoylation",
	"Phosphorylation":     "Dephosphorylation",
	"Dephosphorylation":   "Phosphorylation",
	"Ribosylation":        "Deribosylation",
	"Deribosylation":      "Ribosylation",
	"Sumoylation":         "Desumoylation",
	"Desumoylation":       "Sumoylation",
	"Ubiquitination":      "Deubiquitination",
	"Deubiquitination":    "Ubiquitination",
	"Hydroxylation":       "Dehydroxylation",
	"Dehydroxylation":     "Hydroxylation",
	"Complex":             "Complex",
	"Translocation":       "Translocation",
	"Autophosphorylation": "Autophosphorylation",
	"Farnesylation":       "Farnesylation",
	"Myristoylation":      "Myristoylation",
})

// ActionSymbol returns the symbol for an interaction action verb.
func ActionSymbol(action string) (string, error) {
	return Actions.Lookup(action)
}

// ProcessNoun returns the agent noun for a biological process name.
func ProcessNoun(process string) (string, error) {
	return ProcessNouns.Lookup(process)
}

// MetaCategory returns the meta-category of a statement relation type.
func MetaCategory(relType string) (types.MetaCategory, error) {
	return MetaCategories.Lookup(relType)
}

// Opposite returns the opposite of a relation type.
func Opposite(relType string) (string, error) {
	return OppositeRelations.Lookup(relType)
}
