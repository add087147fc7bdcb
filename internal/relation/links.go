// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relation

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/pdiddy/biorel-index/internal/mapping"
	"github.com/pdiddy/biorel-index/internal/table"
)

// Gate is the set of publication identifiers in scope for a run. A nil
// *Gate admits everything.
type Gate struct {
	ids mapset.Set[string]
}

// NewGate returns a gate admitting ids.
func NewGate(ids ...string) *Gate {
	g := &Gate{ids: mapset.NewSet[string]()}
	for _, id := range ids {
		if id = table.NormalizeID(id); id != "" {
			g.ids.Add(id)
		}
	}
	return g
}

// LoadGate reads a gate file with one identifier per line. Blank lines and
// lines starting with "#" are ignored. Gzip files are read transparently.
func LoadGate(path string) (*Gate, error) {
	rc, err := table.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening overlap file: %w", err)
	}
	defer rc.Close()

	g := NewGate()
	sc := bufio.NewScanner(rc)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		g.ids.Add(table.NormalizeID(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading overlap file %s: %w", path, err)
	}
	return g, nil
}

// Len returns the number of admitted identifiers.
func (g *Gate) Len() int {
	if g == nil {
		return 0
	}
	return g.ids.Cardinality()
}

// Allows reports whether pmid is in scope.
func (g *Gate) Allows(pmid string) bool {
	if g == nil {
		return true
	}
	return g.ids.Contains(pmid)
}

// Filter returns the members of pmids the gate admits, in order.
func (g *Gate) Filter(pmids []string) []string {
	if g == nil {
		return pmids
	}
	var kept []string
	for _, id := range pmids {
		if g.ids.Contains(id) {
			kept = append(kept, id)
		}
	}
	return kept
}

// GeneDiseaseIndex maps a gene identifier to the sorted names of the
// diseases it is associated with. A nil index disables cross-linking.
type GeneDiseaseIndex map[string][]string

// Lookup returns the gene's diseases, or nil.
func (idx GeneDiseaseIndex) Lookup(geneID string) []string {
	if idx == nil || geneID == "" {
		return nil
	}
	return idx[geneID]
}

// BuildGeneDiseaseIndex folds a gene-disease table into an index. Disease
// names come from the mapping when it resolves the row's DiseaseID and from
// the row's DiseaseName column otherwise.
func BuildGeneDiseaseIndex(r *table.Reader, diseases mapping.Mapping) (GeneDiseaseIndex, error) {
	sets := make(map[string]mapset.Set[string])
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading gene-disease table: %w", err)
		}
		geneID := table.NormalizeID(row.Get(ColGeneID))
		if geneID == "" {
			continue
		}
		attrs, _ := diseases.Get(row.Get(ColDiseaseID))
		name := displayName(attrs, "DiseaseName", row.Get(ColDiseaseName), row.Get(ColDiseaseID))
		if name == "" {
			continue
		}
		set, ok := sets[geneID]
		if !ok {
			set = mapset.NewSet[string]()
			sets[geneID] = set
		}
		set.Add(name)
	}

	idx := make(GeneDiseaseIndex, len(sets))
	for gene, set := range sets {
		names := set.ToSlice()
		sort.Strings(names)
		idx[gene] = names
	}
	return idx, nil
}

// LoadGeneDiseaseIndex opens path and builds the index.
func LoadGeneDiseaseIndex(path string, diseases mapping.Mapping) (GeneDiseaseIndex, error) {
	r, err := table.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening gene-disease table: %w", err)
	}
	defer r.Close()
	return BuildGeneDiseaseIndex(r, diseases)
}
