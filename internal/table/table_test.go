// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ctdChemGene = `# Comparative Toxicogenomics Database (CTD)
#
# Fields:
# ChemicalName	ChemicalID	CasRN	GeneSymbol	GeneID	GeneForms	Organism	OrganismID	Interaction	InteractionActions	PubMedIDs
#
C1	D000001		G1	123	protein	Homo sapiens	9606	C1 results in increased activity of G1 protein	increases^activity	111|222
C2	D000002		G2	456	mRNA	Homo sapiens	9606	C2 results in decreased expression of G2 mRNA	decreases^expression	333
`

func TestReaderCTDCommentHeader(t *testing.T) {
	r, err := NewReader(strings.NewReader(ctdChemGene), '\t')
	require.NoError(t, err)

	assert.Equal(t, "ChemicalName", r.Header()[0])
	assert.Equal(t, "PubMedIDs", r.Header()[len(r.Header())-1])

	rows := readAll(t, r)
	require.Len(t, rows, 2)
	assert.Equal(t, "D000001", rows[0].Get("ChemicalID"))
	assert.Equal(t, "increases^activity", rows[0].Get("InteractionActions"))
	assert.Equal(t, "111|222", rows[0].Get("PubMedIDs"))
	assert.Equal(t, 1, rows[0].Line)
	assert.Equal(t, 2, rows[1].Line)
	assert.Equal(t, "", rows[0].Get("CasRN"))
}

func TestReaderPlainHeader(t *testing.T) {
	src := "GeneID,GeneSymbol,pmids\n123.0,G1,111|222\n"
	r, err := NewReader(strings.NewReader(src), ',')
	require.NoError(t, err)

	rows := readAll(t, r)
	require.Len(t, rows, 1)
	assert.Equal(t, "111|222", rows[0].Get("PubMedIDs", "pmids"))
	assert.Equal(t, "123", NormalizeID(rows[0].Get("GeneID")))
}

func TestReaderEmptyInput(t *testing.T) {
	_, err := NewReader(strings.NewReader(""), '\t')
	require.Error(t, err)
}

func TestOpenGzipTSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chem_gene.tsv.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := pgzip.NewWriter(f)
	_, err = io.WriteString(zw, ctdChemGene)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	rows := readAll(t, r)
	require.Len(t, rows, 2)
	assert.Equal(t, "G2", rows[1].Get("GeneSymbol"))
}

func TestOpenCSVByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meta.csv")
	require.NoError(t, os.WriteFile(path, []byte("sha,pubmed_id,title\nabc,42,\"A, B\"\n"), 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	rows := readAll(t, r)
	require.Len(t, rows, 1)
	assert.Equal(t, "A, B", rows[0].Get("title"))
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.tsv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCommaFor(t *testing.T) {
	tests := []struct {
		path string
		want rune
	}{
		{"a.csv", ','},
		{"a.CSV.gz", ','},
		{"a.tsv", '\t'},
		{"a.tsv.gz", '\t'},
		{"a.txt", '\t'},
		{"a", '\t'},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CommaFor(tt.path), tt.path)
	}
}

func TestRowFields(t *testing.T) {
	row := NewRow(map[string]string{"GeneID": "1", "Organism": "Homo sapiens", "Empty": " "})
	assert.Equal(t, map[string]string{"Organism": "Homo sapiens"}, row.Fields("GeneID"))
	assert.True(t, row.Has("Empty"))
	assert.False(t, row.Has("Missing"))
}

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"123", "123"},
		{"123.0", "123"},
		{"123.00", "123"},
		{" 42 ", "42"},
		{"12.5", "12.5"},
		{"MESH:D000001", "MESH:D000001"},
		{"1.", "1."},
		{".0", ".0"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeID(tt.in), tt.in)
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"111", "222"}, SplitList("111|222", "|"))
	assert.Equal(t, []string{"111"}, SplitList("111||", "|"))
	assert.Nil(t, SplitList("  ", "|"))
}

func readAll(t *testing.T, r *Reader) []Row {
	t.Helper()
	var rows []Row
	for {
		row, err := r.Next()
		if err == io.EOF {
			return rows
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
}
