// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package meta

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/biorel-index/pkg/types"
)

func TestParseAuthors(t *testing.T) {
	authors, full := ParseAuthors("Doe, Jane; Smith, John")
	assert.Equal(t, []string{"Jane Doe", "John Smith"}, full)
	require.Len(t, authors, 2)
	assert.Equal(t, types.Author{LastName: "Doe", FirstName: types.StrPtr("Jane")}, authors[0])
	assert.Equal(t, types.Author{LastName: "Smith", FirstName: types.StrPtr("John")}, authors[1])
}

func TestParseAuthorsSingleName(t *testing.T) {
	authors, full := ParseAuthors("WHO")
	require.Len(t, authors, 1)
	assert.Equal(t, "WHO", authors[0].LastName)
	assert.Nil(t, authors[0].FirstName)
	assert.Equal(t, []string{"WHO"}, full)
}

func TestParseAuthorsAbsent(t *testing.T) {
	authors, full := ParseAuthors("")
	assert.Nil(t, authors)
	assert.Nil(t, full)
}

func TestDateShape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2020", "dddd"},
		{"2020-05-18", "dddd-dd-dd"},
		{"2020 May 18", "dddd Ccc dd"},
		{"2020/05", "ddddxdd"},
		{"Spring", "Cccccc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DateShape(tt.in), tt.in)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in        string
		wantYear  *string
		wantMonth *string
		wantES    string
	}{
		{"2020", types.StrPtr("2020"), nil, "2020-01-01"},
		{"2020-05-18", types.StrPtr("2020"), types.StrPtr("05"), "2020-05-01"},
		{"2019 Dec 3", types.StrPtr("2019"), types.StrPtr("12"), "2019-12-01"},
		{"2018 Xyz", types.StrPtr("2018"), nil, "2018-01-01"},
		{"2020/05/18", nil, nil, "2020-01-01"},
		{"Spring 2019", nil, nil, "2020-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			pt, es := ParseDate(tt.in)
			require.NotNil(t, pt)
			require.NotNil(t, es)
			assert.Equal(t, tt.wantYear, pt.Year)
			assert.Equal(t, tt.wantMonth, pt.Month)
			assert.Equal(t, tt.wantES, *es)
		})
	}
}

func TestParseDateAbsent(t *testing.T) {
	pt, es := ParseDate("")
	assert.Nil(t, pt)
	assert.Nil(t, es)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	rec := types.MetaRecord{
		PubMedID:       "111",
		RawAuthors:     "Doe, Jane; Smith, John",
		RawPublishTime: "2020 May 18",
	}
	Normalize(&rec)
	first := rec
	Normalize(&rec)

	assert.Equal(t, first.AuthorsFull, rec.AuthorsFull)
	assert.Equal(t, *first.ESDate, *rec.ESDate)
	assert.Equal(t, "2020-05-01", *rec.ESDate)
	assert.Equal(t, first.Authors, rec.Authors)
}

func TestNormalizeEmptyShell(t *testing.T) {
	rec := types.MetaRecord{PubMedID: "111"}
	Normalize(&rec)
	assert.Nil(t, rec.Authors)
	assert.Nil(t, rec.AuthorsFull)
	assert.Nil(t, rec.PublishTime)
	assert.Nil(t, rec.ESDate)
}

const metadataCSV = `cord_uid,sha,title,pubmed_id,abstract,publish_time,authors,journal
u1,abc,First paper,111.0,Abstract one,2020-05-18,"Doe, Jane; Smith, John",Nature
u2,,No sha,222,,2020,,Cell
u3,def,No pmid,,,,,
u4,ghi,Third,333,,2019 Dec 3,"Roe, Rick",
`

func TestLoadCSVDropsUntraceableRows(t *testing.T) {
	recs, st, err := LoadCSV(strings.NewReader(metadataCSV), Options{})
	require.NoError(t, err)
	assert.Equal(t, Stats{Rows: 4, Kept: 2, Dropped: 2}, st)
	require.Len(t, recs, 2)
	assert.Equal(t, "111", recs[0].PubMedID)
	assert.Equal(t, "abc", recs[0].SHA)
	assert.Equal(t, "Doe, Jane; Smith, John", recs[0].RawAuthors)
	assert.Equal(t, "Nature", recs[0].Journal)
	assert.Nil(t, recs[0].ESDate, "LoadCSV does not normalize")
}

func TestLoadCSVAllowEmptyAndFields(t *testing.T) {
	recs, st, err := LoadCSV(strings.NewReader(metadataCSV), Options{
		AllowEmpty: true,
		Fields:     []string{"pubmed_id", "title", "no_such_field"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, st.Kept)
	require.Len(t, recs, 4)
	assert.Equal(t, "No sha", recs[1].Title)
	assert.Empty(t, recs[0].SHA, "unselected fields are cleared")
	assert.Empty(t, recs[0].Journal)
}

func TestLoadCSVKeepsJoinKey(t *testing.T) {
	recs, _, err := LoadCSV(strings.NewReader(metadataCSV), Options{Fields: []string{"title"}})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "111", recs[0].PubMedID)
	assert.Empty(t, recs[0].SHA)

	idx := NewIndex(recs)
	rec, ok := idx.Lookup("111")
	require.True(t, ok)
	assert.Equal(t, "First paper", rec.Title)
}

func TestSubset(t *testing.T) {
	var out bytes.Buffer
	st, err := Subset(strings.NewReader(metadataCSV), &out, Options{Fields: []string{"sha", "pubmed_id", "title"}})
	require.NoError(t, err)
	assert.Equal(t, 2, st.Kept)
	assert.Equal(t, "sha,pubmed_id,title\nabc,111.0,First paper\nghi,333,Third\n", out.String())
}

func TestLoadIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.csv")
	require.NoError(t, os.WriteFile(path, []byte(metadataCSV), 0o644))

	idx, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Len(t, idx, 2)

	rec, ok := idx.Lookup("333")
	require.True(t, ok)
	assert.Equal(t, "Third", rec.Title)

	_, ok = idx.Lookup("222")
	assert.False(t, ok)
}
