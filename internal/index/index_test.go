// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/biorel-index/pkg/types"
)

var s = types.StrPtr

func sampleDocs() []types.IndexDocument {
	return []types.IndexDocument{
		{
			DocID:    "111",
			PubMedID: "111",
			Title:    "Arsenic exposure and p53 signalling",
			Abstract: "We study the effect of arsenic on tumor suppressors.",
			Journal:  "Nature",
			ESDate:   s("2020-05-01"),
			ActionInteractions: []types.RelationRecord{{
				Kind:               types.RelationChemGene,
				SubjectID:          "7157",
				Subject:            types.Attributes{"GeneSymbol": "TP53"},
				ObjectID:           "MESH:D001151",
				Object:             types.Attributes{"ChemicalName": "Arsenic"},
				InteractionActions: []string{"++ expression"},
				Containers:         []string{"++TP53 Expression Regulator"},
			}},
		},
		{
			DocID:    "222-0",
			PubMedID: "222",
			Title:    "Kinase cascades",
			Journal:  "Cell",
			ESDate:   s("2019-12-01"),
			PPIs: []types.EvidenceRecord{{
				Rel:       "Phosphorylation",
				MetaRel:   types.Modification,
				Actor:     s("MAPK1"),
				Target:    s("ELK1"),
				Entities:  []*string{s("MAPK1"), s("ELK1")},
				Container: "Phosphorylator-ELK1",
				Text:      "MAPK1 phosphorylates ELK1.",
				PMID:      "222",
			}},
		},
		{
			DocID:    "333",
			PubMedID: "333",
			Title:    "Untitled preprint",
		},
	}
}

func TestPayloadText(t *testing.T) {
	docs := sampleDocs()
	assert.Equal(t, "7157 MESH:D001151 TP53 Arsenic ++ expression ++TP53 Expression Regulator", payloadText(docs[0]))
	assert.Equal(t, "Phosphorylation MAPK1 ELK1 Phosphorylator-ELK1 MAPK1 phosphorylates ELK1.", payloadText(docs[1]))
	assert.Empty(t, payloadText(docs[2]))
}

func newSQLite(t *testing.T) *SQLiteSink {
	t.Helper()
	sink, err := NewSQLiteSink(filepath.Join(t.TempDir(), "index", "index.db"), 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { sink.Close() })
	return sink
}

func TestSQLiteLoadAndSearch(t *testing.T) {
	ctx := context.Background()
	sink := newSQLite(t)

	sum, err := sink.Load(ctx, "relations", sampleDocs())
	require.NoError(t, err)
	assert.Equal(t, Summary{Indexed: 3}, sum)

	tests := []struct {
		name string
		opts QueryOptions
		want []string
	}{
		{"full text on payload", QueryOptions{Query: "TP53"}, []string{"111"}},
		{"full text on title", QueryOptions{Query: "kinase"}, []string{"222-0"}},
		{"journal filter", QueryOptions{Journal: "Cell"}, []string{"222-0"}},
		{"date range", QueryOptions{From: "2020-01-01", To: "2020-12-31"}, []string{"111"}},
		{"all documents", QueryOptions{}, []string{"333", "222-0", "111"}},
		{"limit", QueryOptions{MaxResults: 1}, []string{"333"}},
		{"other index", QueryOptions{Index: "ppi"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := sink.Search(ctx, tt.opts)
			require.NoError(t, err)
			var got []string
			for _, r := range results {
				got = append(got, r.Document.DocID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSQLiteSearchDecodesPayload(t *testing.T) {
	ctx := context.Background()
	sink := newSQLite(t)
	_, err := sink.Load(ctx, "ppi", sampleDocs())
	require.NoError(t, err)

	results, err := sink.Search(ctx, QueryOptions{Query: "ELK1"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	got := results[0].Document
	assert.Equal(t, "ppi", results[0].Index)
	require.Len(t, got.PPIs, 1)
	require.NotNil(t, got.PPIs[0].Actor)
	assert.Equal(t, "MAPK1", *got.PPIs[0].Actor)
	assert.Equal(t, types.Modification, got.PPIs[0].MetaRel)
}

func TestSQLiteLoadReplacesIndex(t *testing.T) {
	ctx := context.Background()
	sink := newSQLite(t)

	_, err := sink.Load(ctx, "relations", sampleDocs())
	require.NoError(t, err)
	_, err = sink.Load(ctx, "ppi", sampleDocs()[:1])
	require.NoError(t, err)
	_, err = sink.Load(ctx, "relations", sampleDocs()[2:])
	require.NoError(t, err)

	results, err := sink.Search(ctx, QueryOptions{Index: "relations"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "333", results[0].Document.DocID)

	// Replaced rows are gone from the full-text index too.
	results, err = sink.Search(ctx, QueryOptions{Query: "kinase"})
	require.NoError(t, err)
	assert.Empty(t, results)

	infos, err := sink.Indexes(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "ppi", infos[0].Name)
	assert.Equal(t, 1, infos[0].Documents)
	assert.Equal(t, "relations", infos[1].Name)
	assert.Equal(t, 1, infos[1].Documents)
}

func TestSQLiteDuplicateDocIDFails(t *testing.T) {
	docs := sampleDocs()
	docs = append(docs, docs[0])
	sum, err := newSQLite(t).Load(context.Background(), "dup", docs)
	require.NoError(t, err)
	assert.Equal(t, Summary{Indexed: 3, Failed: 1}, sum)
}

func TestSQLiteExport(t *testing.T) {
	ctx := context.Background()
	sink := newSQLite(t)
	_, err := sink.Load(ctx, "relations", sampleDocs())
	require.NoError(t, err)

	var jsonOut bytes.Buffer
	require.NoError(t, sink.ExportJSON(ctx, &jsonOut, QueryOptions{Journal: "Nature"}))
	var decoded []types.IndexDocument
	require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "111", decoded[0].DocID)

	var yamlOut bytes.Buffer
	require.NoError(t, sink.ExportYAML(ctx, &yamlOut, QueryOptions{}))
	var generic []map[string]any
	require.NoError(t, yaml.Unmarshal(yamlOut.Bytes(), &generic))
	require.Len(t, generic, 3)
	assert.Contains(t, yamlOut.String(), "enz: MAPK1")
}

func TestFileSinkJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "docs.jsonl")
	sink, err := NewFileSink(path, nil)
	require.NoError(t, err)

	sum, err := sink.Load(context.Background(), "ppi", sampleDocs())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Indexed)

	f, err := os.Open(sink.PathFor("ppi"))
	require.NoError(t, err)
	defer f.Close()

	var ids []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var doc types.IndexDocument
		require.NoError(t, json.Unmarshal(sc.Bytes(), &doc))
		ids = append(ids, doc.DocID)
	}
	assert.Equal(t, []string{"111", "222-0", "333"}, ids)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "docs.ppi.jsonl"), sink.PathFor("ppi"))
}

func TestFileSinkYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.yaml")
	sink, err := NewFileSink(path, nil)
	require.NoError(t, err)

	_, err = sink.Load(context.Background(), "relations", sampleDocs()[:1])
	require.NoError(t, err)

	data, err := os.ReadFile(sink.PathFor("relations"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "doc_id: \"111\"")
	assert.Contains(t, string(data), "++ expression")
}

func TestFileSinkRejectsUnknownExtension(t *testing.T) {
	_, err := NewFileSink("docs.parquet", nil)
	assert.Error(t, err)
}

// fakeElasticsearch answers the index and bulk APIs and records bulk ids.
type fakeElasticsearch struct {
	mu      sync.Mutex
	calls   []string
	ids     []string
	reject  string
	mapping string
}

func (f *fakeElasticsearch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	f.mu.Lock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	f.mu.Unlock()

	switch {
	case strings.HasSuffix(r.URL.Path, "/_bulk"):
		f.bulk(w, r)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.mapping = string(body)
		f.mu.Unlock()
		fmt.Fprint(w, `{"acknowledged":true}`)
	default:
		fmt.Fprint(w, `{"acknowledged":true}`)
	}
}

func (f *fakeElasticsearch) bulk(w http.ResponseWriter, r *http.Request) {
	var items []string
	sc := bufio.NewScanner(r.Body)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	for line := 0; sc.Scan(); line++ {
		if line%2 == 1 {
			continue
		}
		var meta map[string]struct {
			ID string `json:"_id"`
		}
		if err := json.Unmarshal(sc.Bytes(), &meta); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		id := meta["index"].ID
		f.mu.Lock()
		f.ids = append(f.ids, id)
		f.mu.Unlock()
		if id == f.reject {
			items = append(items, fmt.Sprintf(`{"index":{"_id":%q,"status":400,"error":{"type":"mapper_parsing_exception","reason":"bad"}}}`, id))
		} else {
			items = append(items, fmt.Sprintf(`{"index":{"_id":%q,"status":201,"result":"created"}}`, id))
		}
	}
	fmt.Fprintf(w, `{"took":1,"errors":%t,"items":[%s]}`, f.reject != "", strings.Join(items, ","))
}

func TestElasticsearchSinkLoad(t *testing.T) {
	fake := &fakeElasticsearch{reject: "333"}
	ts := httptest.NewServer(fake)
	defer ts.Close()

	sink, err := NewElasticsearchSink(ElasticsearchConfig{Addresses: []string{ts.URL}}, nil)
	require.NoError(t, err)

	sum, err := sink.Load(context.Background(), "relations", sampleDocs())
	require.NoError(t, err)
	assert.Equal(t, Summary{Indexed: 2, Failed: 1}, sum)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, "DELETE /relations", fake.calls[0])
	assert.Equal(t, "PUT /relations", fake.calls[1])
	assert.ElementsMatch(t, []string{"111", "222-0", "333"}, fake.ids)
	assert.Contains(t, fake.mapping, `"es_date"`)
}

func TestElasticsearchSinkCreateFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"resource_already_exists_exception"}`)
			return
		}
		fmt.Fprint(w, `{"acknowledged":true}`)
	}))
	defer ts.Close()

	sink, err := NewElasticsearchSink(ElasticsearchConfig{Addresses: []string{ts.URL}}, nil)
	require.NoError(t, err)
	_, err = sink.Load(context.Background(), "relations", sampleDocs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating index relations")
}

func TestNewSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	sink, err := New(types.IndexConfig{Backend: types.BackendSQLite, DBPath: filepath.Join(dir, "i.db")}, "")
	require.NoError(t, err)
	assert.IsType(t, &SQLiteSink{}, sink)
	sink.Close()

	sink, err = New(types.IndexConfig{Backend: types.BackendFile, OutputPath: filepath.Join(dir, "d.jsonl")}, "")
	require.NoError(t, err)
	assert.IsType(t, &FileSink{}, sink)

	sink, err = New(types.IndexConfig{Backend: types.BackendElasticsearch, Addresses: []string{"http://localhost:9200"}}, "pw")
	require.NoError(t, err)
	assert.IsType(t, &ElasticsearchSink{}, sink)

	_, err = New(types.IndexConfig{Backend: "solr"}, "")
	assert.Error(t, err)
}
