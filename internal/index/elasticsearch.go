// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"go.uber.org/zap"

	"github.com/pdiddy/biorel-index/internal/httputil"
	"github.com/pdiddy/biorel-index/pkg/types"
)

// documentMapping is the index body for the document contract.
const documentMapping = `{
  "settings": {"number_of_shards": 1},
  "mappings": {
    "properties": {
      "doc_id":       {"type": "keyword"},
      "sha":          {"type": "keyword"},
      "pubmed_id":    {"type": "keyword"},
      "pmid_url":     {"type": "keyword", "index": false},
      "title":        {"type": "text"},
      "abstract":     {"type": "text"},
      "journal":      {"type": "keyword"},
      "institutions": {"type": "text"},
      "countries":    {"type": "text"},
      "authors_full": {"type": "text"},
      "authors": {
        "properties": {
          "last_name":  {"type": "keyword"},
          "first_name": {"type": "keyword"}
        }
      },
      "publish_time": {
        "properties": {
          "year":  {"type": "keyword"},
          "month": {"type": "keyword"}
        }
      },
      "es_date": {"type": "date", "format": "yyyy-MM-dd"},
      "action_interactions": {
        "properties": {
          "kind":                {"type": "keyword"},
          "subject_id":          {"type": "keyword"},
          "object_id":           {"type": "keyword"},
          "interaction_actions": {"type": "keyword"},
          "containers":          {"type": "keyword"},
          "diseases":            {"type": "keyword"}
        }
      },
      "PPIs": {
        "properties": {
          "rel":       {"type": "keyword"},
          "meta_rel":  {"type": "keyword"},
          "container": {"type": "keyword"},
          "text":      {"type": "text"},
          "pmid":      {"type": "keyword"}
        }
      }
    }
  }
}`

// ElasticsearchConfig holds connection settings for ElasticsearchSink.
type ElasticsearchConfig struct {
	Addresses []string
	Username  string
	Password  string

	// Timeout bounds the wait for response headers. Zero means no limit.
	Timeout time.Duration

	// Transport overrides the base HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

// ElasticsearchSink bulk-loads documents into Elasticsearch.
type ElasticsearchSink struct {
	es  *elasticsearch.Client
	log *zap.Logger
}

// NewElasticsearchSink builds a client whose transport retries 429 responses.
func NewElasticsearchSink(cfg ElasticsearchConfig, log *zap.Logger) (*ElasticsearchSink, error) {
	if log == nil {
		log = zap.NewNop()
	}
	base := cfg.Transport
	if base == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.ResponseHeaderTimeout = cfg.Timeout
		base = t
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: httputil.NewRetryTransport(base, log),
	})
	if err != nil {
		return nil, fmt.Errorf("creating elasticsearch client: %w", err)
	}
	return &ElasticsearchSink{es: es, log: log}, nil
}

// Close is a no-op; the client holds no resources beyond its transport.
func (s *ElasticsearchSink) Close() error { return nil }

func responseError(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return fmt.Errorf("%s: %s: %s", op, res.Status(), strings.TrimSpace(string(body)))
}

// recreate deletes index name if present and creates it with the document mapping.
func (s *ElasticsearchSink) recreate(ctx context.Context, name string) error {
	res, err := s.es.Indices.Delete([]string{name},
		s.es.Indices.Delete.WithIgnoreUnavailable(true),
		s.es.Indices.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("deleting index %s: %w", name, err)
	}
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		defer res.Body.Close()
		return responseError("deleting index "+name, res)
	}
	res.Body.Close()

	res, err = s.es.Indices.Create(name,
		s.es.Indices.Create.WithBody(strings.NewReader(documentMapping)),
		s.es.Indices.Create.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("creating index %s: %w", name, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("creating index "+name, res)
	}
	return nil
}

// Load recreates index name and bulk-indexes docs by doc_id.
func (s *ElasticsearchSink) Load(ctx context.Context, name string, docs []types.IndexDocument) (Summary, error) {
	if err := s.recreate(ctx, name); err != nil {
		return Summary{}, err
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     s.es,
		Index:      name,
		NumWorkers: 2,
		OnError: func(_ context.Context, err error) {
			s.log.Warn("bulk request failed", zap.String("index", name), zap.Error(err))
		},
	})
	if err != nil {
		return Summary{}, fmt.Errorf("creating bulk indexer: %w", err)
	}

	var encodeFailures int
	for _, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			s.log.Warn("encoding document", zap.String("doc_id", doc.DocID), zap.Error(err))
			encodeFailures++
			continue
		}
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: doc.DocID,
			Body:       bytes.NewReader(data),
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				fields := []zap.Field{zap.String("doc_id", item.DocumentID), zap.Int("status", res.Status)}
				if err != nil {
					fields = append(fields, zap.Error(err))
				} else {
					fields = append(fields, zap.String("reason", res.Error.Reason))
				}
				s.log.Warn("document rejected", fields...)
			},
		})
		if err != nil {
			bi.Close(ctx)
			return Summary{}, fmt.Errorf("adding document %s: %w", doc.DocID, err)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return Summary{}, fmt.Errorf("flushing bulk indexer: %w", err)
	}

	st := bi.Stats()
	summary := Summary{
		Indexed: int(st.NumIndexed + st.NumCreated),
		Failed:  int(st.NumFailed) + encodeFailures,
	}
	s.log.Info("index loaded", zap.String("index", name),
		zap.Int("indexed", summary.Indexed), zap.Int("failed", summary.Failed),
		zap.Uint64("requests", st.NumRequests))
	return summary, nil
}
