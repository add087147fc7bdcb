// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/biorel-index/pkg/types"
)

const defaultMaxResults = 20

// SQLiteSink stores documents in a SQLite database with an FTS5 index over
// title, abstract and payload text.
type SQLiteSink struct {
	db         *sql.DB
	log        *zap.Logger
	maxResults int
}

// NewSQLiteSink opens or creates the index database at path.
func NewSQLiteSink(path string, maxResults int, log *zap.Logger) (*SQLiteSink, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	s := &SQLiteSink{db: db, log: log, maxResults: maxResults}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

func (s *SQLiteSink) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS indexes (
			name TEXT PRIMARY KEY,
			loaded_at TEXT NOT NULL,
			documents INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			index_name TEXT NOT NULL REFERENCES indexes(name),
			doc_id TEXT NOT NULL,
			pubmed_id TEXT NOT NULL,
			title TEXT,
			abstract TEXT,
			journal TEXT,
			es_date TEXT,
			payload TEXT,
			doc TEXT NOT NULL,
			UNIQUE(index_name, doc_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_pubmed_id ON documents(pubmed_id)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_es_date ON documents(es_date)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='documents_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE documents_fts USING fts5(title, abstract, payload, content=documents, content_rowid=rowid)`,
		`CREATE TRIGGER documents_ai AFTER INSERT ON documents BEGIN
			INSERT INTO documents_fts(rowid, title, abstract, payload)
			VALUES (new.rowid, new.title, new.abstract, new.payload);
		END`,
		`CREATE TRIGGER documents_ad AFTER DELETE ON documents BEGIN
			INSERT INTO documents_fts(documents_fts, rowid, title, abstract, payload)
			VALUES ('delete', old.rowid, old.title, old.abstract, old.payload);
		END`,
		`CREATE TRIGGER documents_au AFTER UPDATE ON documents BEGIN
			INSERT INTO documents_fts(documents_fts, rowid, title, abstract, payload)
			VALUES ('delete', old.rowid, old.title, old.abstract, old.payload);
			INSERT INTO documents_fts(rowid, title, abstract, payload)
			VALUES (new.rowid, new.title, new.abstract, new.payload);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// Load replaces the documents of index name. Documents that fail to encode
// or collide on doc_id are counted as failed; the rest are committed.
func (s *SQLiteSink) Load(ctx context.Context, name string, docs []types.IndexDocument) (Summary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Summary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE index_name = ?`, name); err != nil {
		return Summary{}, fmt.Errorf("deleting old documents: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO indexes (name, loaded_at, documents) VALUES (?, ?, 0)
		 ON CONFLICT(name) DO UPDATE SET loaded_at=excluded.loaded_at, documents=0`,
		name, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return Summary{}, fmt.Errorf("registering index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO documents (index_name, doc_id, pubmed_id, title, abstract, journal, es_date, payload, doc)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Summary{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var summary Summary
	for _, doc := range docs {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		data, err := json.Marshal(doc)
		if err != nil {
			s.log.Warn("encoding document", zap.String("doc_id", doc.DocID), zap.Error(err))
			summary.Failed++
			continue
		}
		var esDate sql.NullString
		if doc.ESDate != nil {
			esDate = sql.NullString{String: *doc.ESDate, Valid: true}
		}
		_, err = stmt.ExecContext(ctx,
			name, doc.DocID, doc.PubMedID, doc.Title, doc.Abstract, doc.Journal,
			esDate, payloadText(doc), string(data),
		)
		if err != nil {
			s.log.Warn("inserting document", zap.String("doc_id", doc.DocID), zap.Error(err))
			summary.Failed++
			continue
		}
		summary.Indexed++
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE indexes SET documents = ? WHERE name = ?`, summary.Indexed, name,
	); err != nil {
		return summary, fmt.Errorf("updating index count: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing index %s: %w", name, err)
	}

	s.log.Info("index loaded", zap.String("index", name),
		zap.Int("indexed", summary.Indexed), zap.Int("failed", summary.Failed))
	return summary, nil
}

// IndexInfo describes one loaded index.
type IndexInfo struct {
	Name      string `json:"name" yaml:"name"`
	LoadedAt  string `json:"loaded_at" yaml:"loaded_at"`
	Documents int    `json:"documents" yaml:"documents"`
}

// Indexes lists the loaded indexes by name.
func (s *SQLiteSink) Indexes(ctx context.Context) ([]IndexInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, loaded_at, documents FROM indexes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing indexes: %w", err)
	}
	defer rows.Close()

	var out []IndexInfo
	for rows.Next() {
		var info IndexInfo
		if err := rows.Scan(&info.Name, &info.LoadedAt, &info.Documents); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
