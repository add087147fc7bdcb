// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapping

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

// Store persists mappings in a SQLite database so vocabulary tables are
// parsed once and loaded wholesale on later runs.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// NewStore opens or creates the mapping database at path.
func NewStore(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating mapping directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, log: log}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS mappings (
			kind TEXT NOT NULL,
			key TEXT NOT NULL,
			attrs TEXT NOT NULL,
			PRIMARY KEY (kind, key)
		)`,
		`CREATE TABLE IF NOT EXISTS ingest_status (
			kind TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			mod_time TEXT NOT NULL,
			entries INTEGER NOT NULL DEFAULT 0
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from a mapping ingest run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int

	// Entries is the number of mapping rows written.
	Entries int
}

// Total returns the number of sources processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

func (s *IngestSummary) add(o IngestSummary) {
	s.Indexed += o.Indexed
	s.Updated += o.Updated
	s.Skipped += o.Skipped
	s.Failed += o.Failed
	s.Entries += o.Entries
}

// IngestDir ingests every vocabulary table found in dir. A missing or
// unreadable table is counted as failed and does not stop the others.
func (s *Store) IngestDir(ctx context.Context, dir string) (IngestSummary, error) {
	var summary IngestSummary
	for _, src := range Sources {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		path, err := FindSource(dir, src.Kind)
		if err != nil {
			s.log.Warn("mapping source missing", zap.String("kind", string(src.Kind)), zap.Error(err))
			summary.Failed++
			continue
		}
		one, err := s.Ingest(ctx, src.Kind, path)
		if err != nil {
			s.log.Warn("mapping ingest failed", zap.String("kind", string(src.Kind)), zap.String("path", path), zap.Error(err))
			summary.Failed++
			continue
		}
		summary.add(one)
	}

	s.log.Info("mapping ingest finished",
		zap.Int("indexed", summary.Indexed),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Int("entries", summary.Entries))
	return summary, nil
}

// Ingest replaces the stored mapping for kind with the contents of path.
// A source whose path and modification time match the last ingest is
// skipped.
func (s *Store) Ingest(ctx context.Context, kind types.EntityKind, path string) (IngestSummary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("stat %s: %w", path, err)
	}
	modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

	var storedSource, storedModTime string
	err = s.db.QueryRowContext(ctx,
		`SELECT source, mod_time FROM ingest_status WHERE kind = ?`, string(kind),
	).Scan(&storedSource, &storedModTime)
	if err == nil && storedSource == path && storedModTime == modTime {
		s.log.Info("mapping unchanged", zap.String("kind", string(kind)), zap.String("path", path))
		return IngestSummary{Skipped: 1}, nil
	}
	isUpdate := err == nil

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM mappings WHERE kind = ?`, string(kind)); err != nil {
		return IngestSummary{}, fmt.Errorf("deleting old %s mappings: %w", kind, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO mappings (kind, key, attrs) VALUES (?, ?, ?)`)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	entries := 0
	err = readSource(kind, path, func(key string, attrs types.Attributes) error {
		data, err := json.Marshal(attrs)
		if err != nil {
			return fmt.Errorf("encoding attributes for %s: %w", key, err)
		}
		if _, err := stmt.ExecContext(ctx, string(kind), key, string(data)); err != nil {
			return fmt.Errorf("inserting mapping %s: %w", key, err)
		}
		entries++
		return nil
	})
	if err != nil {
		return IngestSummary{}, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ingest_status (kind, source, mod_time, entries) VALUES (?, ?, ?, ?)
		 ON CONFLICT(kind) DO UPDATE SET
			source=excluded.source, mod_time=excluded.mod_time, entries=excluded.entries`,
		string(kind), path, modTime, entries,
	)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("updating ingest status: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return IngestSummary{}, fmt.Errorf("committing %s mappings: %w", kind, err)
	}

	s.log.Info("mapping ingested",
		zap.String("kind", string(kind)),
		zap.String("path", path),
		zap.Int("entries", entries),
		zap.Bool("update", isUpdate))

	if isUpdate {
		return IngestSummary{Updated: 1, Entries: entries}, nil
	}
	return IngestSummary{Indexed: 1, Entries: entries}, nil
}

// Load reads the stored mapping for kind into memory. A kind that was
// never ingested loads as an empty mapping.
func (s *Store) Load(ctx context.Context, kind types.EntityKind) (Mapping, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, attrs FROM mappings WHERE kind = ?`, string(kind))
	if err != nil {
		return Mapping{}, fmt.Errorf("querying %s mappings: %w", kind, err)
	}
	defer rows.Close()

	entries := make(map[string]types.Attributes)
	for rows.Next() {
		var key, data string
		if err := rows.Scan(&key, &data); err != nil {
			return Mapping{}, fmt.Errorf("scanning mapping row: %w", err)
		}
		var attrs types.Attributes
		if err := json.Unmarshal([]byte(data), &attrs); err != nil {
			return Mapping{}, fmt.Errorf("decoding attributes for %s: %w", key, err)
		}
		entries[key] = attrs
	}
	if err := rows.Err(); err != nil {
		return Mapping{}, fmt.Errorf("iterating %s mappings: %w", kind, err)
	}

	s.log.Debug("mapping loaded", zap.String("kind", string(kind)), zap.Int("entries", len(entries)))
	return New(kind, entries), nil
}

// Set bundles the three mappings a relation run resolves against.
type Set struct {
	Genes     Mapping
	Chemicals Mapping
	Diseases  Mapping
}

// LoadSet loads the gene, chemical and disease mappings.
func (s *Store) LoadSet(ctx context.Context) (Set, error) {
	var set Set
	for _, target := range []struct {
		kind types.EntityKind
		dst  *Mapping
	}{
		{types.EntityGene, &set.Genes},
		{types.EntityChemical, &set.Chemicals},
		{types.EntityDisease, &set.Diseases},
	} {
		m, err := s.Load(ctx, target.kind)
		if err != nil {
			return Set{}, err
		}
		*target.dst = m
	}
	return set, nil
}
