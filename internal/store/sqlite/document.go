// Package sqlite persists the catalog document in a SQLite database, as an
// alternative to the JSON file.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/proboots/storefront/internal/domain"
	"github.com/proboots/storefront/internal/store"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// DocumentStore keeps the catalog as a single JSON row.
type DocumentStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates or opens the database at path and applies the schema.
func Open(path string, logger *slog.Logger) (*DocumentStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One connection serializes writers.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=FULL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	if logger != nil {
		logger.Info("Catalog database opened", "path", path)
	}
	return &DocumentStore{db: db, logger: logger}, nil
}

// Close closes the underlying database connection.
func (s *DocumentStore) Close() error {
	return s.db.Close()
}

// Load returns store.ErrNotFound before the first Save.
func (s *DocumentStore) Load(ctx context.Context) (*domain.Catalog, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM catalog_document WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select catalog: %w", err)
	}

	var doc domain.Catalog
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, store.ErrCorrupt.WithCause(err)
	}
	return &doc, nil
}

// Save replaces the document and bumps its revision.
func (s *DocumentStore) Save(ctx context.Context, doc *domain.Catalog) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO catalog_document (id, body, revision, updated_at)
		VALUES (1, ?, 1, ?)
		ON CONFLICT(id) DO UPDATE SET
			body = excluded.body,
			revision = catalog_document.revision + 1,
			updated_at = excluded.updated_at`,
		string(body), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert catalog: %w", err)
	}
	return nil
}

// Revision returns how many times the document has been saved.
func (s *DocumentStore) Revision(ctx context.Context) (int64, error) {
	var rev int64
	err := s.db.QueryRowContext(ctx, `SELECT revision FROM catalog_document WHERE id = 1`).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return rev, err
}

// Ping reports whether the database answers and the document table is readable.
func (s *DocumentStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return err
	}
	if _, err := s.Revision(ctx); err != nil {
		return fmt.Errorf("read catalog revision: %w", err)
	}
	return nil
}
