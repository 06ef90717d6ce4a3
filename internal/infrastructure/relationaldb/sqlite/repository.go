// Package sqlite provides a SQLite implementation of the AnnotationDB
// interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/medspan/medspan/internal/domain/entities"
	"github.com/medspan/medspan/internal/infrastructure/config"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Repository implements ports.AnnotationDB using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// An in-memory database exists per connection; cap the pool at one so
	// every statement sees the same database.
	if cfg.Path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Clinical documents under annotation. Ids are caller-supplied.
	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY,
		external_id TEXT,
		text TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'unannotated',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_documents_external ON documents(external_id);
	CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);

	-- Character-span annotations over a document's text
	CREATE TABLE IF NOT EXISTS entities (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		document_id INTEGER NOT NULL REFERENCES documents(id),
		start INTEGER NOT NULL,
		"end" INTEGER NOT NULL,
		label TEXT NOT NULL,
		code_system TEXT,
		code TEXT,
		annotator TEXT,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entities_document ON entities(document_id);

	-- Typed edges between two entities of the same document
	CREATE TABLE IF NOT EXISTS relations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		document_id INTEGER NOT NULL REFERENCES documents(id),
		source_entity_id INTEGER NOT NULL REFERENCES entities(id),
		target_entity_id INTEGER NOT NULL REFERENCES entities(id),
		predicate TEXT NOT NULL,
		annotator TEXT,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_relations_document ON relations(document_id);
	CREATE INDEX IF NOT EXISTS idx_relations_source ON relations(source_entity_id);
	CREATE INDEX IF NOT EXISTS idx_relations_target ON relations(target_entity_id);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// mapConstraintErr converts SQLite constraint failures into the domain
// error taxonomy. Unique and primary key violations mean a duplicate id;
// foreign key violations mean a referenced row vanished under us.
func mapConstraintErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", entities.ErrConflict, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", entities.ErrIntegrity, err)
	}
	return err
}
