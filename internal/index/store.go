// Package index persists parsed JACL documents in a SQLite database so that
// their contents can be queried without re-parsing.
//
// Each call to WriteSnapshot flattens a tree into rows keyed by a fresh
// snapshot ID. Readers always see the latest snapshot of a file.
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store is a SQLite-backed document index.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the index at path and migrates it.
func Open(path string) (*Store, error) {
	dsn := MemoryPath
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create index directory: %w", err)
			}
		}
		dsn = path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
	} else {
		dsn += "?_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == MemoryPath {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already-migrated database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Path returns the location the store was opened from.
func (s *Store) Path() string { return s.path }

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func generateID() string {
	return uuid.New().String()
}
