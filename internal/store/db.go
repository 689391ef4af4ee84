package store

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"genosum/internal/errors"
)

// ErrNotInitialized is returned when the history schema has not been created.
var ErrNotInitialized = stderrors.New("history database not initialized: run a summary with history_db set first")

// Store keeps run history in SQLite.
type Store struct {
	db *sql.DB
}

// New opens the database at dbPath. Use ":memory:" for an in-memory
// database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewStorageError("failed to open database", err)
	}

	// SQLite allows one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errors.NewStorageError("failed to enable foreign keys", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, errors.NewStorageError("failed to enable WAL mode", err)
	}

	return &Store{db: db}, nil
}

// Open opens dbPath and creates the schema if needed.
func Open(dbPath string) (*Store, error) {
	s, err := New(dbPath)
	if err != nil {
		return nil, err
	}
	if err := s.CreateSchema(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateSchema creates all tables and indexes.
func (s *Store) CreateSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return errors.NewStorageError("failed to create schema", err)
	}
	return nil
}

// wrapQueryError maps a missing-table error to ErrNotInitialized.
func wrapQueryError(op string, err error) error {
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%s: %w", op, ErrNotInitialized)
	}
	return errors.NewStorageError(op, err)
}
