// Package db opens the player's sqlite store and guards it for library rescans.
package db

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver
)

// DB is the single persistent store shared by the library repository, the
// statistics store and the similar-artist cache.
//
// Main-path operations run under Shared; a library rescan runs under
// Exclusive and blocks every Shared caller until it commits.
type DB struct {
	*sqlx.DB
	mu sync.RWMutex
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	sqlDB, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// A single connection keeps :memory: databases coherent and serialises
	// writers at the driver level.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA busy_timeout=30000"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := initSchema(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &DB{DB: sqlDB}, nil
}

// Shared runs fn while holding the shared side of the rescan guard.
func (d *DB) Shared(fn func(db *sqlx.DB) error) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return fn(d.DB)
}

// Exclusive runs fn inside a transaction while holding the exclusive side of
// the rescan guard. fn must not call back into Shared.
func (d *DB) Exclusive(fn func(tx *sqlx.Tx) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return WithTx(d.DB, fn)
}

// WithTx executes fn within a transaction.
// It handles Begin, Rollback on error, and Commit on success.
func WithTx(db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
