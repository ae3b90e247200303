// Package db provides the local SQLite database used when no hosted backend is configured.
package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultPath returns the default database path: ~/.ark/ark.db
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".ark", "ark.db"), nil
}

// Open opens (or creates) a SQLite database at the given path,
// enables WAL mode and foreign keys on every connection, and runs migrations.
func Open(path string) (*sqlx.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, closeOnError(db, fmt.Errorf("connecting to database: %w", err))
	}

	if err := migrate(db); err != nil {
		return nil, closeOnError(db, fmt.Errorf("running migrations: %w", err))
	}

	return db, nil
}

func closeOnError(db *sqlx.DB, err error) error {
	if closeErr := db.Close(); closeErr != nil {
		return fmt.Errorf("%w (also failed to close: %v)", err, closeErr)
	}
	return err
}
