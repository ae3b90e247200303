package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// migrations is an ordered list of SQL statements to run.
// The tables mirror the hosted backend's schema so both stores share one data model.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT     PRIMARY KEY,
		email         TEXT     NOT NULL UNIQUE,
		password_hash TEXT     NOT NULL,
		created_at    DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id          TEXT     PRIMARY KEY,
		title       TEXT     NOT NULL,
		description TEXT     NOT NULL DEFAULT '',
		price       INTEGER  NOT NULL DEFAULT 0,
		bedrooms    INTEGER  NOT NULL DEFAULT 0,
		bathrooms   REAL     NOT NULL DEFAULT 0,
		square_feet INTEGER  NOT NULL DEFAULT 0,
		address     TEXT     NOT NULL DEFAULT '',
		images      TEXT     NOT NULL DEFAULT '[]',
		owner_id    TEXT     NOT NULL REFERENCES users(id),
		created_at  DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS property_applications (
		id           TEXT     PRIMARY KEY,
		property_id  TEXT     NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		applicant_id TEXT     NOT NULL REFERENCES users(id),
		email        TEXT     NOT NULL,
		phone        TEXT     NOT NULL,
		message      TEXT     NOT NULL,
		status       TEXT     NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending', 'approved', 'rejected')),
		created_at   DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_property_applications_applicant
		ON property_applications(applicant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_property_applications_property
		ON property_applications(property_id)`,
	`CREATE TABLE IF NOT EXISTS contact_messages (
		id         TEXT     PRIMARY KEY,
		name       TEXT     NOT NULL,
		email      TEXT     NOT NULL,
		message    TEXT     NOT NULL,
		created_at DATETIME NOT NULL
	)`,
}

// migrate runs all migrations in order.
func migrate(db *sqlx.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	// Column additions (idempotent, checks if column exists first)
	columnMigrations := []struct {
		table, column, definition string
	}{
		{"users", "display_name", "TEXT NOT NULL DEFAULT ''"},
	}

	for _, cm := range columnMigrations {
		if err := addColumnIfNotExists(db, cm.table, cm.column, cm.definition); err != nil {
			return fmt.Errorf("adding %s.%s: %w", cm.table, cm.column, err)
		}
	}

	return nil
}

// tableColumn is one row of PRAGMA table_info.
type tableColumn struct {
	CID     int     `db:"cid"`
	Name    string  `db:"name"`
	Type    string  `db:"type"`
	NotNull int     `db:"notnull"`
	Default *string `db:"dflt_value"`
	PK      int     `db:"pk"`
}

// addColumnIfNotExists adds a column to a table if it doesn't already exist.
func addColumnIfNotExists(db *sqlx.DB, table, column, definition string) error {
	var cols []tableColumn
	if err := db.Select(&cols, fmt.Sprintf("PRAGMA table_info(%s)", table)); err != nil {
		return fmt.Errorf("checking table info: %w", err)
	}

	for _, c := range cols {
		if c.Name == column {
			return nil
		}
	}

	_, err := db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
	return err
}
