// Package sqlite implements blob persistence on a local SQLite file, the
// embedded equivalent of the mobile app's on-device key-value store. The
// driver is pure Go, so no cgo toolchain is required.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
)

type client struct {
	db *sql.DB
}

// Close releases the underlying database handle.
func (c *client) Close() error {
	return c.db.Close()
}

// NewClient opens (or creates) the database file at path and prepares the
// blob table.
func NewClient(path string) (*client, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS blobs (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`); err != nil {
		return nil, fmt.Errorf("creating blobs table: %w", err)
	}

	return &client{db: db}, nil
}
