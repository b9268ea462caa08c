package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/ordiaa/internal/migration"
)

// OpenSQLiteSlot opens (creating if needed) the database at path and applies the schema.
func OpenSQLiteSlot(path string) (*SQLSlot, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// modernc's sqlite serializes writers; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := migrate(db, migration.DialectSQLite); err != nil {
		db.Close()
		return nil, err
	}
	return newSQLSlot(db, migration.DialectSQLite, path), nil
}
