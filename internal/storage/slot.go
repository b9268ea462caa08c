package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/ordiaa/internal/keyring"
)

// ErrSlotEmpty is returned by Slot.Read when nothing is stored under the key
var ErrSlotEmpty = errors.New("slot is empty")

// Slot is a persistent key-value cell scoped to the current user.
type Slot interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
	// Location describes where the data lives, for diagnostics
	Location() string
	Close() error
}

// KeyringLocation selects the postgres slot with the connection string kept in the OS keyring.
const KeyringLocation = "keyring"

// OpenSlot picks a backend from location: a postgres:// URL (or "keyring"),
// a .db/.sqlite path, or a plain JSON file for anything else.
func OpenSlot(location string) (Slot, error) {
	switch {
	case location == KeyringLocation:
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			return nil, fmt.Errorf("failed to read connection string from keyring: %w", err)
		}
		return openKeyringPostgresSlot(connStr)
	case IsPostgresURL(location):
		return OpenPostgresSlot(location)
	}

	path, err := ExpandHome(location)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLiteSlot(path)
	default:
		return NewFileSlot(path), nil
	}
}

// IsPostgresURL reports whether s looks like a postgres connection URL.
func IsPostgresURL(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
