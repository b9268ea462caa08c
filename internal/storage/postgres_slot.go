package storage

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	pq "github.com/lib/pq"

	"github.com/julianstephens/ordiaa/internal/constants"
	"github.com/julianstephens/ordiaa/internal/migration"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// OpenPostgresSlot connects, creates the ordiaa schema and applies migrations.
// The connection string must not carry a password; use .pgpass or PGPASSWORD.
func OpenPostgresSlot(connStr string) (*SQLSlot, error) {
	if err := ValidateConnString(connStr); err != nil {
		return nil, err
	}
	return openPostgres(connStr)
}

// openKeyringPostgresSlot is OpenPostgresSlot for a connection string read from
// the OS keyring, where an embedded password is acceptable.
func openKeyringPostgresSlot(connStr string) (*SQLSlot, error) {
	if err := ValidateConnString(connStr); err != nil && !errors.Is(err, ErrEmbeddedCredentials) {
		return nil, err
	}
	return openPostgres(connStr)
}

func openPostgres(connStr string) (*SQLSlot, error) {
	connStr = withSearchPath(connStr)

	db, err := sqlx.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasParam(connStr, "sslmode") {
			return nil, fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if err := migrate(db, migration.DialectPostgres); err != nil {
		db.Close()
		return nil, err
	}
	return newSQLSlot(db, migration.DialectPostgres, redact(connStr)), nil
}

// ValidateConnString accepts URL and key=value forms and rejects embedded passwords.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}
	if HasEmbeddedCredentials(connStr) {
		return ErrEmbeddedCredentials
	}
	return nil
}

// HasEmbeddedCredentials reports whether connStr carries a password.
func HasEmbeddedCredentials(connStr string) bool {
	if IsPostgresURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return false
		}
		if _, ok := u.User.Password(); ok {
			return true
		}
		return u.Query().Has("password")
	}
	return hasParam(connStr, "password")
}

// withSearchPath points unqualified table names at the ordiaa schema unless
// the caller already chose a search_path.
func withSearchPath(connStr string) string {
	if hasParam(connStr, "search_path") {
		return connStr
	}
	if IsPostgresURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return connStr
		}
		q := u.Query()
		q.Set("search_path", constants.AppName)
		u.RawQuery = q.Encode()
		return u.String()
	}
	return strings.TrimSpace(connStr) + " search_path=" + constants.AppName
}

// hasParam looks for key (case-insensitive) in either the URL query or the
// space-separated key=value form.
func hasParam(connStr, key string) bool {
	if IsPostgresURL(connStr) {
		if u, err := url.Parse(connStr); err == nil {
			for k := range u.Query() {
				if strings.EqualFold(k, key) {
					return true
				}
			}
		}
		return false
	}
	for _, part := range strings.Fields(connStr) {
		k, _, ok := strings.Cut(part, "=")
		if ok && strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

// redact drops query parameters and masks any password so Location is safe to print.
func redact(connStr string) string {
	if !IsPostgresURL(connStr) {
		return "postgres"
	}
	u, err := url.Parse(connStr)
	if err != nil {
		return "postgres"
	}
	u.RawQuery = ""
	return u.Redacted()
}
