package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/ordiaa/internal/migration"
	"github.com/julianstephens/ordiaa/internal/storage/migrations"
)

const kvTable = "kv"

// SQLSlot stores each key as one row of the kv table. It backs both the
// SQLite and the PostgreSQL slot; only the dialect differs.
type SQLSlot struct {
	db       *sqlx.DB
	builder  sq.StatementBuilderType
	location string
	now      func() time.Time
}

func newSQLSlot(db *sqlx.DB, dialect migration.Dialect, location string) *SQLSlot {
	var format sq.PlaceholderFormat = sq.Question
	if dialect == migration.DialectPostgres {
		format = sq.Dollar
	}
	return &SQLSlot{
		db:       db,
		builder:  sq.StatementBuilder.PlaceholderFormat(format),
		location: location,
		now:      time.Now,
	}
}

// migrate applies the embedded schema for dialect.
func migrate(db *sqlx.DB, dialect migration.Dialect) error {
	sub, err := fs.Sub(migrations.FS, string(dialect))
	if err != nil {
		return fmt.Errorf("failed to access %s migrations: %w", dialect, err)
	}
	if _, err := migration.NewRunner(db.DB, sub, dialect).Apply(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *SQLSlot) Location() string { return s.location }

func (s *SQLSlot) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLSlot) Read(key string) ([]byte, error) {
	query, args, err := s.builder.Select("value").From(kvTable).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return nil, err
	}

	var value string
	if err := s.db.Get(&value, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}
	if value == "" {
		return nil, ErrSlotEmpty
	}
	return []byte(value), nil
}

func (s *SQLSlot) Write(key string, data []byte) error {
	query, args, err := s.builder.
		Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, string(data), s.now().UTC()).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}
