package migration

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrationsSortedAndParsed(t *testing.T) {
	fsys := fstest.MapFS{
		"002_second.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
		"001_first.sql":  {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"README.md":      {Data: []byte("ignored")},
	}
	runner := NewRunner(openTestDB(t), fsys, DialectSQLite)

	migrations, err := runner.Migrations()
	if err != nil {
		t.Fatalf("Migrations() failed: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[0].Name != "first" {
		t.Errorf("first migration = %+v", migrations[0])
	}
	if migrations[1].Version != 2 || migrations[1].Name != "second" {
		t.Errorf("second migration = %+v", migrations[1])
	}
}

func TestMigrationsRejectsBadNames(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{name: "no underscore", fsys: fstest.MapFS{"001.sql": {Data: []byte("")}}},
		{name: "not a number", fsys: fstest.MapFS{"abc_init.sql": {Data: []byte("")}}},
		{name: "version zero", fsys: fstest.MapFS{"000_init.sql": {Data: []byte("")}}},
		{name: "duplicate", fsys: fstest.MapFS{
			"001_a.sql": {Data: []byte("")},
			"001_b.sql": {Data: []byte("")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(openTestDB(t), tt.fsys, DialectSQLite)
			if _, err := runner.Migrations(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestApplyIsIncremental(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"001_kv.sql": {Data: []byte("CREATE TABLE kv (key TEXT PRIMARY KEY, value TEXT);")},
	}

	runner := NewRunner(db, fsys, DialectSQLite)
	applied, err := runner.Apply()
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}

	// Re-running applies nothing
	applied, err = runner.Apply()
	if err != nil {
		t.Fatalf("second Apply() failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("second applied = %d, want 0", applied)
	}

	fsys["002_extra.sql"] = &fstest.MapFile{Data: []byte("ALTER TABLE kv ADD COLUMN updated_at TEXT;")}
	applied, err = NewRunner(db, fsys, DialectSQLite).Apply()
	if err != nil {
		t.Fatalf("third Apply() failed: %v", err)
	}
	if applied != 1 {
		t.Errorf("third applied = %d, want 1", applied)
	}

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion() failed: %v", err)
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}
}

func TestApplyRollsBackFailedMigration(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"001_ok.sql":  {Data: []byte("CREATE TABLE ok (id INTEGER);")},
		"002_bad.sql": {Data: []byte("CREATE TABLE nope (;")},
	}

	applied, err := NewRunner(db, fsys, DialectSQLite).Apply()
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}

	version, err := NewRunner(db, fsys, DialectSQLite).CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion() failed: %v", err)
	}
	if version != 1 {
		t.Errorf("version = %d, want 1", version)
	}
}

func TestApplyRejectsNewerDatabase(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, fstest.MapFS{"001_init.sql": {Data: []byte("SELECT 1;")}}, DialectSQLite)
	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion() failed: %v", err)
	}
	if _, err := runner.Apply(); err == nil {
		t.Error("expected error for database newer than the migrations")
	}
}
