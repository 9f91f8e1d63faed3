package database

import (
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestOpenMigratedCreatesTables(t *testing.T) {
	db, err := OpenMigrated(filepath.Join(t.TempDir(), "nested", "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	for _, table := range []string{"users", "profiles", "daily_results"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestMigrateRunsEachFileOnce(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"002_insert.sql": {Data: []byte(`INSERT INTO things(v) VALUES (1);`)},
		"001_create.sql": {Data: []byte(`CREATE TABLE things (v INTEGER);`)},
		"README.md":      {Data: []byte(`ignored`)},
	}
	for i := 0; i < 2; i++ {
		if err := Migrate(db, fsys); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM things`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("recorded migrations = %d, want 2", n)
	}
}
