// Package database provides connection setup for MySQL and Redis.
// This file validates migration SQL files to catch schema mismatches early.
package database

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// migrationsDir returns the absolute path to db/migrations/ from the project root.
func migrationsDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	// thisFile is internal/database/migrate_test.go, project root is two dirs up.
	projectRoot := filepath.Join(filepath.Dir(thisFile), "..", "..")
	dir := filepath.Join(projectRoot, "db", "migrations")
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("migrations directory not found at %s: %v", dir, err)
	}
	return dir
}

// TestMigrations_UpDownPairs verifies every .up.sql migration has a matching
// .down.sql so a failed deploy can always roll back.
func TestMigrations_UpDownPairs(t *testing.T) {
	dir := migrationsDir(t)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading migrations dir: %v", err)
	}

	ups := make(map[string]bool)
	downs := make(map[string]bool)
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	if len(ups) == 0 {
		t.Fatal("no .up.sql migrations found")
	}
	for base := range ups {
		if !downs[base] {
			t.Errorf("migration %s has no matching .down.sql", base)
		}
	}
	for base := range downs {
		if !ups[base] {
			t.Errorf("migration %s has no matching .up.sql", base)
		}
	}
}

// TestMigrations_UniqueConstraints verifies the users table keeps its
// username and email unique keys. Application-level pre-checks depend on
// these constraints being the real uniqueness guarantee.
func TestMigrations_UniqueConstraints(t *testing.T) {
	dir := migrationsDir(t)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading migrations dir: %v", err)
	}

	var all strings.Builder
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".up.sql") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("reading %s: %v", e.Name(), err)
		}
		all.Write(data)
	}

	sql := strings.ToLower(all.String())
	for _, col := range []string{"username", "email"} {
		if !strings.Contains(sql, "unique key uq_users_"+col) {
			t.Errorf("users.%s unique constraint missing from migrations", col)
		}
	}
	if !strings.Contains(sql, "on delete cascade") {
		t.Error("links foreign key must cascade on user deletion")
	}
}
