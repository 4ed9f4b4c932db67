package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/solatis/disku/internal/core/db"
)

func TestCheckMigrations(t *testing.T) {
	dbURL := fmt.Sprintf("sqlite://%s", filepath.Join(t.TempDir(), "disku.db"))
	database, err := db.Open(dbURL)
	if err != nil {
		t.Fatalf("db.Open() error = %v, want nil", err)
	}
	t.Cleanup(func() { database.Close() })

	err = checkMigrations(database)
	if err == nil {
		t.Fatal("checkMigrations() error = nil, want error on a fresh database")
	}
	if !strings.Contains(err.Error(), "disku migrate") {
		t.Errorf("error %q should tell the operator to run migrations", err)
	}

	if err := db.MigrateUp(database); err != nil {
		t.Fatalf("db.MigrateUp() error = %v, want nil", err)
	}
	if err := checkMigrations(database); err != nil {
		t.Errorf("checkMigrations() error = %v, want nil after MigrateUp", err)
	}
}
