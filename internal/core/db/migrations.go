package db

import (
	"crypto/sha256"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	embeddedmigrations "github.com/solatis/disku/migrations"
)

// MigrationStatus represents the state of a single migration.
type MigrationStatus struct {
	ID          string
	Checksum    string
	Applied     bool
	AppliedAt   *time.Time
	ExecutionMs int64
}

// MigrateUp runs all pending migrations against the database.
// Detects the driver, selects the matching embedded migration set,
// validates checksums of already-applied files, and applies the rest in
// filename order, each inside a transaction together with its audit row.
func MigrateUp(db *sqlx.DB) error {
	migrationsFS, migrationsDir, err := migrationsFor(db.DriverName())
	if err != nil {
		return err
	}

	if err := createMigrationsTable(db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := parseMigrationFiles(migrationsFS, migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to parse migrations: %w", err)
	}

	// SHA256 checksums detect modification of already-applied files
	if err := validateChecksums(db, migrations); err != nil {
		return fmt.Errorf("migration checksum validation failed: %w", err)
	}

	applied, err := getAppliedMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to query applied migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.ID] {
			continue
		}

		start := time.Now()

		// Migration and its audit row commit or roll back together
		tx, err := db.Beginx()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %s: %w", m.ID, err)
		}

		if err := applyMigration(tx, m); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to apply migration %s: %w", m.ID, err)
		}

		if err := recordMigration(tx, m.ID, m.Checksum, time.Since(start)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %s: %w", m.ID, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %s: %w", m.ID, err)
		}
	}

	return nil
}

// MigrateStatus returns the status of all migrations, applied and pending.
func MigrateStatus(db *sqlx.DB) ([]MigrationStatus, error) {
	migrationsFS, migrationsDir, err := migrationsFor(db.DriverName())
	if err != nil {
		return nil, err
	}

	if err := createMigrationsTable(db); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := parseMigrationFiles(migrationsFS, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to parse migrations: %w", err)
	}

	rows, err := db.Queryx("SELECT migration_id, checksum, applied_at, execution_ms FROM migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]MigrationStatus)
	for rows.Next() {
		var status MigrationStatus
		var appliedAt any
		if err := rows.Scan(&status.ID, &status.Checksum, &appliedAt, &status.ExecutionMs); err != nil {
			return nil, err
		}
		if ts, err := parseAppliedAt(appliedAt); err == nil {
			status.AppliedAt = &ts
		}
		status.Applied = true
		applied[status.ID] = status
	}

	var statuses []MigrationStatus
	for _, m := range migrations {
		if s, ok := applied[m.ID]; ok {
			statuses = append(statuses, s)
		} else {
			statuses = append(statuses, MigrationStatus{ID: m.ID, Checksum: m.Checksum})
		}
	}

	return statuses, nil
}

// parseAppliedAt normalizes the applied_at column across drivers: postgres
// hands back time.Time, sqlite the stored text.
func parseAppliedAt(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return time.Parse("2006-01-02T15:04:05Z", t)
	case []byte:
		return time.Parse("2006-01-02T15:04:05Z", string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected applied_at type %T", v)
	}
}

// migrationsFor selects the embedded migration set for a driver.
func migrationsFor(driver string) (embed.FS, string, error) {
	switch driver {
	case "sqlite3":
		return embeddedmigrations.SqliteMigrations, "sqlite", nil
	case "postgres":
		return embeddedmigrations.PostgresMigrations, "postgres", nil
	default:
		return embed.FS{}, "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// migration represents a parsed migration file.
type migration struct {
	ID       string
	Checksum string
	SQL      string
}

// parseMigrationFiles extracts an ordered list of migrations from embed.FS.
func parseMigrationFiles(fsys embed.FS, dir string) ([]migration, error) {
	var migrations []migration

	err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".sql") {
			return nil
		}

		content, err := fsys.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		hash := sha256.Sum256(content)

		migrations = append(migrations, migration{
			ID:       filepath.Base(path),
			Checksum: fmt.Sprintf("%x", hash),
			SQL:      string(content),
		})

		return nil
	})

	if err != nil {
		return nil, err
	}

	// Filename order is application order
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].ID < migrations[j].ID
	})

	return migrations, nil
}

// createMigrationsTable ensures the migrations tracking table exists.
func createMigrationsTable(db *sqlx.DB) error {
	var createSQL string

	if db.DriverName() == "sqlite3" {
		createSQL = `
			CREATE TABLE IF NOT EXISTS migrations (
				migration_id TEXT PRIMARY KEY,
				checksum TEXT NOT NULL,
				applied_at TEXT NOT NULL,
				execution_ms INTEGER NOT NULL,
				CHECK (applied_at LIKE '____-__-__T__:__:__Z')
			)
		`
	} else {
		createSQL = `
			CREATE TABLE IF NOT EXISTS migrations (
				migration_id TEXT PRIMARY KEY,
				checksum TEXT NOT NULL,
				applied_at TIMESTAMP WITHOUT TIME ZONE NOT NULL,
				execution_ms INTEGER NOT NULL
			)
		`
	}

	_, err := db.Exec(createSQL)
	return err
}

// getAppliedMigrations returns the set of applied migration IDs.
func getAppliedMigrations(db *sqlx.DB) (map[string]bool, error) {
	rows, err := db.Queryx("SELECT migration_id FROM migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		applied[id] = true
	}

	return applied, nil
}

// validateChecksums verifies all applied migrations match embedded files.
func validateChecksums(db *sqlx.DB, migrations []migration) error {
	rows, err := db.Queryx("SELECT migration_id, checksum FROM migrations")
	if err != nil {
		return err
	}
	defer rows.Close()

	checksumMap := make(map[string]string)
	for _, m := range migrations {
		checksumMap[m.ID] = m.Checksum
	}

	for rows.Next() {
		var id, dbChecksum string
		if err := rows.Scan(&id, &dbChecksum); err != nil {
			return err
		}

		expected, ok := checksumMap[id]
		if !ok {
			return fmt.Errorf("migration %s exists in database but not in embedded files", id)
		}
		if dbChecksum != expected {
			return fmt.Errorf("checksum mismatch for migration %s: expected %s, got %s", id, expected, dbChecksum)
		}
	}

	return nil
}

// applyMigration executes a single migration SQL within a transaction.
// Comment lines are stripped before splitting: a semicolon inside a comment
// must not split a statement, and a statement under a header comment must
// still run.
func applyMigration(tx *sqlx.Tx, m migration) error {
	// lib/pq doesn't support multiple statements per Exec, so split
	statements := strings.Split(stripCommentLines(m.SQL), ";")
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("statement failed: %w", err)
		}
	}
	return nil
}

// stripCommentLines drops every line whose first non-blank characters are
// the SQL line-comment marker.
func stripCommentLines(sql string) string {
	lines := strings.Split(sql, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// recordMigration stores migration metadata for the audit trail.
func recordMigration(tx *sqlx.Tx, id, checksum string, duration time.Duration) error {
	now := time.Now().UTC()

	if tx.DriverName() == "sqlite3" {
		_, err := tx.Exec(
			"INSERT INTO migrations (migration_id, checksum, applied_at, execution_ms) VALUES (?, ?, ?, ?)",
			id, checksum, now.Format("2006-01-02T15:04:05Z"), duration.Milliseconds(),
		)
		return err
	}

	_, err := tx.Exec(
		tx.Rebind("INSERT INTO migrations (migration_id, checksum, applied_at, execution_ms) VALUES (?, ?, ?, ?)"),
		id, checksum, now, duration.Milliseconds(),
	)
	return err
}
