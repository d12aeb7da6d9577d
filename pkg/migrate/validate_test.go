package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestValidateDirRejectsBadFiles(t *testing.T) {
	tests := map[string]map[string]string{
		"bad filename": {
			"create_listings.sql": "-- +goose Up\n-- +goose Down\n",
		},
		"duplicate version": {
			"20250301120000_a.sql": "-- +goose Up\n-- +goose Down\n",
			"20250301120000_b.sql": "-- +goose Up\n-- +goose Down\n",
		},
		"missing down": {
			"20250301120000_a.sql": "-- +goose Up\nSELECT 1;\n",
		},
		"down before up": {
			"20250301120000_a.sql": "-- +goose Down\n-- +goose Up\n",
		},
		"unbalanced statement markers": {
			"20250301120000_a.sql": "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n",
		},
	}

	for name, files := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			for file, body := range files {
				if err := os.WriteFile(filepath.Join(dir, file), []byte(body), 0o644); err != nil {
					t.Fatalf("write %s: %v", file, err)
				}
			}
			if err := ValidateDir(dir); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSQLMigrationProducesValidFile(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Listing Drops!")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasSuffix(path, "_add_listing_drops.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
	if _, err := CreateSQLMigration(dir, "!!!"); err == nil {
		t.Fatal("expected error for a name that sanitizes to nothing")
	}
}

func TestCreateSQLMigrationRejectsStaleVersion(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	if _, err := createSQLMigration(dir, "add_drops", now); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := createSQLMigration(dir, "add_sizes", now); err == nil {
		t.Fatal("expected error for a version equal to the newest migration")
	}
	if _, err := createSQLMigration(dir, "add_sizes", now.Add(-time.Hour)); err == nil {
		t.Fatal("expected error for a version older than the newest migration")
	}
	path, err := createSQLMigration(dir, "add_sizes", now.Add(time.Second))
	if err != nil {
		t.Fatalf("create newer: %v", err)
	}
	if filepath.Base(path) != "20250601090001_add_sizes.sql" {
		t.Fatalf("unexpected filename %s", path)
	}
}

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	if err := ValidateEmbedded(); err != nil {
		t.Fatalf("embedded migrations: %v", err)
	}
}
