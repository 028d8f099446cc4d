package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"mrcfield/internal/bootstrap/config"
)

func TestOpenSQLiteCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	dsn := filepath.Join(dir, "mrc.sqlite")

	db, err := Open(context.Background(), config.DatabaseConfig{Driver: "sqlite", DSN: dsn})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("DB() error = %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("sqlite directory missing: %v", err)
	}
	if got := sqlDB.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("max open connections = %d, want 1", got)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.DatabaseConfig{Driver: "mysql", DSN: "x"}); err == nil {
		t.Fatal("Open(mysql) error = nil, want error")
	}
}

func TestEnsureSQLiteDirectorySkipsMemory(t *testing.T) {
	for _, dsn := range []string{":memory:", "", "file:plain.sqlite?cache=shared"} {
		if err := ensureSQLiteDirectory(context.Background(), dsn); err != nil {
			t.Fatalf("ensureSQLiteDirectory(%q) error = %v", dsn, err)
		}
	}
}
