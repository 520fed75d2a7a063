package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tbourn/shipstation-cli/internal/domain"
)

func TestOpenSQLite_CreatesParentDirAndPragmas(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, ".shipstation", "orders.db")

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("parent directory not created: %v", err)
	}

	var journalMode string
	if err := db.Raw("PRAGMA journal_mode;").Row().Scan(&journalMode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Fatalf("journal_mode = %q; want wal", journalMode)
	}

	var busyMS int
	if err := db.Raw("PRAGMA busy_timeout;").Row().Scan(&busyMS); err != nil {
		t.Fatalf("PRAGMA busy_timeout: %v", err)
	}
	if busyMS != 5000 {
		t.Fatalf("busy_timeout = %d; want 5000", busyMS)
	}
}

func TestAutoMigrate_IdempotentAcrossInvocations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.db")

	// First invocation creates the schema.
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	if err := db.Create(&domain.SeenOrder{OrderID: 1, OrderNumber: "1"}).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	// Second invocation re-runs the migration and still sees the row.
	db2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if err := AutoMigrate(db2); err != nil {
		t.Fatalf("AutoMigrate (second run): %v", err)
	}
	var n int64
	if err := db2.Model(&domain.SeenOrder{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows after reopen = %d; want 1", n)
	}
}
