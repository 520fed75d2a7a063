// Package repo implements the local seen-order store, backed by GORM with
// the pure Go SQLite driver. This file contains database bootstrapping
// helpers; the store itself lives in seen.go.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/shipstation-cli/internal/domain"
)

// OpenSQLite opens (or creates) the SQLite database at path and applies
// PRAGMAs. The parent directory is created if missing, so the store works
// out of the box at its default per-user location.
func OpenSQLite(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open seen-order store: %w", err)
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// One invocation, one caller; keep the pool minimal.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	}

	return db, nil
}

// AutoMigrate ensures the seen_orders table exists. Safe to call on every
// invocation.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.SeenOrder{})
}
