// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/diewo77/go-recipes/internal/config"
	"github.com/diewo77/go-recipes/internal/db"
)

var seq atomic.Int64

// Config returns a sqlite configuration pointing at a fresh in-memory database.
func Config() config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:         config.DriverSQLite,
		Path:           fmt.Sprintf("file:recipes_test_%d?mode=memory&cache=shared", seq.Add(1)),
		ConnectRetries: 1,
	}
}

// New returns a migrated database private to the calling test.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	conn, err := db.Connect(context.Background(), Config(), log)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(context.Background(), conn); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}
