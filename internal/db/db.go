// Package db opens the gorm connection and keeps the schema up to date.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/go-recipes/internal/config"
)

// RetryDelay is the pause between two connection attempts.
var RetryDelay = 2 * time.Second

var passwordRe = regexp.MustCompile(`(password=)(\S+)`)

// Connect opens the database described by cfg, retrying while the server
// is not reachable yet, and checks the connection with SELECT 1.
func Connect(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}
	gormCfg := &gorm.Config{Logger: newGormLogger(log, cfg.Debug), TranslateError: true}

	attempts := max(cfg.ConnectRetries, 1)
	var conn *gorm.DB
	for i := 1; i <= attempts; i++ {
		conn, err = gorm.Open(dialector, gormCfg)
		if err == nil {
			err = conn.WithContext(ctx).Exec("SELECT 1").Error
		}
		if err == nil {
			break
		}
		log.Warn("database not ready", "attempt", i, "of", attempts, "error", err)
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(RetryDelay):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect database after %d attempts: %w", attempts, err)
	}

	log.Info("database connected", "driver", cfg.Driver, "dsn", maskedDSN(cfg))
	return conn, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(sqliteDSN(cfg.Path)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// sqliteDSN turns on foreign key enforcement, which SQLite leaves off.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=1"
}

func maskedDSN(cfg config.DatabaseConfig) string {
	if cfg.Driver == config.DriverSQLite {
		return cfg.Path
	}
	return passwordRe.ReplaceAllString(cfg.DSN(), "${1}***")
}

// Ping runs a lightweight query against the database.
func Ping(ctx context.Context, conn *gorm.DB) error {
	return conn.WithContext(ctx).Exec("SELECT 1").Error
}

// gormWriter forwards gorm's printf-style logs to slog.
type gormWriter struct {
	log *slog.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "gorm")
}

func newGormLogger(log *slog.Logger, debug bool) logger.Interface {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return logger.New(gormWriter{log: log}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
