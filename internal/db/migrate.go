package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	migrate "github.com/golang-migrate/migrate/v4"
	// Registers the postgres database driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	"github.com/diewo77/go-recipes/internal/config"
	"github.com/diewo77/go-recipes/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// requiredTables must exist once Migrate returns.
var requiredTables = []string{"users", "tokens", "tags", "ingredients", "recipes", "recipe_tags", "recipe_ingredients"}

// Migrate brings the schema up to date. With MIGRATIONS enabled on postgres
// the embedded SQL migrations run through golang-migrate; otherwise gorm
// AutoMigrate derives the schema from the models.
func Migrate(ctx context.Context, conn *gorm.DB, cfg config.Config, log *slog.Logger) error {
	if cfg.App.Migrations && cfg.Database.Driver == config.DriverPostgres {
		log.Info("running sql migrations")
		if err := runSQLMigrations(cfg.Database.URL()); err != nil {
			return fmt.Errorf("sql migrations: %w", err)
		}
	} else {
		if cfg.App.Migrations {
			log.Warn("sql migrations only target postgres, falling back to automigrate", "driver", cfg.Database.Driver)
		}
		if err := AutoMigrate(ctx, conn); err != nil {
			return err
		}
	}

	for _, table := range requiredTables {
		if !conn.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// AutoMigrate creates or updates every table from the models. The models go
// in a single call so gorm can order the join tables after their owners.
func AutoMigrate(ctx context.Context, conn *gorm.DB) error {
	if err := conn.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func runSQLMigrations(url string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
