package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/diewo77/go-recipes/internal/config"
	"github.com/diewo77/go-recipes/internal/db"
	"github.com/diewo77/go-recipes/internal/logger"
	"github.com/diewo77/go-recipes/internal/policy"
	"github.com/diewo77/go-recipes/internal/services"
)

var (
	migrateOnlyFlag     = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag        = flag.Bool("seed-only", false, "Create the superuser from SUPERUSER_EMAIL/SUPERUSER_PASSWORD and exit")
	createSuperuserFlag = flag.String("create-superuser", "", "Create a superuser given as email:password and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(logger.Config{
		Format:      cfg.Log.Format,
		Environment: cfg.App.Env,
		Level:       logger.ParseLevel(cfg.Log.Level),
	})
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.Connect(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := db.Migrate(ctx, conn, *cfg, log); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if *migrateOnlyFlag {
		log.Info("migrations completed")
		return nil
	}

	users := services.NewUserService(conn)
	if *createSuperuserFlag != "" {
		email, password, ok := strings.Cut(*createSuperuserFlag, ":")
		if !ok {
			return errors.New("-create-superuser expects email:password")
		}
		u, err := users.CreateSuperuser(ctx, email, password)
		if err != nil {
			return fmt.Errorf("create superuser: %w", err)
		}
		log.Info("superuser created", "user_id", u.ID, "email", u.Email)
		return nil
	}
	if err := seed(ctx, cfg.Superuser, users, log); err != nil {
		return err
	}
	if *seedOnlyFlag {
		log.Info("seeding completed")
		return nil
	}

	routerCfg := policy.NewRouterConfig(conn, log)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      NewApp(cfg, routerCfg, log),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Server.Port, "env", cfg.App.Env, "api_prefix", cfg.Server.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped gracefully")
	return nil
}

// seed creates the configured superuser when it does not exist yet.
func seed(ctx context.Context, su config.SuperuserConfig, users *services.UserService, log *slog.Logger) error {
	if su.Email == "" {
		return nil
	}
	created, err := users.EnsureSuperuser(ctx, su.Email, su.Password)
	if err != nil {
		return fmt.Errorf("seed superuser: %w", err)
	}
	if created {
		log.Info("superuser created", "email", su.Email)
	}
	return nil
}
