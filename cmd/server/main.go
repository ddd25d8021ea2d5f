// Package main implements the entry point of the to-do API server, which
// serves task CRUD over HTTP and runs the recurring due-date reminder jobs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/todoapi/server/internal/config"
	"github.com/todoapi/server/internal/platform/logger"
	"github.com/todoapi/server/internal/platform/postgres"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("todo-api: %v", err)
	}
}

// run parses flags, loads configuration and either executes a migration
// command or serves until SIGINT/SIGTERM.
func run(args []string) error {
	fs := flag.NewFlagSet("todo-api", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file (default ./config.yaml if present)")
	migrateCmd := fs.String("migrate", "",
		"run a migration command (up, down, reset, status, version) and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAppConfig(*configPath)
	if err != nil {
		return err
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	l.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"scheduler_enabled", cfg.Scheduler.Enabled,
		"notification_sink", cfg.Notification.Sink)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg.Database, l)
	if err != nil {
		return err
	}

	if *migrateCmd != "" {
		defer closeDB(db, l)
		return postgres.Migrate(ctx, db, *migrateCmd, l)
	}

	app, err := newApplication(cfg, l, db)
	if err != nil {
		closeDB(db, l)
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

// loadAppConfig loads the application configuration from defaults, the
// optional config file and the environment.
func loadAppConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	slog.Debug("configuration loaded", "database_url_present", cfg.Database.URL != "")
	return cfg, nil
}
