// Command seed creates the schema and loads YAML fixtures into the database.
//
//	seed -fixtures testdata/fixtures.yaml
//	seed -reset -fixtures testdata/fixtures.yaml   # drop and recreate first
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"inkwell/internal/config"
	"inkwell/internal/infra/db"
	"inkwell/internal/observability/logging"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before the environment")
	fixtures := flag.String("fixtures", "", "YAML fixtures to load; schema only when empty")
	reset := flag.Bool("reset", false, "drop all tables before migrating")
	flag.Parse()

	if err := run(*configPath, *envFile, *fixtures, *reset); err != nil {
		slog.Error("seed failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(configPath, envFile, fixturesPath string, reset bool) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Fixtures are validated before touching the database.
	var fx *db.Fixtures
	if fixturesPath != "" {
		f, err := os.Open(fixturesPath)
		if err != nil {
			return fmt.Errorf("open fixtures: %w", err)
		}
		fx, err = db.LoadFixtures(f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", fixturesPath, err)
		}
	}

	database, err := db.Open(ctx, cfg.Database.DSN, db.ConnectionConfig{PingTimeout: cfg.Database.PingTimeout})
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	if reset {
		if err := db.MigrateDown(ctx, database); err != nil {
			return err
		}
		logger.Info("schema dropped")
	}
	if err := db.MigrateUp(ctx, database); err != nil {
		return err
	}
	logger.Info("schema ready")

	if fx == nil {
		return nil
	}
	return db.Seed(ctx, database, fx)
}
