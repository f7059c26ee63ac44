package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/optikart/optikart-backend/pkg/config"
	"github.com/optikart/optikart-backend/pkg/db"
	"github.com/optikart/optikart-backend/pkg/logger"
	"github.com/optikart/optikart-backend/pkg/migrate"
)

// Schema management for the customers/orders tables the segmentation engine
// reads from. create and validate work on the migration files alone; the
// remaining commands need a reachable database.
func main() {
	cmd := flag.String("cmd", "up", "one of: up, down, status, version, create, validate")
	dir := flag.String("dir", migrate.DefaultDir, "directory holding the goose SQL migrations")
	name := flag.String("name", "", "new migration name, required with -cmd=create")
	version := flag.String("version", "", "target version for -cmd=version (YYYYMMDDHHMMSS)")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "migrate"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	// create and validate never touch the database, so they run before the
	// config is required to carry a valid DSN.
	switch *cmd {
	case "create":
		if *name == "" {
			fatal("-name is required with -cmd=create")
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			fatal("creating migration: %v", err)
		}
		fmt.Println("created", path)
		return
	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			fatal("validating %s:\n%v", *dir, err)
		}
		fmt.Println("migrations in", *dir, "are valid")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		logg.Error(ctx, "failed to unwrap sql connection", err)
		os.Exit(1)
	}

	logg.Info(ctx, "running schema migration")

	switch *cmd {
	case "up", "down", "status":
		if err := migrate.Run(ctx, sqlDB, *dir, *cmd); err != nil {
			fatal("goose %s: %v", *cmd, err)
		}
	case "version":
		if *version == "" {
			fatal("-version is required with -cmd=version")
		}
		if err := migrate.MigrateToVersion(ctx, sqlDB, *dir, *version); err != nil {
			fatal("migrating to version %s: %v", *version, err)
		}
	default:
		fatal("unknown -cmd %q", *cmd)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
