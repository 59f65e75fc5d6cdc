// Command migrate manages the database schema.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/infrastructure/config"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/infrastructure/logger"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var migrationsPath string
	args := os.Args[1:]
	if len(args) >= 2 && args[0] == "-path" {
		migrationsPath = args[1]
		args = args[2:]
	}
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(config.LogConfig{Level: cfg.Log.Level, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	command := args[0]

	// "create" only writes files, no database needed
	if command == "create" {
		if len(args) < 2 {
			log.Fatal("create requires a migration name")
		}
		mf, err := migration.CreateMigration(migrationsPath, args[1])
		if err != nil {
			log.Fatal("failed to create migration", zap.Error(err))
		}
		log.Info("migration created",
			zap.String("up", mf.UpPath),
			zap.String("down", mf.DownPath))
		return
	}

	migrator, err := migration.New(cfg.Database.DSN(), migrationsPath, log)
	if err != nil {
		log.Fatal("failed to initialize migrator", zap.Error(err))
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			log.Error("error closing migrator", zap.Error(err))
		}
	}()

	switch command {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down()
	case "steps":
		if len(args) < 2 {
			log.Fatal("steps requires a count")
		}
		n, parseErr := strconv.Atoi(args[1])
		if parseErr != nil {
			log.Fatal("steps count must be an integer", zap.String("got", args[1]))
		}
		err = migrator.Steps(n)
	case "version":
		version, dirty, verErr := migrator.Version()
		if verErr != nil {
			log.Fatal("failed to read version", zap.Error(verErr))
		}
		log.Info("schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	case "force":
		if len(args) < 2 {
			log.Fatal("force requires a version")
		}
		v, parseErr := strconv.Atoi(args[1])
		if parseErr != nil {
			log.Fatal("force version must be an integer", zap.String("got", args[1]))
		}
		err = migrator.Force(v)
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [-path <dir>] <command>

Commands:
  up               apply all pending migrations
  down             roll back all migrations
  steps <n>        apply n migrations (negative rolls back)
  version          print the current schema version
  force <version>  set the version without migrating (dirty state recovery)
  create <name>    create an empty up/down migration pair`)
}
