// Package main is the entry point for the kotoba API server.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/kotoba-app/kotoba-api/internal/config"
	"github.com/kotoba-app/kotoba-api/internal/platform/logger"
)

func main() {
	migrate := flag.String("migrate", "", "Run database migrations (up|down|status|create) and exit")
	migrationName := flag.String("migration-name", "", "Name for a new migration (used with -migrate create)")
	flag.Parse()

	// Load .env if present; environment variables win either way.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logger: %v\n", err)
		os.Exit(1)
	}

	if *migrate != "" {
		if err := runMigrations(cfg, log, *migrate, *migrationName); err != nil {
			log.Error("migration command failed", "command", *migrate, "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// run wires the application together and serves HTTP until shutdown.
func run(cfg *config.Config, log *slog.Logger) error {
	app, err := newApplication(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return startHTTPServer(app)
}
