package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/kotoba-app/kotoba-api/internal/config"
)

// migrationsDir is the path to the goose migration files, relative to the
// working directory of the server binary.
const migrationsDir = "migrations"

// slogGooseLogger adapts goose's logger interface to slog so migration
// output lands in the same structured stream as everything else.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// runMigrations executes the requested goose command against the configured
// database and returns once it completes.
func runMigrations(cfg *config.Config, logger *slog.Logger, command, name string) error {
	goose.SetLogger(&slogGooseLogger{logger: logger})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("failed to close migration database connection", "error", closeErr)
		}
	}()

	logger.Info("running migration command",
		"command", command,
		"database_url", maskDatabaseURL(cfg.Database.URL))

	switch command {
	case "up":
		return goose.Up(db, migrationsDir)
	case "down":
		return goose.Down(db, migrationsDir)
	case "status":
		return goose.Status(db, migrationsDir)
	case "create":
		if name == "" {
			return fmt.Errorf("migration name is required for create (use -migration-name)")
		}
		return goose.Create(db, migrationsDir, name, "sql")
	default:
		return fmt.Errorf("unknown migration command %q (expected up, down, status or create)", command)
	}
}

// maskDatabaseURL hides credentials in a connection string so it can be
// logged safely. Unparseable URLs are masked entirely.
func maskDatabaseURL(dbURL string) string {
	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "[invalid database URL]"
	}
	if parsed.User != nil {
		parsed.User = url.User("****")
	}
	return parsed.String()
}
