package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/kotoba-app/kotoba-api/internal/api"
	"github.com/kotoba-app/kotoba-api/internal/config"
	"github.com/kotoba-app/kotoba-api/internal/domain/srs"
	"github.com/kotoba-app/kotoba-api/internal/platform/postgres"
	"github.com/kotoba-app/kotoba-api/internal/service/study"
)

// application holds the fully wired dependency graph of the server.
// Construction is strictly bottom-up: database, stores, domain services,
// application services, then HTTP handlers.
type application struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB

	studyHandler *api.StudyHandler
}

// newApplication builds the dependency graph from configuration.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	learnerStore := postgres.NewPostgresLearnerStore(db, logger)
	itemStore := postgres.NewPostgresItemStore(db, logger)
	stateStore := postgres.NewPostgresSchedulingStateStore(db, logger)
	reviewLogStore := postgres.NewPostgresReviewLogStore(db, logger)

	params := srs.NewParams(srs.ParamsConfig{
		MinEasinessFactor:     cfg.Scheduler.MinEasinessFactor,
		MaxEasinessFactor:     cfg.Scheduler.MaxEasinessFactor,
		InitialEasinessFactor: cfg.Scheduler.InitialEasinessFactor,
		ReviewThreshold:       cfg.Scheduler.ReviewThreshold,
		MasteredThreshold:     cfg.Scheduler.MasteredThreshold,
		MaxDuePerSession:      cfg.Scheduler.MaxDuePerSession,
		MaxNewPerSession:      cfg.Scheduler.MaxNewPerSession,
	})
	srsService := srs.NewServiceWithParams(params)

	studyService := study.NewStudyService(
		db,
		learnerStore,
		itemStore,
		stateStore,
		reviewLogStore,
		srsService,
		params,
		logger,
	)

	studyHandler := api.NewStudyHandler(studyService, logger)

	return &application{
		cfg:          cfg,
		logger:       logger,
		db:           db,
		studyHandler: studyHandler,
	}, nil
}

// cleanup releases resources held by the application.
func (a *application) cleanup() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close database connection", "error", err)
		}
	}
}
