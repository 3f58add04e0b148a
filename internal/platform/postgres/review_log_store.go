package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
	"github.com/kotoba-app/kotoba-api/internal/platform/logger"
	"github.com/kotoba-app/kotoba-api/internal/store"
)

// PostgresReviewLogStore implements the store.ReviewLogStore interface
// using a PostgreSQL database as the storage backend. The backing table is
// append-only; this store exposes no update or delete operations.
type PostgresReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewLogStore creates a new PostgreSQL implementation of the
// ReviewLogStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresReviewLogStore(db store.DBTX, logger *slog.Logger) *PostgresReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_log_store")),
	}
}

// Ensure PostgresReviewLogStore implements store.ReviewLogStore interface
var _ store.ReviewLogStore = (*PostgresReviewLogStore)(nil)

// WithTx implements store.ReviewLogStore.WithTx
// It returns a new store instance bound to the given transaction.
func (s *PostgresReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &PostgresReviewLogStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ReviewLogStore.Create
// It appends a review log entry, handling domain validation.
// Returns store.ErrInvalidEntity if the learner or item does not exist.
func (s *PostgresReviewLogStore) Create(ctx context.Context, reviewLog *domain.ReviewLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := reviewLog.Validate(); err != nil {
		log.Warn("review log validation failed during create",
			slog.String("error", err.Error()),
			slog.String("review_log_id", reviewLog.ID.String()))
		return err
	}

	query := `
		INSERT INTO review_logs (id, learner_id, item_id, quality, response_time_seconds,
			answered_at, easiness_factor, interval_days, repetitions, stage, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		reviewLog.ID,
		reviewLog.LearnerID,
		reviewLog.ItemID,
		reviewLog.Quality,
		reviewLog.ResponseTimeSeconds,
		reviewLog.AnsweredAt,
		reviewLog.EasinessFactor,
		reviewLog.IntervalDays,
		reviewLog.Repetitions,
		string(reviewLog.Stage),
		reviewLog.CreatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during review log creation",
				slog.String("error", err.Error()),
				slog.String("learner_id", reviewLog.LearnerID.String()),
				slog.String("item_id", reviewLog.ItemID.String()))
			return fmt.Errorf("%w: learner or item does not exist", store.ErrInvalidEntity)
		}

		log.Error("failed to create review log",
			slog.String("error", err.Error()),
			slog.String("review_log_id", reviewLog.ID.String()))
		return MapError(err)
	}

	log.Debug("review log created",
		slog.String("review_log_id", reviewLog.ID.String()),
		slog.String("learner_id", reviewLog.LearnerID.String()),
		slog.String("item_id", reviewLog.ItemID.String()),
		slog.Int("quality", reviewLog.Quality))
	return nil
}

// ListForItem implements store.ReviewLogStore.ListForItem
// It retrieves the review history for a (learner, item) pair, most recent
// answer first. Returns an empty slice when the item has never been answered.
func (s *PostgresReviewLogStore) ListForItem(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
	limit int,
) ([]*domain.ReviewLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 50 // Default limit
	}

	log.Debug("listing review logs for item",
		slog.String("learner_id", learnerID.String()),
		slog.String("item_id", itemID.String()),
		slog.Int("limit", limit))

	query := `
		SELECT id, learner_id, item_id, quality, response_time_seconds,
			answered_at, easiness_factor, interval_days, repetitions, stage, created_at
		FROM review_logs
		WHERE learner_id = $1 AND item_id = $2
		ORDER BY answered_at DESC, created_at DESC
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, learnerID, itemID, limit)
	if err != nil {
		log.Error("failed to query review logs",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.String("item_id", itemID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var logs []*domain.ReviewLog
	for rows.Next() {
		var entry domain.ReviewLog
		var stage string

		err := rows.Scan(
			&entry.ID,
			&entry.LearnerID,
			&entry.ItemID,
			&entry.Quality,
			&entry.ResponseTimeSeconds,
			&entry.AnsweredAt,
			&entry.EasinessFactor,
			&entry.IntervalDays,
			&entry.Repetitions,
			&stage,
			&entry.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan review log row",
				slog.String("error", err.Error()))
			return nil, err
		}

		entry.Stage = domain.ParseStage(stage)
		logs = append(logs, &entry)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if logs == nil {
		logs = []*domain.ReviewLog{}
	}

	return logs, nil
}
