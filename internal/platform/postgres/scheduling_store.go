package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
	"github.com/kotoba-app/kotoba-api/internal/platform/logger"
	"github.com/kotoba-app/kotoba-api/internal/store"
)

// schedulingStateColumns is the canonical column list shared by every SELECT
// against scheduling_states, so scanSchedulingState stays in sync with it.
const schedulingStateColumns = `learner_id, item_id, easiness_factor, interval_days,
	repetitions, has_ever_succeeded, stage, last_reviewed_at, next_review_at,
	review_count, created_at, updated_at`

// PostgresSchedulingStateStore implements the store.SchedulingStateStore
// interface using a PostgreSQL database as the storage backend.
type PostgresSchedulingStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSchedulingStateStore creates a new PostgreSQL implementation of
// the SchedulingStateStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresSchedulingStateStore(db store.DBTX, logger *slog.Logger) *PostgresSchedulingStateStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSchedulingStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "scheduling_state_store")),
	}
}

// Ensure PostgresSchedulingStateStore implements store.SchedulingStateStore interface
var _ store.SchedulingStateStore = (*PostgresSchedulingStateStore)(nil)

// WithTx implements store.SchedulingStateStore.WithTx
// It returns a new store instance bound to the given transaction.
func (s *PostgresSchedulingStateStore) WithTx(tx *sql.Tx) store.SchedulingStateStore {
	return &PostgresSchedulingStateStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.SchedulingStateStore.Create
// It saves a new scheduling state to the database, handling domain validation.
// Returns store.ErrSchedulingStateExists if a state already exists for the
// (learner, item) pair, and store.ErrInvalidEntity if the learner or item
// does not exist.
func (s *PostgresSchedulingStateStore) Create(ctx context.Context, state *domain.SchedulingState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("scheduling state validation failed during create",
			slog.String("error", err.Error()),
			slog.String("learner_id", state.LearnerID.String()),
			slog.String("item_id", state.ItemID.String()))
		return err
	}

	query := `
		INSERT INTO scheduling_states (` + schedulingStateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		state.LearnerID,
		state.ItemID,
		state.EasinessFactor,
		state.IntervalDays,
		state.Repetitions,
		state.HasEverSucceeded,
		string(state.Stage),
		nullableTime(state.LastReviewedAt),
		state.NextReviewAt,
		state.ReviewCount,
		state.CreatedAt,
		state.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("scheduling state already exists",
				slog.String("learner_id", state.LearnerID.String()),
				slog.String("item_id", state.ItemID.String()))
			return fmt.Errorf("%w: %v", store.ErrSchedulingStateExists, err)
		}
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during scheduling state creation",
				slog.String("error", err.Error()),
				slog.String("learner_id", state.LearnerID.String()),
				slog.String("item_id", state.ItemID.String()))
			return fmt.Errorf("%w: learner or item does not exist", store.ErrInvalidEntity)
		}

		log.Error("failed to create scheduling state",
			slog.String("error", err.Error()),
			slog.String("learner_id", state.LearnerID.String()),
			slog.String("item_id", state.ItemID.String()))
		return MapError(err)
	}

	log.Info("scheduling state created successfully",
		slog.String("learner_id", state.LearnerID.String()),
		slog.String("item_id", state.ItemID.String()),
		slog.String("stage", string(state.Stage)))
	return nil
}

// Get implements store.SchedulingStateStore.Get
// It retrieves a scheduling state by the (learner, item) pair without any
// row locking. Returns store.ErrSchedulingStateNotFound if absent.
func (s *PostgresSchedulingStateStore) Get(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
) (*domain.SchedulingState, error) {
	return s.get(ctx, learnerID, itemID, false)
}

// GetForUpdate implements store.SchedulingStateStore.GetForUpdate
// It retrieves a scheduling state with SELECT FOR UPDATE so concurrent
// answers to the same item serialize instead of losing an update. Must be
// called within a transaction.
func (s *PostgresSchedulingStateStore) GetForUpdate(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
) (*domain.SchedulingState, error) {
	return s.get(ctx, learnerID, itemID, true)
}

func (s *PostgresSchedulingStateStore) get(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
	forUpdate bool,
) (*domain.SchedulingState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving scheduling state",
		slog.String("learner_id", learnerID.String()),
		slog.String("item_id", itemID.String()),
		slog.Bool("for_update", forUpdate))

	query := `
		SELECT ` + schedulingStateColumns + `
		FROM scheduling_states
		WHERE learner_id = $1 AND item_id = $2
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	row := s.db.QueryRowContext(ctx, query, learnerID, itemID)
	state, err := scanSchedulingState(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("scheduling state not found",
				slog.String("learner_id", learnerID.String()),
				slog.String("item_id", itemID.String()))
			return nil, store.ErrSchedulingStateNotFound
		}
		log.Error("failed to get scheduling state",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.String("item_id", itemID.String()))
		return nil, MapError(err)
	}

	return state, nil
}

// Update implements store.SchedulingStateStore.Update
// It overwrites the mutable scheduling fields for an existing (learner, item)
// row. Returns store.ErrSchedulingStateNotFound if the row does not exist.
func (s *PostgresSchedulingStateStore) Update(ctx context.Context, state *domain.SchedulingState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("scheduling state validation failed during update",
			slog.String("error", err.Error()),
			slog.String("learner_id", state.LearnerID.String()),
			slog.String("item_id", state.ItemID.String()))
		return err
	}

	query := `
		UPDATE scheduling_states
		SET easiness_factor = $1,
			interval_days = $2,
			repetitions = $3,
			has_ever_succeeded = $4,
			stage = $5,
			last_reviewed_at = $6,
			next_review_at = $7,
			review_count = $8,
			updated_at = $9
		WHERE learner_id = $10 AND item_id = $11
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		state.EasinessFactor,
		state.IntervalDays,
		state.Repetitions,
		state.HasEverSucceeded,
		string(state.Stage),
		nullableTime(state.LastReviewedAt),
		state.NextReviewAt,
		state.ReviewCount,
		state.UpdatedAt,
		state.LearnerID,
		state.ItemID,
	)

	if err != nil {
		log.Error("failed to update scheduling state",
			slog.String("error", err.Error()),
			slog.String("learner_id", state.LearnerID.String()),
			slog.String("item_id", state.ItemID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "scheduling state"); err != nil {
		log.Debug("scheduling state not found for update",
			slog.String("learner_id", state.LearnerID.String()),
			slog.String("item_id", state.ItemID.String()))
		return store.ErrSchedulingStateNotFound
	}

	log.Info("scheduling state updated successfully",
		slog.String("learner_id", state.LearnerID.String()),
		slog.String("item_id", state.ItemID.String()),
		slog.String("stage", string(state.Stage)),
		slog.Int("interval_days", state.IntervalDays))
	return nil
}

// Delete implements store.SchedulingStateStore.Delete
// It removes the scheduling state for a single (learner, item) pair.
// Returns store.ErrSchedulingStateNotFound if the row does not exist.
func (s *PostgresSchedulingStateStore) Delete(ctx context.Context, learnerID, itemID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM scheduling_states
		WHERE learner_id = $1 AND item_id = $2
	`

	result, err := s.db.ExecContext(ctx, query, learnerID, itemID)
	if err != nil {
		log.Error("failed to delete scheduling state",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.String("item_id", itemID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "scheduling state"); err != nil {
		log.Debug("scheduling state not found for delete",
			slog.String("learner_id", learnerID.String()),
			slog.String("item_id", itemID.String()))
		return store.ErrSchedulingStateNotFound
	}

	log.Info("scheduling state deleted successfully",
		slog.String("learner_id", learnerID.String()),
		slog.String("item_id", itemID.String()))
	return nil
}

// DeleteForLearner implements store.SchedulingStateStore.DeleteForLearner
// It removes all scheduling state for a learner as part of a full progress
// reset. Deleting zero rows is not an error.
func (s *PostgresSchedulingStateStore) DeleteForLearner(
	ctx context.Context,
	learnerID uuid.UUID,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM scheduling_states
		WHERE learner_id = $1
	`

	result, err := s.db.ExecContext(ctx, query, learnerID)
	if err != nil {
		log.Error("failed to delete scheduling states for learner",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return 0, MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return 0, err
	}

	log.Info("scheduling states deleted for learner",
		slog.String("learner_id", learnerID.String()),
		slog.Int64("count", rowsAffected))
	return rowsAffected, nil
}

// ListDue implements store.SchedulingStateStore.ListDue
// It retrieves the learner's states due on or before the given date, joined
// with the item's catalog order index, ordered by review date then order
// index so the queue builder gets deterministic input.
func (s *PostgresSchedulingStateStore) ListDue(
	ctx context.Context,
	learnerID uuid.UUID,
	dueBy time.Time,
	limit int,
) ([]store.DueState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 50 // Default limit
	}

	log.Debug("listing due scheduling states",
		slog.String("learner_id", learnerID.String()),
		slog.Time("due_by", dueBy),
		slog.Int("limit", limit))

	query := `
		SELECT ss.learner_id, ss.item_id, ss.easiness_factor, ss.interval_days,
			ss.repetitions, ss.has_ever_succeeded, ss.stage, ss.last_reviewed_at,
			ss.next_review_at, ss.review_count, ss.created_at, ss.updated_at,
			i.order_index
		FROM scheduling_states ss
		JOIN items i ON i.id = ss.item_id
		WHERE ss.learner_id = $1 AND ss.next_review_at <= $2
		ORDER BY ss.next_review_at ASC, i.order_index ASC
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, learnerID, dueBy, limit)
	if err != nil {
		log.Error("failed to query due scheduling states",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var due []store.DueState
	for rows.Next() {
		var orderIndex int
		state, err := scanSchedulingState(func(dest ...any) error {
			dest = append(dest, &orderIndex)
			return rows.Scan(dest...)
		})
		if err != nil {
			log.Error("failed to scan due scheduling state row",
				slog.String("error", err.Error()))
			return nil, err
		}
		due = append(due, store.DueState{State: state, OrderIndex: orderIndex})
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if due == nil {
		due = []store.DueState{}
	}

	log.Debug("found due scheduling states",
		slog.String("learner_id", learnerID.String()),
		slog.Int("count", len(due)))
	return due, nil
}

// ListByCategory implements store.SchedulingStateStore.ListByCategory
// It retrieves all of the learner's states paired with their item's category,
// the shape the readiness aggregator consumes.
func (s *PostgresSchedulingStateStore) ListByCategory(
	ctx context.Context,
	learnerID uuid.UUID,
) ([]store.CategoryState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("listing scheduling states by category",
		slog.String("learner_id", learnerID.String()))

	query := `
		SELECT ss.learner_id, ss.item_id, ss.easiness_factor, ss.interval_days,
			ss.repetitions, ss.has_ever_succeeded, ss.stage, ss.last_reviewed_at,
			ss.next_review_at, ss.review_count, ss.created_at, ss.updated_at,
			i.category
		FROM scheduling_states ss
		JOIN items i ON i.id = ss.item_id
		WHERE ss.learner_id = $1
	`

	rows, err := s.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		log.Error("failed to query scheduling states by category",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var states []store.CategoryState
	for rows.Next() {
		var category string
		state, err := scanSchedulingState(func(dest ...any) error {
			dest = append(dest, &category)
			return rows.Scan(dest...)
		})
		if err != nil {
			log.Error("failed to scan scheduling state row",
				slog.String("error", err.Error()))
			return nil, err
		}
		states = append(states, store.CategoryState{
			Category: domain.Category(category),
			State:    state,
		})
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if states == nil {
		states = []store.CategoryState{}
	}

	log.Debug("found scheduling states by category",
		slog.String("learner_id", learnerID.String()),
		slog.Int("count", len(states)))
	return states, nil
}

// scanSchedulingState scans the canonical scheduling_states column list into
// a domain struct. The scan callback lets callers append extra columns from a
// join before delegating to rows.Scan.
func scanSchedulingState(scan func(dest ...any) error) (*domain.SchedulingState, error) {
	var state domain.SchedulingState
	var stage string
	var lastReviewedAt sql.NullTime

	err := scan(
		&state.LearnerID,
		&state.ItemID,
		&state.EasinessFactor,
		&state.IntervalDays,
		&state.Repetitions,
		&state.HasEverSucceeded,
		&stage,
		&lastReviewedAt,
		&state.NextReviewAt,
		&state.ReviewCount,
		&state.CreatedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	state.Stage = domain.ParseStage(stage)
	if lastReviewedAt.Valid {
		state.LastReviewedAt = lastReviewedAt.Time
	}

	return &state, nil
}

// nullableTime maps the zero time to NULL so never-reviewed states round-trip
// without a sentinel timestamp in the database.
func nullableTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
