package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
)

// SchedulingStateStore defines the interface for scheduling state persistence.
type SchedulingStateStore interface {
	// Create saves a new scheduling state entry.
	// It handles domain validation internally.
	// Returns ErrSchedulingStateExists if an entry for the (learner, item)
	// pair already exists.
	Create(ctx context.Context, state *domain.SchedulingState) error

	// Get retrieves a scheduling state by the combination of learner ID and item ID.
	// Returns ErrSchedulingStateNotFound if the entry does not exist.
	// NOTE: This method does NOT provide any row locking, so it should not be
	// used when you plan to update the row and need concurrency protection.
	Get(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.SchedulingState, error)

	// GetForUpdate retrieves a scheduling state with a row-level lock using
	// SELECT FOR UPDATE. This must be used within a transaction when processing
	// an answer: the calculator is a pure read-modify-write and two concurrent
	// answers to the same item would otherwise silently lose one update.
	// Returns ErrSchedulingStateNotFound if the entry does not exist.
	GetForUpdate(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.SchedulingState, error)

	// Update modifies an existing scheduling state entry.
	// The learner and item IDs in the state identify the record to update.
	// Returns ErrSchedulingStateNotFound if the entry does not exist.
	Update(ctx context.Context, state *domain.SchedulingState) error

	// Delete removes a scheduling state by the combination of learner ID and
	// item ID. Used by learner progress resets. Returns
	// ErrSchedulingStateNotFound if the entry does not exist.
	Delete(ctx context.Context, learnerID, itemID uuid.UUID) error

	// DeleteForLearner removes all scheduling state for a learner (full
	// progress reset). Returns the number of rows removed; zero is not an error.
	DeleteForLearner(ctx context.Context, learnerID uuid.UUID) (int64, error)

	// ListDue retrieves the learner's states whose next review date is on or
	// before the given date, joined with the item's catalog order index,
	// ordered by next review date ascending then order index. The limit caps
	// the result; pass the session due cap plus some slack if the caller
	// re-filters.
	ListDue(ctx context.Context, learnerID uuid.UUID, dueBy time.Time, limit int) ([]DueState, error)

	// ListByCategory retrieves all of the learner's states paired with the
	// category of their item, for readiness aggregation.
	ListByCategory(ctx context.Context, learnerID uuid.UUID) ([]CategoryState, error)

	// WithTx returns a new SchedulingStateStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically a service).
	WithTx(tx *sql.Tx) SchedulingStateStore
}

// DueState pairs a scheduling state with the catalog order index of its item,
// the shape the queue builder needs for deterministic tie-breaking.
type DueState struct {
	State      *domain.SchedulingState
	OrderIndex int
}

// CategoryState pairs a scheduling state with the category of its item.
type CategoryState struct {
	Category domain.Category
	State    *domain.SchedulingState
}
