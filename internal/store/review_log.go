package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
)

// ReviewLogStore defines the interface for the append-only review history.
// Entries are written once per answer and never updated or deleted by the
// application; the history is the audit trail behind the scheduling state.
type ReviewLogStore interface {
	// Create appends a review log entry.
	// It handles domain validation internally.
	Create(ctx context.Context, log *domain.ReviewLog) error

	// ListForItem retrieves the review history for a (learner, item) pair,
	// most recent first, capped at limit. Returns an empty slice when the
	// item has never been answered.
	ListForItem(ctx context.Context, learnerID, itemID uuid.UUID, limit int) ([]*domain.ReviewLog, error)

	// WithTx returns a new ReviewLogStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ReviewLogStore
}
