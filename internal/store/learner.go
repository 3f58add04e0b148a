package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
)

// LearnerStore defines the interface for learner persistence. Account
// management lives elsewhere; the engine only creates and resolves the
// identities it keys scheduling state by.
type LearnerStore interface {
	// Create saves a new learner.
	Create(ctx context.Context, learner *domain.Learner) error

	// GetByID retrieves a learner by ID.
	// Returns ErrLearnerNotFound if the learner does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Learner, error)

	// WithTx returns a new LearnerStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) LearnerStore
}
