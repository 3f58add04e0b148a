package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
)

// ItemStore defines the interface for catalog item persistence.
type ItemStore interface {
	// Create saves a new catalog item.
	// It handles domain validation internally.
	Create(ctx context.Context, item *domain.Item) error

	// GetByID retrieves an item by its unique ID.
	// Returns ErrItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)

	// ListNewForLearner retrieves catalog items the learner has never answered
	// (no scheduling state row exists), in stable catalog order (order_index
	// ascending), capped at limit. Returns an empty slice when the learner has
	// answered everything.
	ListNewForLearner(ctx context.Context, learnerID uuid.UUID, limit int) ([]*domain.Item, error)

	// ListCategories retrieves the distinct categories present in the catalog,
	// ordered alphabetically.
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// WithTx returns a new ItemStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ItemStore
}
