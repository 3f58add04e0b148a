package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
	"github.com/kotoba-app/kotoba-api/internal/platform/logger"
	"github.com/kotoba-app/kotoba-api/internal/store"
)

// PostgresItemStore implements the store.ItemStore interface
// using a PostgreSQL database as the storage backend.
type PostgresItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresItemStore creates a new PostgreSQL implementation of the
// ItemStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresItemStore(db store.DBTX, logger *slog.Logger) *PostgresItemStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

// Ensure PostgresItemStore implements store.ItemStore interface
var _ store.ItemStore = (*PostgresItemStore)(nil)

// WithTx implements store.ItemStore.WithTx
// It returns a new store instance bound to the given transaction.
func (s *PostgresItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	return &PostgresItemStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ItemStore.Create
// It saves a new catalog item to the database, handling domain validation.
func (s *PostgresItemStore) Create(ctx context.Context, item *domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("item validation failed during create",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}

	query := `
		INSERT INTO items (id, kind, category, prompt, answer, order_index, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		item.ID,
		string(item.Kind),
		string(item.Category),
		item.Prompt,
		item.Answer,
		item.OrderIndex,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()),
			slog.String("category", string(item.Category)))
		return MapError(err)
	}

	log.Info("item created successfully",
		slog.String("item_id", item.ID.String()),
		slog.String("kind", string(item.Kind)),
		slog.String("category", string(item.Category)))
	return nil
}

// GetByID implements store.ItemStore.GetByID
// It retrieves a catalog item by its unique ID.
// Returns store.ErrItemNotFound if the item does not exist.
func (s *PostgresItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving item by ID", slog.String("item_id", id.String()))

	query := `
		SELECT id, kind, category, prompt, answer, order_index, created_at, updated_at
		FROM items
		WHERE id = $1
	`

	var item domain.Item
	var kind, category string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&kind,
		&category,
		&item.Prompt,
		&item.Answer,
		&item.OrderIndex,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("item not found", slog.String("item_id", id.String()))
			return nil, store.ErrItemNotFound
		}
		log.Error("failed to get item by ID",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return nil, MapError(err)
	}

	item.Kind = domain.ItemKind(kind)
	item.Category = domain.Category(category)

	return &item, nil
}

// ListNewForLearner implements store.ItemStore.ListNewForLearner
// It retrieves catalog items the learner has never answered, meaning no
// scheduling state row exists for the pair, in stable catalog order.
// Returns an empty slice when the learner has answered everything.
func (s *PostgresItemStore) ListNewForLearner(
	ctx context.Context,
	learnerID uuid.UUID,
	limit int,
) ([]*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 10 // Default limit
	}

	log.Debug("listing new items for learner",
		slog.String("learner_id", learnerID.String()),
		slog.Int("limit", limit))

	query := `
		SELECT i.id, i.kind, i.category, i.prompt, i.answer, i.order_index, i.created_at, i.updated_at
		FROM items i
		WHERE NOT EXISTS (
			SELECT 1 FROM scheduling_states ss
			WHERE ss.learner_id = $1 AND ss.item_id = i.id
		)
		ORDER BY i.order_index ASC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, learnerID, limit)
	if err != nil {
		log.Error("failed to query new items for learner",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var items []*domain.Item
	for rows.Next() {
		var item domain.Item
		var kind, category string

		err := rows.Scan(
			&item.ID,
			&kind,
			&category,
			&item.Prompt,
			&item.Answer,
			&item.OrderIndex,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan item row",
				slog.String("error", err.Error()))
			return nil, err
		}

		item.Kind = domain.ItemKind(kind)
		item.Category = domain.Category(category)
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if items == nil {
		items = []*domain.Item{}
	}

	log.Debug("found new items for learner",
		slog.String("learner_id", learnerID.String()),
		slog.Int("count", len(items)))
	return items, nil
}

// ListCategories implements store.ItemStore.ListCategories
// It retrieves the distinct categories present in the catalog, ordered
// alphabetically.
func (s *PostgresItemStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT DISTINCT category
		FROM items
		ORDER BY category ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query categories",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var categories []domain.Category
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			log.Error("failed to scan category row",
				slog.String("error", err.Error()))
			return nil, err
		}
		categories = append(categories, domain.Category(category))
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if categories == nil {
		categories = []domain.Category{}
	}

	return categories, nil
}
