package study

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
	"github.com/kotoba-app/kotoba-api/internal/domain/srs"
	"github.com/kotoba-app/kotoba-api/internal/platform/logger"
	"github.com/kotoba-app/kotoba-api/internal/store"
)

// Verify interface compliance at compile time
var _ StudyService = (*studyServiceImpl)(nil)

// txRunner abstracts store.RunInTransaction so tests can run the transaction
// body without a live database.
type txRunner func(ctx context.Context, db *sql.DB, fn store.TxFn) error

// studyServiceImpl implements the StudyService interface.
type studyServiceImpl struct {
	db         *sql.DB
	learners   store.LearnerStore
	items      store.ItemStore
	states     store.SchedulingStateStore
	reviewLogs store.ReviewLogStore
	srsService srs.Service
	params     *srs.Params
	logger     *slog.Logger
	runInTx    txRunner
}

// NewStudyService creates a new StudyService implementation.
// The *sql.DB handle is used to open the transaction that wraps SubmitAnswer;
// the stores are rebound to it via WithTx.
func NewStudyService(
	db *sql.DB,
	learners store.LearnerStore,
	items store.ItemStore,
	states store.SchedulingStateStore,
	reviewLogs store.ReviewLogStore,
	srsService srs.Service,
	params *srs.Params,
	logger *slog.Logger,
) StudyService {
	if db == nil {
		panic("db cannot be nil")
	}
	if learners == nil {
		panic("learners store cannot be nil")
	}
	if items == nil {
		panic("items store cannot be nil")
	}
	if states == nil {
		panic("states store cannot be nil")
	}
	if reviewLogs == nil {
		panic("reviewLogs store cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if params == nil {
		params = srs.NewDefaultParams()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &studyServiceImpl{
		db:         db,
		learners:   learners,
		items:      items,
		states:     states,
		reviewLogs: reviewLogs,
		srsService: srsService,
		params:     params,
		logger:     logger.With(slog.String("component", "study_service")),
		runInTx:    store.RunInTransaction,
	}
}

// SubmitAnswer implements StudyService.SubmitAnswer.
func (s *studyServiceImpl) SubmitAnswer(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
	answer ReviewAnswer,
) (*domain.SchedulingState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing review answer",
		slog.String("learner_id", learnerID.String()),
		slog.String("item_id", itemID.String()),
		slog.Int("quality", answer.Quality))

	// Reject out-of-range quality before opening a transaction. The rating
	// is never clamped: an out-of-range value is a client contract
	// violation, not a recoverable input.
	if answer.Quality < domain.MinQuality || answer.Quality > domain.MaxQuality {
		log.Warn("invalid quality rating",
			slog.String("learner_id", learnerID.String()),
			slog.String("item_id", itemID.String()),
			slog.Int("quality", answer.Quality))
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAnswer, answer.Quality)
	}

	outcome := domain.ReviewOutcome{
		Quality:             answer.Quality,
		ResponseTimeSeconds: clampResponseTime(answer.ResponseTimeSeconds),
		AnsweredAt:          time.Now().UTC(),
	}

	var updatedState *domain.SchedulingState
	err := s.runInTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		items := s.items.WithTx(tx)
		states := s.states.WithTx(tx)
		reviewLogs := s.reviewLogs.WithTx(tx)

		// The item must exist before any state is created for it.
		if _, err := items.GetByID(ctx, itemID); err != nil {
			if store.IsNotFoundError(err) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to get item: %w", err)
		}

		// Lock the state row for the duration of the transaction so a
		// concurrent answer to the same item waits instead of clobbering
		// this update. The first-ever answer finds no row and starts from
		// the virgin state instead.
		current, err := states.GetForUpdate(ctx, learnerID, itemID)
		firstAnswer := false
		if err != nil {
			if !store.IsNotFoundError(err) {
				return fmt.Errorf("failed to get scheduling state: %w", err)
			}

			if _, lerr := s.learners.WithTx(tx).GetByID(ctx, learnerID); lerr != nil {
				if store.IsNotFoundError(lerr) {
					return ErrLearnerNotFound
				}
				return fmt.Errorf("failed to get learner: %w", lerr)
			}

			current, err = s.srsService.NewState(learnerID, itemID)
			if err != nil {
				return fmt.Errorf("failed to create virgin state: %w", err)
			}
			firstAnswer = true
		}

		next, err := s.srsService.CalculateNextState(current, outcome.Quality, outcome.AnsweredAt)
		if err != nil {
			// Quality was validated above, so this is unexpected here.
			return fmt.Errorf("failed to calculate next state: %w", err)
		}

		if firstAnswer {
			if err := states.Create(ctx, next); err != nil {
				return fmt.Errorf("failed to create scheduling state: %w", err)
			}
		} else {
			if err := states.Update(ctx, next); err != nil {
				return fmt.Errorf("failed to update scheduling state: %w", err)
			}
		}

		entry, err := domain.NewReviewLog(outcome, next)
		if err != nil {
			return fmt.Errorf("failed to build review log: %w", err)
		}
		if err := reviewLogs.Create(ctx, entry); err != nil {
			return fmt.Errorf("failed to append review log: %w", err)
		}

		updatedState = next
		return nil
	})

	if err != nil {
		// Pass known sentinels through untouched for the handler layer.
		if errors.Is(err, ErrItemNotFound) ||
			errors.Is(err, ErrLearnerNotFound) ||
			errors.Is(err, ErrInvalidAnswer) {
			return nil, err
		}

		log.Error("failed to submit answer",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.String("item_id", itemID.String()))
		return nil, NewSubmitAnswerError("transaction failed", err)
	}

	log.Info("review answer processed",
		slog.String("learner_id", learnerID.String()),
		slog.String("item_id", itemID.String()),
		slog.Int("quality", answer.Quality),
		slog.String("stage", string(updatedState.Stage)),
		slog.Int("interval_days", updatedState.IntervalDays),
		slog.Time("next_review_at", updatedState.NextReviewAt))

	return updatedState, nil
}

// BuildStudyQueue implements StudyService.BuildStudyQueue.
func (s *studyServiceImpl) BuildStudyQueue(
	ctx context.Context,
	learnerID uuid.UUID,
) (*StudyQueue, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	today := time.Now().UTC()

	dueStates, err := s.states.ListDue(ctx, learnerID, domain.DateOf(today), s.params.MaxDuePerSession)
	if err != nil {
		log.Error("failed to list due states",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, NewBuildQueueError("failed to list due items", err)
	}

	freshItems, err := s.items.ListNewForLearner(ctx, learnerID, s.params.MaxNewPerSession)
	if err != nil {
		log.Error("failed to list new items",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, NewBuildQueueError("failed to list new items", err)
	}

	due := make([]srs.DueItem, 0, len(dueStates))
	for _, d := range dueStates {
		due = append(due, srs.DueItem{
			ItemID:       d.State.ItemID,
			NextReviewAt: d.State.NextReviewAt,
			OrderIndex:   d.OrderIndex,
			Stage:        d.State.Stage,
		})
	}

	fresh := make([]srs.NewItem, 0, len(freshItems))
	freshByID := make(map[uuid.UUID]*domain.Item, len(freshItems))
	for _, item := range freshItems {
		fresh = append(fresh, srs.NewItem{
			ItemID:     item.ID,
			OrderIndex: item.OrderIndex,
		})
		freshByID[item.ID] = item
	}

	entries := s.srsService.BuildQueue(due, fresh, today)

	queue := &StudyQueue{Entries: make([]QueueItem, 0, len(entries))}
	for _, entry := range entries {
		item := freshByID[entry.ItemID]
		if item == nil {
			// Due entries carry only scheduling data, resolve the content.
			item, err = s.items.GetByID(ctx, entry.ItemID)
			if err != nil {
				log.Error("failed to resolve queue item",
					slog.String("error", err.Error()),
					slog.String("item_id", entry.ItemID.String()))
				return nil, NewBuildQueueError("failed to resolve queue item", err)
			}
		}

		queue.Entries = append(queue.Entries, QueueItem{Entry: entry, Item: item})
		switch entry.Source {
		case srs.QueueSourceDue:
			queue.DueCount++
		case srs.QueueSourceNew:
			queue.NewCount++
		}
	}

	log.Debug("study queue built",
		slog.String("learner_id", learnerID.String()),
		slog.Int("due_count", queue.DueCount),
		slog.Int("new_count", queue.NewCount))

	return queue, nil
}

// GetReadiness implements StudyService.GetReadiness.
func (s *studyServiceImpl) GetReadiness(
	ctx context.Context,
	learnerID uuid.UUID,
	categories []domain.Category,
) (*srs.ReadinessResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(categories) == 0 {
		all, err := s.items.ListCategories(ctx)
		if err != nil {
			log.Error("failed to list categories",
				slog.String("error", err.Error()))
			return nil, NewReadinessError("failed to list categories", err)
		}
		categories = all
	}

	included := make(map[domain.Category]bool, len(categories))
	for _, c := range categories {
		included[c] = true
	}

	categoryStates, err := s.states.ListByCategory(ctx, learnerID)
	if err != nil {
		log.Error("failed to list states by category",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, NewReadinessError("failed to list scheduling states", err)
	}

	states := make([]srs.CategoryState, 0, len(categoryStates))
	for _, cs := range categoryStates {
		states = append(states, srs.CategoryState{
			Category: cs.Category,
			State:    cs.State,
		})
	}

	result := s.srsService.ComputeReadiness(states, included)

	log.Debug("readiness computed",
		slog.String("learner_id", learnerID.String()),
		slog.Float64("score", result.Score),
		slog.String("verdict", string(result.Verdict)))

	return &result, nil
}

// GetHistory implements StudyService.GetHistory.
func (s *studyServiceImpl) GetHistory(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
	limit int,
) ([]*domain.ReviewLog, error) {
	logs, err := s.reviewLogs.ListForItem(ctx, learnerID, itemID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list review history: %w", err)
	}
	return logs, nil
}

// ResetProgress implements StudyService.ResetProgress.
func (s *studyServiceImpl) ResetProgress(
	ctx context.Context,
	learnerID uuid.UUID,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	count, err := s.states.DeleteForLearner(ctx, learnerID)
	if err != nil {
		log.Error("failed to reset progress",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return 0, fmt.Errorf("failed to reset progress: %w", err)
	}

	log.Info("learner progress reset",
		slog.String("learner_id", learnerID.String()),
		slog.Int64("items_reset", count))
	return count, nil
}

// clampResponseTime bounds a reported response time to [0, MaxResponseTimeSeconds].
// The scheduling core trusts this value and does not re-validate it.
func clampResponseTime(seconds float64) float64 {
	if seconds < 0 {
		return 0
	}
	if seconds > domain.MaxResponseTimeSeconds {
		return domain.MaxResponseTimeSeconds
	}
	return seconds
}
