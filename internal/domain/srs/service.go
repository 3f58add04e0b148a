package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
)

// Common errors
var (
	ErrNilState = errors.New("scheduling state cannot be nil")

	// ErrInvalidQuality marks a quality rating outside [1, 5]. This is a
	// caller bug, not a recoverable condition: the value is never clamped,
	// and the originating request must be rejected.
	ErrInvalidQuality = errors.New("quality rating must be between 1 and 5")
)

// Service defines the interface for scheduling engine operations.
type Service interface {
	// NewState creates the virgin scheduling state for a learner and item,
	// using the configured initial easiness factor.
	NewState(learnerID, itemID uuid.UUID) (*domain.SchedulingState, error)

	// CalculateNextState computes the scheduling state resulting from one
	// answer with the given quality rating, evaluated at the given time.
	// Returns ErrInvalidQuality if quality is outside [1, 5].
	CalculateNextState(
		state *domain.SchedulingState,
		quality int,
		now time.Time,
	) (*domain.SchedulingState, error)

	// ClassifyStage derives the coarse learning stage from a state's numeric
	// fields. Pure and deterministic.
	ClassifyStage(state *domain.SchedulingState) domain.Stage

	// BuildQueue composes the ordered study queue for one session from the
	// due and new item pools, applying the configured per-session caps.
	BuildQueue(due []DueItem, fresh []NewItem, today time.Time) []QueueEntry

	// ComputeReadiness derives the weighted readiness summary over the
	// states whose category is in the included set.
	ComputeReadiness(
		states []CategoryState,
		included map[domain.Category]bool,
	) ReadinessResult
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// NewState implements the Service interface.
func (s *defaultService) NewState(learnerID, itemID uuid.UUID) (*domain.SchedulingState, error) {
	return domain.NewSchedulingState(learnerID, itemID, s.params.InitialEasinessFactor)
}

// CalculateNextState implements the Service interface. Input state invariants
// (easiness factor within bounds, interval non-negative) are the caller's
// responsibility and are not re-validated here; a violation is a pre-existing
// data-corruption bug to surface via monitoring, not something to recover
// from silently.
func (s *defaultService) CalculateNextState(
	state *domain.SchedulingState,
	quality int,
	now time.Time,
) (*domain.SchedulingState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	if quality < domain.MinQuality || quality > domain.MaxQuality {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuality, quality)
	}

	return calculateNextState(state, quality, now, s.params), nil
}

// ClassifyStage implements the Service interface.
func (s *defaultService) ClassifyStage(state *domain.SchedulingState) domain.Stage {
	return classifyStage(state, s.params)
}

// BuildQueue implements the Service interface.
func (s *defaultService) BuildQueue(
	due []DueItem,
	fresh []NewItem,
	today time.Time,
) []QueueEntry {
	return buildQueue(due, fresh, s.params.MaxDuePerSession, s.params.MaxNewPerSession, today)
}

// ComputeReadiness implements the Service interface.
func (s *defaultService) ComputeReadiness(
	states []CategoryState,
	included map[domain.Category]bool,
) ReadinessResult {
	return computeReadiness(states, included, s.params)
}
