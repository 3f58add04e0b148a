package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Quality rating bounds for a review answer. 1 is a complete failure, 5 is
// perfect recall. Values of 3 and above count as passing.
const (
	MinQuality     = 1
	MaxQuality     = 5
	PassingQuality = 3
)

// MaxResponseTimeSeconds is the cap the answer-submission layer applies to
// response times before they reach the scheduling core. The core itself does
// not re-validate this.
const MaxResponseTimeSeconds = 180.0

// Common validation errors for review types
var (
	ErrEmptyLogLearnerID   = errors.New("review log learner ID cannot be empty")
	ErrEmptyLogItemID      = errors.New("review log item ID cannot be empty")
	ErrInvalidLogQuality   = errors.New("review log quality must be between 1 and 5")
	ErrNegativeResponseTime = errors.New("review log response time cannot be negative")
)

// ReviewOutcome represents one answer event. It is transient: it folds into
// the SchedulingState and an append-only ReviewLog entry, and is not
// persisted as such.
type ReviewOutcome struct {
	Quality             int       `json:"quality"`               // 1-5; out-of-range is a caller bug, never clamped
	ResponseTimeSeconds float64   `json:"response_time_seconds"` // Pre-clamped at 180s by the caller
	AnsweredAt          time.Time `json:"answered_at"`           // Used only for history logging, not for calculation
}

// IsPassing reports whether the outcome counts as a successful recall.
func (o ReviewOutcome) IsPassing() bool {
	return o.Quality >= PassingQuality
}

// ReviewLog is one row of the append-only review history: the answer event
// plus a snapshot of the scheduling state that resulted from it.
type ReviewLog struct {
	ID                  uuid.UUID `json:"id"`
	LearnerID           uuid.UUID `json:"learner_id"`
	ItemID              uuid.UUID `json:"item_id"`
	Quality             int       `json:"quality"`
	ResponseTimeSeconds float64   `json:"response_time_seconds"`
	AnsweredAt          time.Time `json:"answered_at"`
	EasinessFactor      float64   `json:"easiness_factor"` // Resulting state, not prior state
	IntervalDays        int       `json:"interval_days"`
	Repetitions         int       `json:"repetitions"`
	Stage               Stage     `json:"stage"`
	CreatedAt           time.Time `json:"created_at"`
}

// NewReviewLog creates a history entry for an answer event and the scheduling
// state it produced.
func NewReviewLog(
	outcome ReviewOutcome,
	state *SchedulingState,
) (*ReviewLog, error) {
	log := &ReviewLog{
		ID:                  uuid.New(),
		LearnerID:           state.LearnerID,
		ItemID:              state.ItemID,
		Quality:             outcome.Quality,
		ResponseTimeSeconds: outcome.ResponseTimeSeconds,
		AnsweredAt:          outcome.AnsweredAt,
		EasinessFactor:      state.EasinessFactor,
		IntervalDays:        state.IntervalDays,
		Repetitions:         state.Repetitions,
		Stage:               state.Stage,
		CreatedAt:           time.Now().UTC(),
	}

	if err := log.Validate(); err != nil {
		return nil, err
	}

	return log, nil
}

// Validate checks if the ReviewLog has valid data.
func (l *ReviewLog) Validate() error {
	if l.LearnerID == uuid.Nil {
		return ErrEmptyLogLearnerID
	}

	if l.ItemID == uuid.Nil {
		return ErrEmptyLogItemID
	}

	if l.Quality < MinQuality || l.Quality > MaxQuality {
		return ErrInvalidLogQuality
	}

	if l.ResponseTimeSeconds < 0 {
		return ErrNegativeResponseTime
	}

	return nil
}
