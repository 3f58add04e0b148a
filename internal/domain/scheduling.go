package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Stage is the coarse learning stage of an item for a learner, derived from
// the numeric scheduling fields. It is recomputed on every write and is never
// the authoritative source of truth.
type Stage string

// Possible stage values.
const (
	StageNew        Stage = "new"
	StageLearning   Stage = "learning"
	StageReview     Stage = "review"
	StageRelearning Stage = "relearning"
	StageMastered   Stage = "mastered"

	// StageUnknown is the forward-compatible fallback for stage values written
	// by a newer schema version than the running code knows about.
	StageUnknown Stage = "unknown"
)

// ParseStage converts a raw string (typically read from the database) into a
// Stage. Unrecognized values map to StageUnknown rather than failing, so the
// service keeps working across additive enum migrations.
func ParseStage(s string) Stage {
	switch Stage(s) {
	case StageNew, StageLearning, StageReview, StageRelearning, StageMastered:
		return Stage(s)
	default:
		return StageUnknown
	}
}

// Common validation errors for SchedulingState
var (
	ErrEmptyStateLearnerID = errors.New("scheduling state learner ID cannot be empty")
	ErrEmptyStateItemID    = errors.New("scheduling state item ID cannot be empty")
	ErrInvalidInterval     = errors.New("interval days must be greater than or equal to 0")
	ErrInvalidEaseFactor   = errors.New("easiness factor must be greater than 1.0")
)

// SchedulingState tracks a learner's spaced repetition state for a specific
// learnable item (vocabulary card or culture-exam question). One row exists
// per (learner, item) pair, created on the first-ever answer.
type SchedulingState struct {
	LearnerID        uuid.UUID `json:"learner_id"`
	ItemID           uuid.UUID `json:"item_id"`
	EasinessFactor   float64   `json:"easiness_factor"`   // Bounded to [1.3, 3.0]
	IntervalDays     int       `json:"interval_days"`     // Days until the next scheduled review
	Repetitions      int       `json:"repetitions"`       // Consecutive passing reviews since the last failure
	HasEverSucceeded bool      `json:"has_ever_succeeded"` // True once any review passed; distinguishes relearning from new
	Stage            Stage     `json:"stage"`             // Derived, recomputed on every write
	LastReviewedAt   time.Time `json:"last_reviewed_at"`
	NextReviewAt     time.Time `json:"next_review_at"` // Calendar date (UTC midnight), not a timestamp
	ReviewCount      int       `json:"review_count"`   // Total number of reviews, passing or not
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewSchedulingState creates the virgin scheduling state for a learner and
// item. The initial easiness factor is injected by the caller (typically
// srs.Params.InitialEasinessFactor) rather than hardcoded here. The item is
// immediately available for review.
func NewSchedulingState(
	learnerID, itemID uuid.UUID,
	initialEasinessFactor float64,
) (*SchedulingState, error) {
	now := time.Now().UTC()
	state := &SchedulingState{
		LearnerID:        learnerID,
		ItemID:           itemID,
		EasinessFactor:   initialEasinessFactor,
		IntervalDays:     0,
		Repetitions:      0,
		HasEverSucceeded: false,
		Stage:            StageNew,
		LastReviewedAt:   time.Time{}, // Zero time
		NextReviewAt:     DateOf(now), // Available for review immediately
		ReviewCount:      0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the SchedulingState has valid data.
// Returns an error if any field fails validation.
func (s *SchedulingState) Validate() error {
	if s.LearnerID == uuid.Nil {
		return ErrEmptyStateLearnerID
	}

	if s.ItemID == uuid.Nil {
		return ErrEmptyStateItemID
	}

	if s.IntervalDays < 0 {
		return ErrInvalidInterval
	}

	if s.EasinessFactor <= 1.0 {
		return ErrInvalidEaseFactor
	}

	return nil
}

// DateOf truncates a timestamp to its UTC calendar date (midnight). The
// scheduling algorithm is date-granularity, not time-granularity, so all
// NextReviewAt values pass through here.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
