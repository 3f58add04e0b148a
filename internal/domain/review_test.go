package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestReviewOutcomeIsPassing(t *testing.T) {
	for quality := MinQuality; quality <= MaxQuality; quality++ {
		outcome := ReviewOutcome{Quality: quality}
		want := quality >= PassingQuality

		if outcome.IsPassing() != want {
			t.Errorf("Quality %d: expected IsPassing %v", quality, want)
		}
	}
}

func TestNewReviewLog(t *testing.T) {
	state, err := NewSchedulingState(uuid.New(), uuid.New(), 2.5)
	if err != nil {
		t.Fatalf("Failed to create state: %v", err)
	}
	state.EasinessFactor = 2.36
	state.IntervalDays = 1
	state.Repetitions = 1
	state.Stage = StageLearning

	answeredAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	outcome := ReviewOutcome{
		Quality:             3,
		ResponseTimeSeconds: 4.2,
		AnsweredAt:          answeredAt,
	}

	log, err := NewReviewLog(outcome, state)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if log.ID == uuid.Nil {
		t.Error("Expected a generated log ID")
	}
	if log.LearnerID != state.LearnerID || log.ItemID != state.ItemID {
		t.Error("Expected identity fields copied from the state")
	}
	if log.Quality != 3 || log.ResponseTimeSeconds != 4.2 {
		t.Error("Expected outcome fields copied into the log")
	}
	if !log.AnsweredAt.Equal(answeredAt) {
		t.Errorf("Expected answered at %v, got %v", answeredAt, log.AnsweredAt)
	}
	if log.EasinessFactor != 2.36 || log.IntervalDays != 1 || log.Repetitions != 1 {
		t.Error("Expected resulting state snapshot in the log")
	}
	if log.Stage != StageLearning {
		t.Errorf("Expected stage %s, got %s", StageLearning, log.Stage)
	}
}

func TestReviewLogValidate(t *testing.T) {
	state, err := NewSchedulingState(uuid.New(), uuid.New(), 2.5)
	if err != nil {
		t.Fatalf("Failed to create state: %v", err)
	}

	testCases := []struct {
		name    string
		outcome ReviewOutcome
		wantErr error
	}{
		{
			name:    "quality below range",
			outcome: ReviewOutcome{Quality: 0},
			wantErr: ErrInvalidLogQuality,
		},
		{
			name:    "quality above range",
			outcome: ReviewOutcome{Quality: 6},
			wantErr: ErrInvalidLogQuality,
		},
		{
			name:    "negative response time",
			outcome: ReviewOutcome{Quality: 4, ResponseTimeSeconds: -1},
			wantErr: ErrNegativeResponseTime,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewReviewLog(tc.outcome, state)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}
