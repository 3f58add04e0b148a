package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewSchedulingState(t *testing.T) {
	learnerID := uuid.New()
	itemID := uuid.New()

	state, err := NewSchedulingState(learnerID, itemID, 2.5)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if state.LearnerID != learnerID {
		t.Errorf("Expected learner ID %s, got %s", learnerID, state.LearnerID)
	}

	if state.ItemID != itemID {
		t.Errorf("Expected item ID %s, got %s", itemID, state.ItemID)
	}

	if state.IntervalDays != 0 {
		t.Errorf("Expected interval 0, got %d", state.IntervalDays)
	}

	if state.EasinessFactor != 2.5 {
		t.Errorf("Expected easiness factor 2.5, got %f", state.EasinessFactor)
	}

	if state.Repetitions != 0 {
		t.Errorf("Expected repetitions 0, got %d", state.Repetitions)
	}

	if state.HasEverSucceeded {
		t.Error("Expected HasEverSucceeded to be false")
	}

	if state.Stage != StageNew {
		t.Errorf("Expected stage %s, got %s", StageNew, state.Stage)
	}

	if !state.LastReviewedAt.IsZero() {
		t.Errorf("Expected zero LastReviewedAt, got %v", state.LastReviewedAt)
	}

	today := DateOf(time.Now().UTC())
	if !state.NextReviewAt.Equal(today) {
		t.Errorf("Expected NextReviewAt %v (today), got %v", today, state.NextReviewAt)
	}

	if state.CreatedAt.IsZero() || state.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}
}

func TestSchedulingStateValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*SchedulingState)
		wantErr error
	}{
		{
			name:    "valid state",
			mutate:  func(s *SchedulingState) {},
			wantErr: nil,
		},
		{
			name:    "empty learner ID",
			mutate:  func(s *SchedulingState) { s.LearnerID = uuid.Nil },
			wantErr: ErrEmptyStateLearnerID,
		},
		{
			name:    "empty item ID",
			mutate:  func(s *SchedulingState) { s.ItemID = uuid.Nil },
			wantErr: ErrEmptyStateItemID,
		},
		{
			name:    "negative interval",
			mutate:  func(s *SchedulingState) { s.IntervalDays = -1 },
			wantErr: ErrInvalidInterval,
		},
		{
			name:    "easiness factor too low",
			mutate:  func(s *SchedulingState) { s.EasinessFactor = 1.0 },
			wantErr: ErrInvalidEaseFactor,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			state, err := NewSchedulingState(uuid.New(), uuid.New(), 2.5)
			if err != nil {
				t.Fatalf("Failed to create state: %v", err)
			}

			tc.mutate(state)
			err = state.Validate()

			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestParseStage(t *testing.T) {
	testCases := []struct {
		input    string
		expected Stage
	}{
		{"new", StageNew},
		{"learning", StageLearning},
		{"review", StageReview},
		{"relearning", StageRelearning},
		{"mastered", StageMastered},
		{"", StageUnknown},
		{"archived", StageUnknown}, // value from a future schema version
		{"NEW", StageUnknown},      // enum values are lowercase on the wire
	}

	for _, tc := range testCases {
		if got := ParseStage(tc.input); got != tc.expected {
			t.Errorf("ParseStage(%q): expected %s, got %s", tc.input, tc.expected, got)
		}
	}
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	in := time.Date(2025, 6, 15, 3, 30, 0, 0, loc) // 2025-06-14T18:30Z

	got := DateOf(in)
	want := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)

	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
