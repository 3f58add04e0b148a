package srs

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
)

func TestServiceRejectsInvalidQuality(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	state := testState(2.5, 0, 0, false)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, quality := range []int{-1, 0, 6, 100} {
		_, err := svc.CalculateNextState(state, quality, now)
		if !errors.Is(err, ErrInvalidQuality) {
			t.Errorf("Expected ErrInvalidQuality for quality %d, got %v", quality, err)
		}
	}

	for quality := 1; quality <= 5; quality++ {
		if _, err := svc.CalculateNextState(state, quality, now); err != nil {
			t.Errorf("Expected no error for quality %d, got %v", quality, err)
		}
	}
}

func TestServiceRejectsNilState(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	_, err := svc.CalculateNextState(nil, 4, time.Now().UTC())
	if !errors.Is(err, ErrNilState) {
		t.Errorf("Expected ErrNilState, got %v", err)
	}
}

func TestServiceNewState(t *testing.T) {
	t.Parallel()
	svc := NewServiceWithParams(NewParams(ParamsConfig{InitialEasinessFactor: 2.2}))

	learnerID := uuid.New()
	itemID := uuid.New()

	state, err := svc.NewState(learnerID, itemID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if state.LearnerID != learnerID || state.ItemID != itemID {
		t.Error("Identity fields not carried into the new state")
	}
	if !almostEqual(state.EasinessFactor, 2.2) {
		t.Errorf("Expected configured initial easiness factor 2.2, got %v", state.EasinessFactor)
	}
	if state.IntervalDays != 0 || state.Repetitions != 0 {
		t.Error("Expected virgin interval and repetitions")
	}
	if state.Stage != domain.StageNew {
		t.Errorf("Expected stage %s, got %s", domain.StageNew, state.Stage)
	}
	if state.HasEverSucceeded {
		t.Error("Virgin state must not be marked as ever succeeded")
	}
}

func TestServiceBuildQueueUsesConfiguredCaps(t *testing.T) {
	t.Parallel()
	svc := NewServiceWithParams(NewParams(ParamsConfig{
		MaxDuePerSession: 2,
		MaxNewPerSession: 1,
	}))
	today := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	var due []DueItem
	for i := 0; i < 5; i++ {
		due = append(due, DueItem{
			ItemID:       uuid.New(),
			NextReviewAt: time.Date(2025, 1, 1+i, 0, 0, 0, 0, time.UTC),
			OrderIndex:   i,
		})
	}
	fresh := []NewItem{
		{ItemID: uuid.New(), OrderIndex: 0},
		{ItemID: uuid.New(), OrderIndex: 1},
	}

	queue := svc.BuildQueue(due, fresh, today)

	if len(queue) != 3 {
		t.Fatalf("Expected 3 entries (2 due + 1 new), got %d", len(queue))
	}
}

func TestServiceClassifyStage(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	if got := svc.ClassifyStage(testState(2.5, 30, 4, true)); got != domain.StageMastered {
		t.Errorf("Expected %s, got %s", domain.StageMastered, got)
	}
}

func TestServiceComputeReadiness(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	category := domain.Category("history")

	result := svc.ComputeReadiness(
		readinessStates(category, 1, 0, 0, 0),
		map[domain.Category]bool{category: true},
	)

	if result.Verdict != VerdictThoroughlyPrepared {
		t.Errorf("Expected verdict %s, got %s", VerdictThoroughlyPrepared, result.Verdict)
	}
}
