package srs

import (
	"testing"

	"github.com/kotoba-app/kotoba-api/internal/domain"
)

func TestClassifyStage(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name             string
		interval         int
		reps             int
		hasEverSucceeded bool
		expected         domain.Stage
	}{
		{
			name:     "virgin item is new",
			interval: 0,
			reps:     0,
			expected: domain.StageNew,
		},
		{
			name:             "failed on the very first attempt is still new",
			interval:         1,
			reps:             0,
			hasEverSucceeded: false,
			expected:         domain.StageNew,
		},
		{
			name:             "failed after previous success is relearning",
			interval:         1,
			reps:             0,
			hasEverSucceeded: true,
			expected:         domain.StageRelearning,
		},
		{
			name:             "short interval with repetitions is learning",
			interval:         1,
			reps:             1,
			hasEverSucceeded: true,
			expected:         domain.StageLearning,
		},
		{
			name:             "just below the review threshold is learning",
			interval:         6,
			reps:             2,
			hasEverSucceeded: true,
			expected:         domain.StageLearning,
		},
		{
			name:             "review threshold boundary",
			interval:         7,
			reps:             2,
			hasEverSucceeded: true,
			expected:         domain.StageReview,
		},
		{
			name:             "just below the mastered threshold is review",
			interval:         20,
			reps:             3,
			hasEverSucceeded: true,
			expected:         domain.StageReview,
		},
		{
			name:             "mastered threshold boundary",
			interval:         21,
			reps:             3,
			hasEverSucceeded: true,
			expected:         domain.StageMastered,
		},
		{
			name:             "long interval is mastered",
			interval:         120,
			reps:             8,
			hasEverSucceeded: true,
			expected:         domain.StageMastered,
		},
		{
			name:             "repetitions reset outranks a long prior interval",
			interval:         0,
			reps:             0,
			hasEverSucceeded: true,
			expected:         domain.StageRelearning,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			state := testState(2.5, tc.interval, tc.reps, tc.hasEverSucceeded)
			stage := classifyStage(state, params)

			if stage != tc.expected {
				t.Errorf("Expected stage %s, got %s", tc.expected, stage)
			}
		})
	}
}

func TestClassifyStageCustomThresholds(t *testing.T) {
	t.Parallel()
	params := NewParams(ParamsConfig{
		ReviewThreshold:   3,
		MasteredThreshold: 10,
	})

	state := testState(2.5, 5, 2, true)
	if got := classifyStage(state, params); got != domain.StageReview {
		t.Errorf("Expected stage %s with lowered threshold, got %s", domain.StageReview, got)
	}

	state = testState(2.5, 10, 3, true)
	if got := classifyStage(state, params); got != domain.StageMastered {
		t.Errorf("Expected stage %s with lowered threshold, got %s", domain.StageMastered, got)
	}
}
