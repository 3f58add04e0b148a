package srs

import (
	"math"
	"time"

	"github.com/kotoba-app/kotoba-api/internal/domain"
)

// calculateNewEasinessFactor applies the SM-2 easiness update for a quality
// rating and clamps the result to the configured bounds.
//
// The update formula is:
//
//	ef' = ef + (0.1 − (5−q) × (0.08 + (5−q) × 0.02))
//
// It runs on every answer, passing or failing. A perfect recall (q=5) raises
// the factor by 0.1; the minimum passing quality (q=3) still nudges it down
// by 0.14; failures push it down harder but never through the floor.
func calculateNewEasinessFactor(currentEF float64, quality int, params *Params) float64 {
	q := float64(quality)
	newEF := currentEF + (0.1 - (5-q)*(0.08+(5-q)*0.02))

	if newEF < params.MinEasinessFactor {
		newEF = params.MinEasinessFactor
	}
	if newEF > params.MaxEasinessFactor {
		newEF = params.MaxEasinessFactor
	}

	return newEF
}

// calculateNewInterval determines the next interval in days for a passing
// review. The first two passes use fixed intervals; from the third pass on,
// the interval grows multiplicatively by the NEW easiness factor, which is
// what produces the exponential spacing. No upper bound is enforced here.
//
// newRepetitions is the repetition count after the current pass has been
// counted, and newEF is the easiness factor already updated for this answer.
func calculateNewInterval(
	currentInterval int,
	newRepetitions int,
	newEF float64,
	params *Params,
) int {
	switch {
	case newRepetitions == 1:
		return params.FirstInterval
	case newRepetitions == 2:
		return params.SecondInterval
	default:
		return int(math.Round(float64(currentInterval) * newEF))
	}
}

// calculateNextState computes the scheduling state that results from one
// answer. It follows the immutable update pattern: the input state is never
// modified, a new value is returned.
//
// The caller must have validated quality against [MinQuality, MaxQuality];
// this function assumes well-formed input (see Service.CalculateNextState).
//
// Pass/fail branching:
//   - quality < 3 (fail): repetitions reset to 0 and the item re-enters the
//     short relearning cycle with a one-day interval. The easiness factor
//     still updates, making the item harder going forward.
//   - quality ≥ 3 (pass): repetitions increment and the interval grows per
//     calculateNewInterval, using the updated easiness factor.
//
// The next review date is always the calendar date of `now` plus the new
// interval; the algorithm is date-granularity throughout.
func calculateNextState(
	state *domain.SchedulingState,
	quality int,
	now time.Time,
	params *Params,
) *domain.SchedulingState {
	newState := &domain.SchedulingState{
		LearnerID:        state.LearnerID,
		ItemID:           state.ItemID,
		EasinessFactor:   state.EasinessFactor,
		IntervalDays:     state.IntervalDays,
		Repetitions:      state.Repetitions,
		HasEverSucceeded: state.HasEverSucceeded,
		Stage:            state.Stage,
		LastReviewedAt:   state.LastReviewedAt,
		NextReviewAt:     state.NextReviewAt,
		ReviewCount:      state.ReviewCount,
		CreatedAt:        state.CreatedAt,
		UpdatedAt:        state.UpdatedAt,
	}

	newState.ReviewCount++
	newState.LastReviewedAt = now

	newState.EasinessFactor = calculateNewEasinessFactor(state.EasinessFactor, quality, params)

	if quality < domain.PassingQuality {
		newState.Repetitions = 0
		newState.IntervalDays = params.RelearnInterval
	} else {
		newState.Repetitions = state.Repetitions + 1
		newState.HasEverSucceeded = true
		newState.IntervalDays = calculateNewInterval(
			state.IntervalDays,
			newState.Repetitions,
			newState.EasinessFactor,
			params,
		)
	}

	newState.NextReviewAt = domain.DateOf(now).AddDate(0, 0, newState.IntervalDays)
	newState.Stage = classifyStage(newState, params)
	newState.UpdatedAt = now

	return newState
}
