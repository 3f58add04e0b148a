package srs

import (
	"github.com/kotoba-app/kotoba-api/internal/domain"
)

// classifyStage derives the coarse learning stage from the numeric scheduling
// fields. It is a total function over valid states, evaluated in precedence
// order with the first match winning:
//
//  1. repetitions == 0 → NEW, unless the item has previously passed at least
//     one review, in which case it is RELEARNING. The distinction cannot be
//     inferred from repetitions and interval alone (an item failed on its
//     very first attempt also sits at repetitions 0 with a positive
//     interval), so the calculator maintains an explicit HasEverSucceeded
//     flag on the state.
//  2. interval ≥ MasteredThreshold → MASTERED.
//  3. interval ≥ ReviewThreshold → REVIEW.
//  4. otherwise → LEARNING.
func classifyStage(state *domain.SchedulingState, params *Params) domain.Stage {
	if state.Repetitions == 0 {
		if state.HasEverSucceeded {
			return domain.StageRelearning
		}
		return domain.StageNew
	}

	if state.IntervalDays >= params.MasteredThreshold {
		return domain.StageMastered
	}

	if state.IntervalDays >= params.ReviewThreshold {
		return domain.StageReview
	}

	return domain.StageLearning
}
