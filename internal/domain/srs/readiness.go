package srs

import (
	"math"

	"github.com/kotoba-app/kotoba-api/internal/domain"
)

// Verdict is the coarse preparedness level derived from a readiness score.
type Verdict string

// Possible verdict values, in descending order of preparedness.
const (
	VerdictThoroughlyPrepared Verdict = "thoroughly_prepared"
	VerdictReady              Verdict = "ready"
	VerdictGettingThere       Verdict = "getting_there"
	VerdictNotReady           Verdict = "not_ready"
)

// CategoryState pairs a scheduling state with the category of its item, the
// shape the aggregator consumes.
type CategoryState struct {
	Category domain.Category
	State    *domain.SchedulingState
}

// CategoryReadiness is the per-category breakdown inside a ReadinessResult.
type CategoryReadiness struct {
	Score   float64 `json:"score"`
	Learned int     `json:"learned"`
	Total   int     `json:"total"`
}

// ReadinessResult summarizes how prepared a learner is across the included
// categories, used by the culture-exam module to gate exam attempts.
type ReadinessResult struct {
	Score            float64                                  `json:"score"`
	Verdict          Verdict                                  `json:"verdict"`
	QuestionsLearned int                                      `json:"questions_learned"`
	TotalQuestions   int                                      `json:"total_questions"`
	Categories       map[domain.Category]CategoryReadiness    `json:"categories"`
}

// computeReadiness derives the weighted-completion score over the states
// whose category is in the included set. Categories outside the set are
// excluded entirely, even if the learner has progress there.
//
// Each item contributes its stage weight (NEW items contribute zero); the
// overall score is the weight sum over the included item count, times 100,
// rounded to one decimal place (math.Round of tenths). QuestionsLearned is
// the strict count of MASTERED items, not a weighted figure. Empty input
// yields a zeroed result with the lowest verdict, never an error.
func computeReadiness(
	states []CategoryState,
	included map[domain.Category]bool,
	params *Params,
) ReadinessResult {
	result := ReadinessResult{
		Verdict:    VerdictNotReady,
		Categories: make(map[domain.Category]CategoryReadiness),
	}

	var weightSum float64
	perCategoryWeight := make(map[domain.Category]float64)

	for _, cs := range states {
		if !included[cs.Category] {
			continue
		}

		stage := classifyStage(cs.State, params)
		weight := params.ReadinessWeights[stage]

		weightSum += weight
		result.TotalQuestions++

		cat := result.Categories[cs.Category]
		cat.Total++
		perCategoryWeight[cs.Category] += weight
		if stage == domain.StageMastered {
			result.QuestionsLearned++
			cat.Learned++
		}
		result.Categories[cs.Category] = cat
	}

	if result.TotalQuestions == 0 {
		return result
	}

	result.Score = roundScore(weightSum / float64(result.TotalQuestions) * 100)

	for category, cat := range result.Categories {
		cat.Score = roundScore(perCategoryWeight[category] / float64(cat.Total) * 100)
		result.Categories[category] = cat
	}

	switch {
	case result.Score >= params.ThoroughlyPreparedThreshold:
		result.Verdict = VerdictThoroughlyPrepared
	case result.Score >= params.ReadyThreshold:
		result.Verdict = VerdictReady
	case result.Score >= params.GettingThereThreshold:
		result.Verdict = VerdictGettingThere
	default:
		result.Verdict = VerdictNotReady
	}

	return result
}

// roundScore rounds to one decimal place.
func roundScore(score float64) float64 {
	return math.Round(score*10) / 10
}
