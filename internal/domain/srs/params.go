// Package srs implements the spaced-repetition scheduling engine: the
// SM-2-derived calculator that evolves per-item scheduling state after each
// answer, the stage classifier, the study-queue builder, and the readiness
// aggregator. Every component is a pure computation over values passed in;
// persistence and transaction handling live with the callers.
package srs

import (
	"github.com/kotoba-app/kotoba-api/internal/domain"
)

// Params defines all configurable parameters for the scheduling engine.
// Nothing in the algorithm reads a literal constant; everything routes
// through here so deployments can tune behavior without code changes.
type Params struct {
	// Easiness factor bounds and starting point
	MinEasinessFactor     float64
	MaxEasinessFactor     float64
	InitialEasinessFactor float64

	// Fixed intervals for the first two passing reviews, and the short-cycle
	// interval an item re-enters after a failure
	FirstInterval   int
	SecondInterval  int
	RelearnInterval int

	// Stage classification thresholds, in interval days
	LearningThreshold int
	ReviewThreshold   int
	MasteredThreshold int

	// Per-session queue caps. Each pool is limited on its own.
	MaxDuePerSession int
	MaxNewPerSession int

	// Per-stage weights for readiness scoring
	ReadinessWeights map[domain.Stage]float64

	// Verdict thresholds in descending order of preparedness
	ThoroughlyPreparedThreshold float64
	ReadyThreshold              float64
	GettingThereThreshold       float64
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values mean "keep the default".
type ParamsConfig struct {
	// Easiness factor bounds
	MinEasinessFactor     float64
	MaxEasinessFactor     float64
	InitialEasinessFactor float64

	// Early intervals
	FirstInterval   int
	SecondInterval  int
	RelearnInterval int

	// Stage thresholds
	LearningThreshold int
	ReviewThreshold   int
	MasteredThreshold int

	// Queue caps
	MaxDuePerSession int
	MaxNewPerSession int

	// Readiness weights
	LearningWeight   float64
	RelearningWeight float64
	ReviewWeight     float64
	MasteredWeight   float64

	// Verdict thresholds
	ThoroughlyPreparedThreshold float64
	ReadyThreshold              float64
	GettingThereThreshold       float64
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		MinEasinessFactor:     1.3,
		MaxEasinessFactor:     3.0,
		InitialEasinessFactor: 2.5,

		FirstInterval:   1,
		SecondInterval:  6,
		RelearnInterval: 1,

		LearningThreshold: 1,
		ReviewThreshold:   7,
		MasteredThreshold: 21,

		MaxDuePerSession: 50,
		MaxNewPerSession: 10,

		// NEW items contribute nothing to readiness; RELEARNING is weighted
		// like LEARNING since the material has to be rebuilt either way.
		ReadinessWeights: map[domain.Stage]float64{
			domain.StageNew:        0.0,
			domain.StageLearning:   0.25,
			domain.StageRelearning: 0.25,
			domain.StageReview:     0.5,
			domain.StageMastered:   1.0,
		},

		ThoroughlyPreparedThreshold: 85,
		ReadyThreshold:              60,
		GettingThereThreshold:       40,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Fields left at their zero value retain the defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEasinessFactor > 0 {
		params.MinEasinessFactor = config.MinEasinessFactor
	}
	if config.MaxEasinessFactor > 0 {
		params.MaxEasinessFactor = config.MaxEasinessFactor
	}
	if config.InitialEasinessFactor > 0 {
		params.InitialEasinessFactor = config.InitialEasinessFactor
	}

	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.RelearnInterval > 0 {
		params.RelearnInterval = config.RelearnInterval
	}

	if config.LearningThreshold > 0 {
		params.LearningThreshold = config.LearningThreshold
	}
	if config.ReviewThreshold > 0 {
		params.ReviewThreshold = config.ReviewThreshold
	}
	if config.MasteredThreshold > 0 {
		params.MasteredThreshold = config.MasteredThreshold
	}

	if config.MaxDuePerSession > 0 {
		params.MaxDuePerSession = config.MaxDuePerSession
	}
	if config.MaxNewPerSession > 0 {
		params.MaxNewPerSession = config.MaxNewPerSession
	}

	if config.LearningWeight > 0 {
		params.ReadinessWeights[domain.StageLearning] = config.LearningWeight
	}
	if config.RelearningWeight > 0 {
		params.ReadinessWeights[domain.StageRelearning] = config.RelearningWeight
	}
	if config.ReviewWeight > 0 {
		params.ReadinessWeights[domain.StageReview] = config.ReviewWeight
	}
	if config.MasteredWeight > 0 {
		params.ReadinessWeights[domain.StageMastered] = config.MasteredWeight
	}

	if config.ThoroughlyPreparedThreshold > 0 {
		params.ThoroughlyPreparedThreshold = config.ThoroughlyPreparedThreshold
	}
	if config.ReadyThreshold > 0 {
		params.ReadyThreshold = config.ReadyThreshold
	}
	if config.GettingThereThreshold > 0 {
		params.GettingThereThreshold = config.GettingThereThreshold
	}

	return params
}
