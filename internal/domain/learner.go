package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for learners
var (
	ErrEmptyLearnerID          = errors.New("learner ID cannot be empty")
	ErrEmptyLearnerDisplayName = errors.New("learner display name cannot be empty")
)

// Learner represents a registered user of the application from the scheduling
// engine's point of view. Account details, authentication, and billing live in
// external services; the engine only needs a stable identity to key scheduling
// state by.
type Learner struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewLearner creates a new Learner with the given display name.
// It generates a new UUID for the learner ID and sets the creation/update timestamps.
func NewLearner(displayName string) (*Learner, error) {
	now := time.Now().UTC()
	learner := &Learner{
		ID:          uuid.New(),
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := learner.Validate(); err != nil {
		return nil, err
	}

	return learner, nil
}

// Validate checks if the Learner has valid data.
func (l *Learner) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyLearnerID
	}

	if l.DisplayName == "" {
		return ErrEmptyLearnerDisplayName
	}

	return nil
}
