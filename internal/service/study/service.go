// Package study orchestrates the learner-facing study use cases on top of the
// scheduling core: answering items inside a row-locked transaction, composing
// session queues, and computing exam readiness.
package study

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
	"github.com/kotoba-app/kotoba-api/internal/domain/srs"
)

// ReviewAnswer represents a learner's answer to one item.
type ReviewAnswer struct {
	// Quality is the recall rating, 1-5.
	Quality int `json:"quality"`

	// ResponseTimeSeconds is how long the learner took to answer. Values
	// above domain.MaxResponseTimeSeconds are clamped here, before the
	// outcome reaches the scheduling core.
	ResponseTimeSeconds float64 `json:"response_time_seconds"`
}

// StudyQueue is the ordered session plan handed to a learner, with the item
// content resolved for each entry.
type StudyQueue struct {
	Entries []QueueItem `json:"entries"`
	DueCount int        `json:"due_count"`
	NewCount int        `json:"new_count"`
}

// QueueItem is one position in a StudyQueue: the queue entry plus the catalog
// item it refers to.
type QueueItem struct {
	Entry srs.QueueEntry `json:"entry"`
	Item  *domain.Item   `json:"item"`
}

// StudyService provides the study workflow operations.
type StudyService interface {
	// SubmitAnswer processes one answer for a (learner, item) pair and
	// returns the resulting scheduling state.
	//
	// The whole operation runs in a single transaction: the state row is
	// read with a row-level lock (created fresh on the first-ever answer),
	// the next state is calculated, persisted, and a review history entry
	// is appended. Two concurrent answers to the same item therefore
	// serialize instead of losing an update.
	//
	// Returns ErrItemNotFound if the item does not exist,
	// ErrLearnerNotFound if the learner does not exist, and
	// ErrInvalidAnswer (wrapping srs.ErrInvalidQuality) if the quality
	// rating is outside 1-5.
	SubmitAnswer(
		ctx context.Context,
		learnerID, itemID uuid.UUID,
		answer ReviewAnswer,
	) (*domain.SchedulingState, error)

	// BuildStudyQueue composes the study session queue for a learner: due
	// items first, oldest overdue leading, then unseen catalog items, each
	// pool capped independently. An empty queue is a normal result.
	BuildStudyQueue(ctx context.Context, learnerID uuid.UUID) (*StudyQueue, error)

	// GetReadiness computes the learner's weighted readiness over the given
	// categories. An empty categories slice means all catalog categories.
	GetReadiness(
		ctx context.Context,
		learnerID uuid.UUID,
		categories []domain.Category,
	) (*srs.ReadinessResult, error)

	// GetHistory retrieves the review history for a (learner, item) pair,
	// most recent answer first, capped at limit.
	GetHistory(
		ctx context.Context,
		learnerID, itemID uuid.UUID,
		limit int,
	) ([]*domain.ReviewLog, error)

	// ResetProgress deletes all scheduling state for a learner, returning
	// the number of items reset. The review history is retained.
	ResetProgress(ctx context.Context, learnerID uuid.UUID) (int64, error)
}

// Common error types for StudyService
var (
	// ErrItemNotFound indicates that the item does not exist in the catalog.
	ErrItemNotFound = errors.New("item not found")

	// ErrLearnerNotFound indicates that the learner does not exist.
	ErrLearnerNotFound = errors.New("learner not found")

	// ErrInvalidAnswer indicates an invalid answer was provided. It wraps
	// srs.ErrInvalidQuality, so either sentinel matches with errors.Is.
	ErrInvalidAnswer = fmt.Errorf("invalid answer: %w", srs.ErrInvalidQuality)
)

// ServiceError wraps errors from the study service with operation context,
// so consumers can differentiate failures with errors.As instead of string
// matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "submit_answer")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewSubmitAnswerError returns a new ServiceError for the submit_answer operation.
func NewSubmitAnswerError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "submit_answer",
		Message:   message,
		Err:       err,
	}
}

// NewBuildQueueError returns a new ServiceError for the build_queue operation.
func NewBuildQueueError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "build_queue",
		Message:   message,
		Err:       err,
	}
}

// NewReadinessError returns a new ServiceError for the readiness operation.
func NewReadinessError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "readiness",
		Message:   message,
		Err:       err,
	}
}
