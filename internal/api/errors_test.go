package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/kotoba-app/kotoba-api/internal/domain"
	"github.com/kotoba-app/kotoba-api/internal/domain/srs"
	"github.com/kotoba-app/kotoba-api/internal/service/study"
	"github.com/kotoba-app/kotoba-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid_quality", srs.ErrInvalidQuality, http.StatusUnprocessableEntity},
		{"invalid_answer", study.ErrInvalidAnswer, http.StatusUnprocessableEntity},
		{
			"wrapped_invalid_answer",
			fmt.Errorf("%w: got 9", study.ErrInvalidAnswer),
			http.StatusUnprocessableEntity,
		},
		{"item_not_found", study.ErrItemNotFound, http.StatusNotFound},
		{"learner_not_found", study.ErrLearnerNotFound, http.StatusNotFound},
		{"store_not_found", store.ErrSchedulingStateNotFound, http.StatusNotFound},
		{"duplicate", store.ErrSchedulingStateExists, http.StatusConflict},
		{"invalid_entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{
			"validation_error",
			domain.NewValidationError("learnerID", "has invalid format", domain.ErrInvalidID),
			http.StatusBadRequest,
		},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"invalid_quality", srs.ErrInvalidQuality, "Quality rating must be between 1 and 5"},
		{"item_not_found", study.ErrItemNotFound, "Item not found"},
		{"learner_not_found", study.ErrLearnerNotFound, "Learner not found"},
		{"state_not_found", store.ErrSchedulingStateNotFound, "Scheduling state not found"},
		{"duplicate", store.ErrDuplicate, "Resource already exists"},
		{
			"validation_error_names_field",
			domain.NewValidationError("itemID", "has invalid format", domain.ErrInvalidID),
			"Invalid itemID",
		},
		{
			"service_error_submit",
			study.NewSubmitAnswerError("transaction failed", errors.New("pq: connection reset")),
			"Failed to submit answer",
		},
		{
			"service_error_queue",
			study.NewBuildQueueError("failed to list due items", errors.New("timeout")),
			"Failed to build study queue",
		},
		{"unknown", errors.New("postgres://secret"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	type req struct {
		Quality int `validate:"required,min=1,max=5"`
	}

	v := validator.New()
	err := v.Struct(req{Quality: 9})
	assert.Equal(t, "Invalid Quality: value too large", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
