package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kotoba-app/kotoba-api/internal/api/shared"
	"github.com/kotoba-app/kotoba-api/internal/domain"
	"github.com/kotoba-app/kotoba-api/internal/domain/srs"
	"github.com/kotoba-app/kotoba-api/internal/service/study"
	"github.com/kotoba-app/kotoba-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Contract violation: out-of-range quality rating. The request was
	// well-formed JSON, so this is 422 rather than 400.
	case errors.Is(err, srs.ErrInvalidQuality),
		errors.Is(err, study.ErrInvalidAnswer):
		return http.StatusUnprocessableEntity

	// Not found errors
	case errors.Is(err, study.ErrItemNotFound),
		errors.Is(err, study.ErrLearnerNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, srs.ErrInvalidQuality),
		errors.Is(err, study.ErrInvalidAnswer):
		return "Quality rating must be between 1 and 5"

	case errors.Is(err, study.ErrItemNotFound),
		errors.Is(err, store.ErrItemNotFound):
		return "Item not found"

	case errors.Is(err, study.ErrLearnerNotFound),
		errors.Is(err, store.ErrLearnerNotFound):
		return "Learner not found"

	case errors.Is(err, store.ErrSchedulingStateNotFound):
		return "Scheduling state not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return fmt.Sprintf("Invalid %s", vErr.Field)
		}
		return "Invalid request"

	default:
		var svcErr *study.ServiceError
		if errors.As(err, &svcErr) {
			switch svcErr.Operation {
			case "submit_answer":
				return "Failed to submit answer"
			case "build_queue":
				return "Failed to build study queue"
			case "readiness":
				return "Failed to compute readiness"
			}
		}
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps an error to its status code and safe message, logs the
// detail server-side, and writes the sanitized response. The userMessage
// overrides the derived message when non-empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, userMessage, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// go-playground/validator message format:
	// "Key: 'SubmitAnswerRequest.Quality' Error:Field validation for 'Quality' failed on the 'max' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "value too small"
	case "max":
		return "value too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
