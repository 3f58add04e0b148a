package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
)

// getPathUUID extracts a UUID from the URL path parameters, validating both
// presence and format.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// getLearnerAndItemIDs extracts the learnerID and itemID path parameters.
// It writes an error response and returns false if either is missing or
// malformed.
func getLearnerAndItemIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	learnerID, err := getPathUUID(r, "learnerID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}

	itemID, err := getPathUUID(r, "itemID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}

	return learnerID, itemID, true
}

// parseCategories splits the comma-separated categories query parameter.
// An absent or empty parameter yields nil, meaning all categories.
func parseCategories(r *http.Request) []domain.Category {
	raw := r.URL.Query().Get("categories")
	if raw == "" {
		return nil
	}

	var categories []domain.Category
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			categories = append(categories, domain.Category(part))
		}
	}
	return categories
}
