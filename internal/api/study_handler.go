package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/kotoba-app/kotoba-api/internal/api/shared"
	"github.com/kotoba-app/kotoba-api/internal/platform/logger"
	"github.com/kotoba-app/kotoba-api/internal/service/study"
)

// defaultHistoryLimit caps the review history page when the client does not
// ask for a specific size.
const defaultHistoryLimit = 50

// StudyHandler handles the study workflow HTTP requests: answer submission,
// queue retrieval, readiness, history, and progress reset.
type StudyHandler struct {
	studyService study.StudyService
	validator    *validator.Validate
	logger       *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(studyService study.StudyService, logger *slog.Logger) *StudyHandler {
	if studyService == nil {
		panic("studyService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &StudyHandler{
		studyService: studyService,
		validator:    validator.New(),
		logger:       logger.With(slog.String("component", "study_handler")),
	}
}

// SubmitAnswer handles POST /api/learners/{learnerID}/items/{itemID}/answer requests.
func (h *StudyHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, itemID, ok := getLearnerAndItemIDs(w, r)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Struct validation rejects the obviously malformed payloads; the
	// service re-checks quality bounds as its own contract.
	if err := h.validator.Struct(req); err != nil {
		// Out-of-range quality on a well-formed body is a semantic error,
		// not a syntactic one.
		if req.Quality < 1 || req.Quality > 5 {
			shared.RespondWithError(w, r, http.StatusUnprocessableEntity,
				"Quality rating must be between 1 and 5")
			return
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	state, err := h.studyService.SubmitAnswer(r.Context(), learnerID, itemID, study.ReviewAnswer{
		Quality:             req.Quality,
		ResponseTimeSeconds: req.ResponseTimeSeconds,
	})
	if err != nil {
		log.Debug("submit answer failed",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.String("item_id", itemID.String()))
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stateToResponse(state))
}

// GetQueue handles GET /api/learners/{learnerID}/queue requests.
func (h *StudyHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	learnerID, err := getPathUUID(r, "learnerID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	queue, err := h.studyService.BuildStudyQueue(r.Context(), learnerID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, queueToResponse(queue))
}

// GetReadiness handles GET /api/learners/{learnerID}/readiness requests.
// The optional categories query parameter narrows the aggregation,
// e.g. ?categories=history,geography.
func (h *StudyHandler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	learnerID, err := getPathUUID(r, "learnerID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.studyService.GetReadiness(r.Context(), learnerID, parseCategories(r))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, readinessToResponse(result))
}

// GetHistory handles GET /api/learners/{learnerID}/items/{itemID}/history requests.
func (h *StudyHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	learnerID, itemID, ok := getLearnerAndItemIDs(w, r)
	if !ok {
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	logs, err := h.studyService.GetHistory(r.Context(), learnerID, itemID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reviewLogsToResponse(logs))
}

// ResetProgress handles DELETE /api/learners/{learnerID}/progress requests.
func (h *StudyHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, err := getPathUUID(r, "learnerID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	count, err := h.studyService.ResetProgress(r.Context(), learnerID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("progress reset via API",
		slog.String("learner_id", learnerID.String()),
		slog.Int64("items_reset", count))

	shared.RespondWithJSON(w, r, http.StatusOK, ResetProgressResponse{ItemsReset: count})
}
