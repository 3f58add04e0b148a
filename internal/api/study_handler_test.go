package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kotoba-app/kotoba-api/internal/domain"
	"github.com/kotoba-app/kotoba-api/internal/domain/srs"
	"github.com/kotoba-app/kotoba-api/internal/service/study"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStudyService is a hand-rolled study.StudyService with per-method hooks.
type mockStudyService struct {
	submitAnswerFn  func(ctx context.Context, learnerID, itemID uuid.UUID, answer study.ReviewAnswer) (*domain.SchedulingState, error)
	buildQueueFn    func(ctx context.Context, learnerID uuid.UUID) (*study.StudyQueue, error)
	getReadinessFn  func(ctx context.Context, learnerID uuid.UUID, categories []domain.Category) (*srs.ReadinessResult, error)
	getHistoryFn    func(ctx context.Context, learnerID, itemID uuid.UUID, limit int) ([]*domain.ReviewLog, error)
	resetProgressFn func(ctx context.Context, learnerID uuid.UUID) (int64, error)
}

func (m *mockStudyService) SubmitAnswer(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
	answer study.ReviewAnswer,
) (*domain.SchedulingState, error) {
	return m.submitAnswerFn(ctx, learnerID, itemID, answer)
}

func (m *mockStudyService) BuildStudyQueue(
	ctx context.Context,
	learnerID uuid.UUID,
) (*study.StudyQueue, error) {
	return m.buildQueueFn(ctx, learnerID)
}

func (m *mockStudyService) GetReadiness(
	ctx context.Context,
	learnerID uuid.UUID,
	categories []domain.Category,
) (*srs.ReadinessResult, error) {
	return m.getReadinessFn(ctx, learnerID, categories)
}

func (m *mockStudyService) GetHistory(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
	limit int,
) ([]*domain.ReviewLog, error) {
	return m.getHistoryFn(ctx, learnerID, itemID, limit)
}

func (m *mockStudyService) ResetProgress(
	ctx context.Context,
	learnerID uuid.UUID,
) (int64, error) {
	return m.resetProgressFn(ctx, learnerID)
}

// newTestRouter mounts the handler on the production route shapes.
func newTestRouter(svc study.StudyService) http.Handler {
	h := NewStudyHandler(svc, nil)
	r := chi.NewRouter()
	r.Route("/api/learners/{learnerID}", func(r chi.Router) {
		r.Post("/items/{itemID}/answer", h.SubmitAnswer)
		r.Get("/items/{itemID}/history", h.GetHistory)
		r.Get("/queue", h.GetQueue)
		r.Get("/readiness", h.GetReadiness)
		r.Delete("/progress", h.ResetProgress)
	})
	return r
}

func testState(learnerID, itemID uuid.UUID) *domain.SchedulingState {
	return &domain.SchedulingState{
		LearnerID:        learnerID,
		ItemID:           itemID,
		EasinessFactor:   2.5,
		IntervalDays:     1,
		Repetitions:      1,
		HasEverSucceeded: true,
		Stage:            domain.StageLearning,
		NextReviewAt:     domain.DateOf(time.Now().UTC()).AddDate(0, 0, 1),
		ReviewCount:      1,
	}
}

func TestSubmitAnswer_Success(t *testing.T) {
	learnerID := uuid.New()
	itemID := uuid.New()

	svc := &mockStudyService{
		submitAnswerFn: func(ctx context.Context, gotLearner, gotItem uuid.UUID, answer study.ReviewAnswer) (*domain.SchedulingState, error) {
			assert.Equal(t, learnerID, gotLearner)
			assert.Equal(t, itemID, gotItem)
			assert.Equal(t, 4, answer.Quality)
			return testState(gotLearner, gotItem), nil
		},
	}

	body := bytes.NewBufferString(`{"quality": 4, "response_time_seconds": 2.5}`)
	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/learners/%s/items/%s/answer", learnerID, itemID), body)
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SchedulingStateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, learnerID.String(), resp.LearnerID)
	assert.Equal(t, 1, resp.Repetitions)
	assert.Equal(t, "learning", resp.Stage)
}

func TestSubmitAnswer_InvalidQualityIs422(t *testing.T) {
	for _, quality := range []int{0, 6, -2} {
		t.Run(fmt.Sprintf("quality_%d", quality), func(t *testing.T) {
			svc := &mockStudyService{
				submitAnswerFn: func(ctx context.Context, learnerID, itemID uuid.UUID, answer study.ReviewAnswer) (*domain.SchedulingState, error) {
					return nil, fmt.Errorf("%w: got %d", study.ErrInvalidAnswer, answer.Quality)
				},
			}

			body := bytes.NewBufferString(fmt.Sprintf(`{"quality": %d}`, quality))
			req := httptest.NewRequest(http.MethodPost,
				fmt.Sprintf("/api/learners/%s/items/%s/answer", uuid.New(), uuid.New()), body)
			rec := httptest.NewRecorder()

			newTestRouter(svc).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}

func TestSubmitAnswer_MalformedBodyIs400(t *testing.T) {
	svc := &mockStudyService{}

	body := bytes.NewBufferString(`{"quality": `)
	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/learners/%s/items/%s/answer", uuid.New(), uuid.New()), body)
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitAnswer_UnknownItemIs404(t *testing.T) {
	svc := &mockStudyService{
		submitAnswerFn: func(ctx context.Context, learnerID, itemID uuid.UUID, answer study.ReviewAnswer) (*domain.SchedulingState, error) {
			return nil, study.ErrItemNotFound
		},
	}

	body := bytes.NewBufferString(`{"quality": 4}`)
	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/learners/%s/items/%s/answer", uuid.New(), uuid.New()), body)
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Item not found", resp["error"])
}

func TestSubmitAnswer_BadUUIDIs400(t *testing.T) {
	svc := &mockStudyService{}

	body := bytes.NewBufferString(`{"quality": 4}`)
	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/learners/not-a-uuid/items/%s/answer", uuid.New()), body)
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetQueue_Success(t *testing.T) {
	learnerID := uuid.New()
	itemID := uuid.New()

	svc := &mockStudyService{
		buildQueueFn: func(ctx context.Context, gotLearner uuid.UUID) (*study.StudyQueue, error) {
			assert.Equal(t, learnerID, gotLearner)
			return &study.StudyQueue{
				Entries: []study.QueueItem{
					{
						Entry: srs.QueueEntry{ItemID: itemID, Source: srs.QueueSourceDue, Position: 0},
						Item: &domain.Item{
							ID:       itemID,
							Kind:     domain.ItemKindVocabulary,
							Category: "animals",
							Prompt:   "犬",
						},
					},
				},
				DueCount: 1,
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/learners/%s/queue", learnerID), nil)
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp QueueResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "due", resp.Entries[0].Source)
	assert.Equal(t, "犬", resp.Entries[0].Prompt)
	assert.Equal(t, 1, resp.DueCount)
}

func TestGetQueue_EmptyQueue(t *testing.T) {
	svc := &mockStudyService{
		buildQueueFn: func(ctx context.Context, learnerID uuid.UUID) (*study.StudyQueue, error) {
			return &study.StudyQueue{Entries: []study.QueueItem{}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/learners/%s/queue", uuid.New()), nil)
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp QueueResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Entries)
}

func TestGetReadiness_ParsesCategories(t *testing.T) {
	var gotCategories []domain.Category

	svc := &mockStudyService{
		getReadinessFn: func(ctx context.Context, learnerID uuid.UUID, categories []domain.Category) (*srs.ReadinessResult, error) {
			gotCategories = categories
			return &srs.ReadinessResult{
				Score:   60.0,
				Verdict: srs.VerdictReady,
				Categories: map[domain.Category]srs.CategoryReadiness{
					"history": {Score: 60.0, Learned: 1, Total: 5},
				},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/learners/%s/readiness?categories=history,%%20geography", uuid.New()), nil)
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []domain.Category{"history", "geography"}, gotCategories)

	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Verdict)
	assert.InDelta(t, 60.0, resp.Score, 1e-9)
	assert.Contains(t, resp.Categories, "history")
}

func TestGetHistory_UsesLimitParam(t *testing.T) {
	var gotLimit int

	svc := &mockStudyService{
		getHistoryFn: func(ctx context.Context, learnerID, itemID uuid.UUID, limit int) ([]*domain.ReviewLog, error) {
			gotLimit = limit
			return []*domain.ReviewLog{
				{Quality: 5, Stage: domain.StageReview, IntervalDays: 15},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/learners/%s/items/%s/history?limit=7", uuid.New(), uuid.New()), nil)
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, gotLimit)

	var resp []ReviewLogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, 5, resp[0].Quality)
}

func TestResetProgress(t *testing.T) {
	svc := &mockStudyService{
		resetProgressFn: func(ctx context.Context, learnerID uuid.UUID) (int64, error) {
			return 12, nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/learners/%s/progress", uuid.New()), nil)
	rec := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ResetProgressResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(12), resp.ItemsReset)
}
