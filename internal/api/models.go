package api

import (
	"time"

	"github.com/kotoba-app/kotoba-api/internal/domain"
	"github.com/kotoba-app/kotoba-api/internal/domain/srs"
	"github.com/kotoba-app/kotoba-api/internal/service/study"
)

// SubmitAnswerRequest defines the payload for the answer submission endpoint.
// Quality bounds are enforced again by the service; the validate tags catch
// the obvious cases before any work happens.
type SubmitAnswerRequest struct {
	Quality             int     `json:"quality"               validate:"required,min=1,max=5"`
	ResponseTimeSeconds float64 `json:"response_time_seconds" validate:"omitempty,gte=0"`
}

// SchedulingStateResponse is the serialized scheduling state returned after
// an answer is processed.
type SchedulingStateResponse struct {
	LearnerID      string    `json:"learner_id"`
	ItemID         string    `json:"item_id"`
	EasinessFactor float64   `json:"easiness_factor"`
	IntervalDays   int       `json:"interval_days"`
	Repetitions    int       `json:"repetitions"`
	Stage          string    `json:"stage"`
	NextReviewAt   time.Time `json:"next_review_at"`
	ReviewCount    int       `json:"review_count"`
}

// QueueEntryResponse is one position in the study queue response.
type QueueEntryResponse struct {
	ItemID   string `json:"item_id"`
	Source   string `json:"source"`
	Position int    `json:"position"`
	Kind     string `json:"kind"`
	Category string `json:"category"`
	Prompt   string `json:"prompt"`
}

// QueueResponse is the full study queue for a session.
type QueueResponse struct {
	Entries  []QueueEntryResponse `json:"entries"`
	DueCount int                  `json:"due_count"`
	NewCount int                  `json:"new_count"`
}

// CategoryReadinessResponse is the per-category portion of a readiness response.
type CategoryReadinessResponse struct {
	Score   float64 `json:"score"`
	Learned int     `json:"learned"`
	Total   int     `json:"total"`
}

// ReadinessResponse is the serialized readiness summary.
type ReadinessResponse struct {
	Score            float64                              `json:"score"`
	Verdict          string                               `json:"verdict"`
	QuestionsLearned int                                  `json:"questions_learned"`
	TotalQuestions   int                                  `json:"total_questions"`
	Categories       map[string]CategoryReadinessResponse `json:"categories"`
}

// ReviewLogResponse is one entry of an item's review history.
type ReviewLogResponse struct {
	Quality             int       `json:"quality"`
	ResponseTimeSeconds float64   `json:"response_time_seconds"`
	AnsweredAt          time.Time `json:"answered_at"`
	EasinessFactor      float64   `json:"easiness_factor"`
	IntervalDays        int       `json:"interval_days"`
	Repetitions         int       `json:"repetitions"`
	Stage               string    `json:"stage"`
}

// ResetProgressResponse reports the outcome of a learner progress reset.
type ResetProgressResponse struct {
	ItemsReset int64 `json:"items_reset"`
}

func stateToResponse(state *domain.SchedulingState) SchedulingStateResponse {
	return SchedulingStateResponse{
		LearnerID:      state.LearnerID.String(),
		ItemID:         state.ItemID.String(),
		EasinessFactor: state.EasinessFactor,
		IntervalDays:   state.IntervalDays,
		Repetitions:    state.Repetitions,
		Stage:          string(state.Stage),
		NextReviewAt:   state.NextReviewAt,
		ReviewCount:    state.ReviewCount,
	}
}

func queueToResponse(queue *study.StudyQueue) QueueResponse {
	resp := QueueResponse{
		Entries:  make([]QueueEntryResponse, 0, len(queue.Entries)),
		DueCount: queue.DueCount,
		NewCount: queue.NewCount,
	}
	for _, qi := range queue.Entries {
		resp.Entries = append(resp.Entries, QueueEntryResponse{
			ItemID:   qi.Entry.ItemID.String(),
			Source:   string(qi.Entry.Source),
			Position: qi.Entry.Position,
			Kind:     string(qi.Item.Kind),
			Category: string(qi.Item.Category),
			Prompt:   qi.Item.Prompt,
		})
	}
	return resp
}

func readinessToResponse(result *srs.ReadinessResult) ReadinessResponse {
	resp := ReadinessResponse{
		Score:            result.Score,
		Verdict:          string(result.Verdict),
		QuestionsLearned: result.QuestionsLearned,
		TotalQuestions:   result.TotalQuestions,
		Categories:       make(map[string]CategoryReadinessResponse, len(result.Categories)),
	}
	for category, cr := range result.Categories {
		resp.Categories[string(category)] = CategoryReadinessResponse{
			Score:   cr.Score,
			Learned: cr.Learned,
			Total:   cr.Total,
		}
	}
	return resp
}

func reviewLogsToResponse(logs []*domain.ReviewLog) []ReviewLogResponse {
	resp := make([]ReviewLogResponse, 0, len(logs))
	for _, entry := range logs {
		resp = append(resp, ReviewLogResponse{
			Quality:             entry.Quality,
			ResponseTimeSeconds: entry.ResponseTimeSeconds,
			AnsweredAt:          entry.AnsweredAt,
			EasinessFactor:      entry.EasinessFactor,
			IntervalDays:        entry.IntervalDays,
			Repetitions:         entry.Repetitions,
			Stage:               string(entry.Stage),
		})
	}
	return resp
}
