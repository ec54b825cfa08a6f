package dto

import (
	"time"

	"uphera/internal/domain/coach"

	"github.com/google/uuid"
)

type CoachReplyResponse struct {
	Response  string    `json:"response"`
	Context   string    `json:"context"`
	CreatedAt time.Time `json:"created_at"`
}

type CoachInsightsResponse struct {
	UserID            uuid.UUID `json:"user_id"`
	Insights          string    `json:"insights"`
	InsightCategories []string  `json:"insight_categories"`
	GeneratedAt       time.Time `json:"generated_at"`
}

type CoachHistoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Context   string    `json:"context"`
	CreatedAt time.Time `json:"created_at"`
}

func NewCoachHistoryResponses(items []coach.HistoryEntry) []CoachHistoryResponse {
	out := make([]CoachHistoryResponse, 0, len(items))
	for _, e := range items {
		out = append(out, CoachHistoryResponse{
			ID:        e.ID,
			Message:   e.Message,
			Response:  e.Response,
			Context:   e.Context,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
