package handler

import (
	"errors"

	"uphera/internal/delivery/http/dto"
	"uphera/internal/delivery/http/middleware"
	"uphera/internal/pkg/response"
	uccoach "uphera/internal/usecase/coaching"

	"github.com/gofiber/fiber/v3"
)

type CoachHandler struct {
	uc uccoach.Usecase
}

type coachChatRequest struct {
	Message      string `json:"message"`
	Context      string `json:"context"`
	ResponseMode string `json:"response_mode"`
}

func NewCoachHandler(uc uccoach.Usecase) *CoachHandler {
	return &CoachHandler{uc: uc}
}

// RegisterRoutes expects r to be the authenticated /coach group.
func (h *CoachHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/chat", h.HandleChat)
	r.Get("/history", h.HandleHistory)
	r.Get("/insights", h.HandleInsights)
}

func (h *CoachHandler) HandleChat(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req coachChatRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	reply, err := h.uc.Chat(c.Context(), userID, uccoach.ChatInput{
		Message: req.Message,
		Context: req.Context,
		Mode:    req.ResponseMode,
	})
	if err != nil {
		return mapCoachError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.CoachReplyResponse{
		Response:  reply.Response,
		Context:   reply.Context,
		CreatedAt: reply.CreatedAt,
	})
}

func (h *CoachHandler) HandleHistory(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	limit, err := parseQueryIntStrict(c, "limit", uccoach.DefaultHistoryLimit)
	if err != nil {
		return badRequest(err)
	}

	items, err := h.uc.History(c.Context(), userID, limit)
	if err != nil {
		return mapCoachError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCoachHistoryResponses(items))
}

func (h *CoachHandler) HandleInsights(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	out, err := h.uc.Insights(c.Context(), userID)
	if err != nil {
		return mapCoachError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.CoachInsightsResponse{
		UserID:            out.UserID,
		Insights:          out.Text,
		InsightCategories: out.Categories,
		GeneratedAt:       out.GeneratedAt,
	})
}

func mapCoachError(err error) error {
	switch {
	case errors.Is(err, uccoach.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Message must be 1 to 2000 characters", nil, err)
	case errors.Is(err, uccoach.ErrProfileNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
	case errors.Is(err, uccoach.ErrRateLimited):
		return middleware.NewAppError(fiber.StatusTooManyRequests, "Too many coach requests, try again shortly", nil, err)
	case errors.Is(err, uccoach.ErrUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "", nil, err)
	case errors.Is(err, uccoach.ErrUpstream):
		return middleware.NewAppError(fiber.StatusBadGateway, "", nil, err)
	default:
		return internalError(err)
	}
}
