package handler

import (
	"errors"

	"uphera/internal/delivery/http/dto"
	"uphera/internal/delivery/http/middleware"
	"uphera/internal/pkg/response"
	ucrec "uphera/internal/usecase/recommendation"

	"github.com/gofiber/fiber/v3"
)

type RecommendationHandler struct {
	uc ucrec.Usecase
}

func NewRecommendationHandler(uc ucrec.Usecase) *RecommendationHandler {
	return &RecommendationHandler{uc: uc}
}

func (h *RecommendationHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/jobs/recommendations", auth, h.HandleRecommendations)
	r.Get("/jobs/:job_id/match", auth, h.HandleMatch)
}

func (h *RecommendationHandler) HandleRecommendations(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	limit, err := parseQueryIntStrict(c, "limit", ucrec.DefaultLimit)
	if err != nil {
		return badRequest(err)
	}
	minScore, err := parseQueryFloat(c, "min_score", 0)
	if err != nil {
		return badRequest(err)
	}

	results, err := h.uc.Recommend(c.Context(), userID, ucrec.Params{Limit: limit, MinScore: minScore})
	if err != nil {
		return mapRecommendationError(err)
	}

	out := make([]dto.MatchResponse, 0, len(results))
	for _, r := range results {
		out = append(out, dto.NewMatchResponse(r))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *RecommendationHandler) HandleMatch(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	jobID, err := pathUUID(c, "job_id")
	if err != nil {
		return err
	}

	res, err := h.uc.Match(c.Context(), userID, jobID)
	if err != nil {
		return mapRecommendationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResponse(res))
}

func mapRecommendationError(err error) error {
	switch {
	case errors.Is(err, ucrec.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, ucrec.ErrProfileNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, ucrec.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	default:
		return internalError(err)
	}
}
