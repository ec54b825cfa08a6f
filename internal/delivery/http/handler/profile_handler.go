package handler

import (
	"errors"

	"uphera/internal/delivery/http/dto"
	"uphera/internal/delivery/http/middleware"
	"uphera/internal/pkg/response"
	ucprofile "uphera/internal/usecase/profile"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	uc ucprofile.Usecase
}

type updateProfileRequest struct {
	FullName        *string   `json:"full_name"`
	Skills          *[]string `json:"skills"`
	ExperienceLevel *string   `json:"experience_level"`
	Location        *string   `json:"location"`
	Program         *string   `json:"program"`
}

func NewProfileHandler(uc ucprofile.Usecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// RegisterRoutes expects r to be the authenticated /me group.
func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/profile", h.Get)
	r.Put("/profile", h.Update)
}

func (h *ProfileHandler) Get(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	p, err := h.uc.Get(c.Context(), userID)
	if err != nil {
		return mapProfileUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) Update(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	if req.FullName == nil && req.Skills == nil && req.ExperienceLevel == nil && req.Location == nil && req.Program == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, nil)
	}

	in := ucprofile.UpdateInput{
		FullName:        req.FullName,
		ExperienceLevel: req.ExperienceLevel,
		Location:        req.Location,
		Program:         req.Program,
	}
	if req.Skills != nil {
		in.Skills = *req.Skills
		in.SkillsSet = true
	}

	p, err := h.uc.Update(c.Context(), userID, in)
	if err != nil {
		return mapProfileUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}

func mapProfileUsecaseError(err error) error {
	switch {
	case errors.Is(err, ucprofile.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	case errors.Is(err, ucprofile.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	default:
		return internalError(err)
	}
}
