package handler

import (
	"errors"

	"uphera/internal/delivery/http/dto"
	"uphera/internal/delivery/http/middleware"
	"uphera/internal/pkg/response"
	ucapp "uphera/internal/usecase/applications"

	"github.com/gofiber/fiber/v3"
)

type ApplicationHandler struct {
	uc ucapp.Usecase
}

type applyRequest struct {
	CoverLetter   string `json:"cover_letter"`
	ResumeContent string `json:"resume_content"`
}

func NewApplicationHandler(uc ucapp.Usecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

func (h *ApplicationHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}

	r.Post("/jobs/:job_id/apply", auth, h.HandleApply)
	r.Post("/jobs/:job_id/bookmark", auth, h.HandleToggleBookmark)
}

// RegisterMeRoutes expects r to be the authenticated /me group.
func (h *ApplicationHandler) RegisterMeRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/applications", h.HandleListApplications)
	r.Get("/bookmarks", h.HandleListBookmarks)
}

func (h *ApplicationHandler) HandleApply(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	jobID, err := pathUUID(c, "job_id")
	if err != nil {
		return err
	}

	var req applyRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return badRequest(err)
		}
	}

	a, err := h.uc.Apply(c.Context(), userID, jobID, ucapp.ApplyInput{
		CoverLetter:   req.CoverLetter,
		ResumeContent: req.ResumeContent,
	})
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewApplicationResponse(a))
}

func (h *ApplicationHandler) HandleListApplications(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListApplications(c.Context(), userID)
	if err != nil {
		return mapApplicationError(err)
	}

	out := make([]dto.ApplicationResponse, 0, len(items))
	for _, a := range items {
		out = append(out, dto.NewApplicationResponse(a))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ApplicationHandler) HandleToggleBookmark(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	jobID, err := pathUUID(c, "job_id")
	if err != nil {
		return err
	}

	on, err := h.uc.ToggleBookmark(c.Context(), userID, jobID)
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"job_id":     jobID,
		"bookmarked": on,
	})
}

func (h *ApplicationHandler) HandleListBookmarks(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListBookmarks(c.Context(), userID)
	if err != nil {
		return mapApplicationError(err)
	}

	out := make([]dto.BookmarkResponse, 0, len(items))
	for _, b := range items {
		out = append(out, dto.NewBookmarkResponse(b))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func mapApplicationError(err error) error {
	switch {
	case errors.Is(err, ucapp.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, ucapp.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, ucapp.ErrAlreadyApplied):
		return middleware.NewAppError(fiber.StatusConflict, "Already applied to this job", nil, err)
	default:
		return internalError(err)
	}
}
