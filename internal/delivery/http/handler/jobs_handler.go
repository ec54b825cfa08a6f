package handler

import (
	"errors"

	"uphera/internal/delivery/http/dto"
	"uphera/internal/delivery/http/middleware"
	"uphera/internal/pkg/response"
	ucjobs "uphera/internal/usecase/jobs"

	"github.com/gofiber/fiber/v3"
)

type JobsHandler struct {
	uc ucjobs.Usecase
}

type createJobRequest struct {
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Description     string   `json:"description"`
	Location        string   `json:"location"`
	JobType         string   `json:"job_type"`
	Salary          string   `json:"salary"`
	ExperienceLevel string   `json:"experience_level"`
	RequiredSkills  []string `json:"required_skills"`
	RemoteFriendly  bool     `json:"remote_friendly"`
}

func NewJobsHandler(uc ucjobs.Usecase) *JobsHandler {
	return &JobsHandler{uc: uc}
}

// RegisterRoutes serves listing and detail publicly; publishing needs auth.
// Register after any static /jobs/<name> routes so :job_id does not shadow them.
func (h *JobsHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/jobs", h.HandleListJobs)
	r.Post("/jobs", auth, h.HandleCreateJob)
	r.Get("/jobs/:job_id", h.HandleGetJob)
}

func (h *JobsHandler) HandleListJobs(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", ucjobs.DefaultLimit)
	if err != nil {
		return badRequest(err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return badRequest(err)
	}
	remoteOnly, err := parseQueryBool(c, "remote_only")
	if err != nil {
		return badRequest(err)
	}

	res, err := h.uc.List(c.Context(), ucjobs.ListParams{
		Limit:           limit,
		Offset:          offset,
		Location:        c.Query("location"),
		JobType:         c.Query("job_type"),
		ExperienceLevel: c.Query("experience_level"),
		RemoteOnly:      remoteOnly,
		Search:          c.Query("search"),
	})
	if err != nil {
		return mapJobsUsecaseError(err)
	}

	return response.Paginated(c, dto.NewJobResponses(res.Jobs), response.Meta{
		Total:  res.Total,
		Limit:  res.Limit,
		Offset: res.Offset,
	})
}

func (h *JobsHandler) HandleGetJob(c fiber.Ctx) error {
	id, err := pathUUID(c, "job_id")
	if err != nil {
		return err
	}

	j, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapJobsUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(j))
}

func (h *JobsHandler) HandleCreateJob(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	j, err := h.uc.Create(c.Context(), ucjobs.CreateInput{
		Title:           req.Title,
		Company:         req.Company,
		Description:     req.Description,
		Location:        req.Location,
		JobType:         req.JobType,
		Salary:          req.Salary,
		ExperienceLevel: req.ExperienceLevel,
		RequiredSkills:  req.RequiredSkills,
		RemoteFriendly:  req.RemoteFriendly,
		PostedBy:        userID,
	})
	if err != nil {
		return mapJobsUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewJobResponse(j))
}

func mapJobsUsecaseError(err error) error {
	switch {
	case errors.Is(err, ucjobs.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, ucjobs.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	default:
		return internalError(err)
	}
}
