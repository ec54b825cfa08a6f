package v1

import (
	"uphera/internal/delivery/http/handler"
	"uphera/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth           *handler.AuthHandler
	Profile        *handler.ProfileHandler
	Jobs           *handler.JobsHandler
	Recommendation *handler.RecommendationHandler
	Application    *handler.ApplicationHandler
	Notification   *handler.NotificationHandler
	Coach          *handler.CoachHandler
}

// Register mounts /api/v1. Route order matters: static /jobs/<name> routes
// go before the /jobs/:job_id catch.
func Register(r fiber.Router, authMw *middleware.AuthMiddleware, h Handlers) {
	if r == nil || authMw == nil {
		return
	}
	auth := authMw.Middleware()

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}

	RegisterJobs(r, auth, h)

	me := r.Group("/me", auth)
	RegisterMe(me, h)

	if h.Coach != nil {
		h.Coach.RegisterRoutes(r.Group("/coach", auth))
	}
}
