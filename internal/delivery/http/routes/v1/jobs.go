package v1

import "github.com/gofiber/fiber/v3"

func RegisterJobs(r fiber.Router, auth fiber.Handler, h Handlers) {
	if r == nil {
		return
	}

	if h.Recommendation != nil {
		h.Recommendation.RegisterRoutes(r, auth)
	}
	if h.Application != nil {
		h.Application.RegisterRoutes(r, auth)
	}
	if h.Jobs != nil {
		h.Jobs.RegisterRoutes(r, auth)
	}
}
