package v1

import "github.com/gofiber/fiber/v3"

// RegisterMe mounts the caller-scoped routes; me must already require auth.
func RegisterMe(me fiber.Router, h Handlers) {
	if me == nil {
		return
	}

	if h.Profile != nil {
		h.Profile.RegisterRoutes(me)
	}
	if h.Application != nil {
		h.Application.RegisterMeRoutes(me)
	}
	if h.Notification != nil {
		h.Notification.RegisterRoutes(me)
	}
}
