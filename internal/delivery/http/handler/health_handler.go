package handler

import (
	"context"
	"time"

	"uphera/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck names one dependency. Only a failing Required check turns the
// endpoint into 503; optional ones are reported as down.
type HealthCheck struct {
	Name     string
	Pinger   Pinger
	Required bool
}

type HealthHandler struct {
	checks  []HealthCheck
	online  func() int
	timeout time.Duration
}

// NewHealthHandler reports each dependency; online, when set, adds the
// number of users with a live websocket.
func NewHealthHandler(checks []HealthCheck, online func() int) *HealthHandler {
	return &HealthHandler{checks: checks, online: online, timeout: 2 * time.Second}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Handle)
}

func (h *HealthHandler) Handle(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	status := fiber.StatusOK
	state := "healthy"
	deps := make(map[string]string, len(h.checks))
	for _, chk := range h.checks {
		if chk.Pinger == nil {
			continue
		}
		if err := chk.Pinger.Ping(ctx); err != nil {
			deps[chk.Name] = "down"
			if chk.Required {
				status = fiber.StatusServiceUnavailable
				state = "unhealthy"
			} else if state == "healthy" {
				state = "degraded"
			}
			continue
		}
		deps[chk.Name] = "up"
	}

	data := map[string]any{
		"status":       state,
		"dependencies": deps,
		"time":         time.Now().UTC().Format(time.RFC3339),
	}
	if h.online != nil {
		data["online_users"] = h.online()
	}
	return response.Success(c, status, "", data)
}
