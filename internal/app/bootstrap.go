package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"uphera/internal/config"
	"uphera/internal/delivery/http/handler"
	"uphera/internal/delivery/http/middleware"
	"uphera/internal/delivery/http/routes"
	v1 "uphera/internal/delivery/http/routes/v1"
	"uphera/internal/usecase/notifications"
	"uphera/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds the container and the HTTP app and starts the background
// workers. cleanup stops the workers and closes every connection.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	c, err := NewContainer(context.Background(), cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	app := New(c)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	run := func(fn func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(ctx)
		}()
	}
	run(ws.NewMonitor(c.WSRegistry, cfg.WS.PingInterval, logger).Run)
	run(notifications.NewJanitor(c.Notifications, notifications.DefaultCleanupInterval).Run)

	cleanup := func() error {
		cancel()
		wg.Wait()
		return c.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	errMw := middleware.NewErrorMiddleware(logger)
	app.Use(errMw.Middleware())

	accessMw := middleware.NewAccessLogMiddleware(logger, "/health")
	app.Use(accessMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	health := handler.NewHealthHandler([]handler.HealthCheck{
		{Name: "database", Pinger: c.DB, Required: true},
		{Name: "cache", Pinger: c.Cache},
	}, func() int { return len(c.WSRegistry.OnlineUsers()) })

	wsHandler := ws.NewHandler(c.WSService, c.JWT, c.Config.WS.RequireToken, c.Logger)

	handlers := v1.Handlers{
		Auth:           handler.NewAuthHandler(c.Auth),
		Profile:        handler.NewProfileHandler(c.Profile),
		Jobs:           handler.NewJobsHandler(c.Jobs),
		Recommendation: handler.NewRecommendationHandler(c.Recommendation),
		Application:    handler.NewApplicationHandler(c.Applications),
		Notification:   handler.NewNotificationHandler(c.Notifications),
		Coach:          handler.NewCoachHandler(c.Coach),
	}

	routes.NewRegistry(health, wsHandler, middleware.NewAuthMiddleware(c.JWT), handlers).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
