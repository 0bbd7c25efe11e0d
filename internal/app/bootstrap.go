package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"seminar-api/internal/config"
	"seminar-api/internal/database/migration"
	"seminar-api/internal/database/seeder"
	"seminar-api/internal/delivery/http/handler"
	"seminar-api/internal/delivery/http/middleware"
	"seminar-api/internal/delivery/http/routes"
	v1 "seminar-api/internal/delivery/http/routes/v1"
	"seminar-api/internal/pkg/logger"
	"seminar-api/internal/ws"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP application around an already wired container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName:      c.Config.App.AppName,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap connects dependencies, applies migrations and seeds when enabled,
// and starts the websocket hub. The returned cleanup stops the hub and closes
// connections.
func Bootstrap(cfg config.Config, log *logger.Logger) (*App, func() error, error) {
	if log == nil {
		log = logger.Nop()
	}

	if cfg.Migration.OnStart {
		r := migration.Runner{DatabaseURL: cfg.Database.URL(), Logger: log}
		if err := r.Up(); err != nil {
			return nil, nil, err
		}
	}

	c, err := NewContainer(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("container: %w", err)
	}

	if cfg.Seed.OnStart {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := seeder.Runner{Seeders: seeder.Defaults(cfg.Seed.SurveyPath), Logger: log}.Run(ctx, c.DB)
		cancel()
		if err != nil {
			_ = c.Close()
			return nil, nil, err
		}
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	go c.Hub.Run(hubCtx)

	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return New(c), cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, log *logger.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	var cachePinger handler.Pinger
	if c.Cache != nil {
		cachePinger = c.Cache
	}

	auth := middleware.NewAuthMiddleware(c.JWT).Middleware()
	api := v1.Handlers{
		Auth:    handler.NewAuthHandler(c.AuthUC),
		User:    handler.NewUserHandler(c.UserUC),
		Seminar: handler.NewSeminarHandler(c.SeminarUC, c.UserUC),
		Survey:  handler.NewSurveyHandler(c.SurveyUC),
	}

	routes.NewRegistry(
		handler.NewHealthHandler(c.DB, cachePinger),
		api,
		auth,
		ws.NewHandler(c.Hub),
	).Register(app)
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
