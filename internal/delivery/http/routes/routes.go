package routes

import (
	"github.com/gofiber/fiber/v3"

	"seminar-api/internal/delivery/http/handler"
	v1 "seminar-api/internal/delivery/http/routes/v1"
	"seminar-api/internal/ws"
)

type Registry struct {
	health *handler.HealthHandler
	api    v1.Handlers
	auth   fiber.Handler
	feed   *ws.Handler
}

func NewRegistry(health *handler.HealthHandler, api v1.Handlers, auth fiber.Handler, feed *ws.Handler) *Registry {
	return &Registry{health: health, api: api, auth: auth, feed: feed}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
	r.registerFeed(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.api, r.auth)
}

func (r *Registry) registerFeed(app *fiber.App) {
	if r.feed != nil {
		r.feed.RegisterRoutes(app.Group("/ws"))
	}
}
