package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"seminar-api/internal/pkg/response"
)

// Pinger is satisfied by the database pool and the Redis cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler accepts nil pingers; a nil dependency is reported as skipped.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

// Health fails only when the database is down; the cache is optional.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	data := fiber.Map{
		"database": check(ctx, h.db),
		"cache":    check(ctx, h.cache),
	}
	if data["database"] == "down" {
		return response.Error(c, fiber.StatusServiceUnavailable, "unhealthy", data)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func check(ctx context.Context, p Pinger) string {
	if p == nil {
		return "skipped"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
