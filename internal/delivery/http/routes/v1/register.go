package v1

import (
	"github.com/gofiber/fiber/v3"

	"seminar-api/internal/delivery/http/handler"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Seminar *handler.SeminarHandler
	Survey  *handler.SurveyHandler
}

// Register mounts every /api/v1 route. auth guards the user and seminar routes.
func Register(r fiber.Router, h Handlers, auth fiber.Handler) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}

	users := r.Group("/users")
	if h.Auth != nil {
		h.Auth.RegisterUserRoutes(users)
	}
	if h.User != nil {
		h.User.RegisterRoutes(users, auth)
	}

	if h.Seminar != nil {
		h.Seminar.RegisterRoutes(r.Group("/seminars"), auth)
	}
	if h.Survey != nil {
		h.Survey.RegisterRoutes(r)
	}
}
