package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"seminar-api/internal/delivery/http/dto"
	"seminar-api/internal/delivery/http/middleware"
	"seminar-api/internal/pkg/response"
	ucuser "seminar-api/internal/usecase/user"
)

type UserHandler struct {
	uc ucuser.Usecase
}

type updateMeRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`

	Company *string `json:"company"`
	Year    *int    `json:"year"`

	University *string `json:"university"`
}

type participantRequest struct {
	University string `json:"university"`
	Accepted   *bool  `json:"accepted"`
}

func NewUserHandler(uc ucuser.Usecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// RegisterRoutes mounts the authenticated /users routes. Static paths are
// registered before /:user_id.
func (h *UserHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/me", auth, h.GetMe)
	r.Put("/me", auth, h.UpdateMe)
	r.Post("/participant", auth, h.AddParticipant)
	r.Get("/:user_id", auth, h.GetByID)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	usr, err := h.uc.GetMe(c.Context(), userID)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(usr))
}

func (h *UserHandler) GetByID(c fiber.Ctx) error {
	if _, ok := middleware.UserID(c); !ok {
		return unauthorized()
	}

	id, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return badRequest(err)
	}

	usr, err := h.uc.GetUserByID(c.Context(), id)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(usr))
}

func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	var req updateMeRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	if req.Name == nil && req.Password == nil && req.Company == nil && req.Year == nil && req.University == nil {
		return badRequest(nil)
	}

	usr, err := h.uc.UpdateMe(c.Context(), userID, ucuser.UpdateMeInput{
		Name:       req.Name,
		Password:   req.Password,
		Company:    req.Company,
		Year:       req.Year,
		University: req.University,
	})
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(usr))
}

func (h *UserHandler) AddParticipant(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	var req participantRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	usr, err := h.uc.AddParticipantProfile(c.Context(), userID, ucuser.AddParticipantInput{
		University: req.University,
		Accepted:   req.Accepted,
	})
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusCreated, "created", dto.NewUserResponse(usr))
}
