package handler

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"seminar-api/internal/delivery/http/dto"
	"seminar-api/internal/delivery/http/middleware"
	"seminar-api/internal/domain"
	"seminar-api/internal/domain/user"
	"seminar-api/internal/pkg/response"
	ucseminar "seminar-api/internal/usecase/seminar"
)

// UserLoader resolves the authenticated caller into a full user.
type UserLoader interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (user.User, error)
}

type SeminarHandler struct {
	uc    ucseminar.Usecase
	users UserLoader
}

// onlineValue accepts "true"/"false" strings in any case as well as JSON
// booleans; validation happens in the usecase.
type onlineValue string

func (v *onlineValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = onlineValue(s)
		return nil
	}
	*v = onlineValue(b)
	return nil
}

func (v *onlineValue) ptr() *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

type registerSeminarRequest struct {
	Name     string       `json:"name"`
	Capacity int          `json:"capacity"`
	Count    int          `json:"count"`
	Time     string       `json:"time"`
	Online   *onlineValue `json:"online"`
}

type updateSeminarRequest struct {
	Capacity *int         `json:"capacity"`
	Count    *int         `json:"count"`
	Time     *string      `json:"time"`
	Online   *onlineValue `json:"online"`
}

type enterSeminarRequest struct {
	Role string `json:"role"`
}

func NewSeminarHandler(uc ucseminar.Usecase, users UserLoader) *SeminarHandler {
	return &SeminarHandler{uc: uc, users: users}
}

func (h *SeminarHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}

	r.Post("/", auth, h.Register)
	r.Get("/", auth, h.List)
	r.Get("/:seminar_id", auth, h.GetByID)
	r.Put("/:seminar_id", auth, h.Update)
	r.Post("/:seminar_id/user", auth, h.Enter)
}

func (h *SeminarHandler) Register(c fiber.Ctx) error {
	acting, err := h.acting(c)
	if err != nil {
		return err
	}

	var req registerSeminarRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	sem, err := h.uc.Register(c.Context(), ucseminar.RegisterInput{
		Name:     req.Name,
		Capacity: req.Capacity,
		Count:    req.Count,
		Time:     req.Time,
		Online:   req.Online.ptr(),
	}, acting)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusCreated, "created", dto.NewSeminarResponse(sem))
}

func (h *SeminarHandler) Update(c fiber.Ctx) error {
	acting, err := h.acting(c)
	if err != nil {
		return err
	}
	seminarID, err := seminarIDParam(c)
	if err != nil {
		return err
	}

	var req updateSeminarRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	sem, err := h.uc.Update(c.Context(), seminarID, ucseminar.UpdateInput{
		Count:    req.Count,
		Time:     req.Time,
		Online:   req.Online.ptr(),
		Capacity: req.Capacity,
	}, acting)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSeminarResponse(sem))
}

func (h *SeminarHandler) GetByID(c fiber.Ctx) error {
	seminarID, err := seminarIDParam(c)
	if err != nil {
		return err
	}

	sem, err := h.uc.GetSeminarByID(c.Context(), seminarID)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSeminarResponse(sem))
}

func (h *SeminarHandler) List(c fiber.Ctx) error {
	params := map[string]string{}
	for key, value := range c.Queries() {
		if key == "name" || key == "order" {
			params[key] = value
		}
	}

	items, err := h.uc.GetSeminarsByQueryParams(c.Context(), params)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSeminarSummaries(items))
}

func (h *SeminarHandler) Enter(c fiber.Ctx) error {
	acting, err := h.acting(c)
	if err != nil {
		return err
	}
	seminarID, err := seminarIDParam(c)
	if err != nil {
		return err
	}

	var req enterSeminarRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	sem, err := h.uc.EnterSeminarLater(c.Context(), seminarID, req.Role, acting)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusCreated, "created", dto.NewSeminarResponse(sem))
}

func (h *SeminarHandler) acting(c fiber.Ctx) (user.User, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return user.User{}, unauthorized()
	}
	usr, err := h.users.GetUserByID(c.Context(), userID)
	if err != nil {
		return user.User{}, mapError(err)
	}
	return usr, nil
}

// seminarIDParam answers a malformed id the same way as an unknown one.
func seminarIDParam(c fiber.Ctx) (uuid.UUID, error) {
	raw := c.Params("seminar_id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, mapError(domain.ErrSeminarNotFound)
	}
	return id, nil
}

