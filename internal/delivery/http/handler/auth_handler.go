package handler

import (
	"github.com/gofiber/fiber/v3"

	"seminar-api/internal/delivery/http/dto"
	"seminar-api/internal/delivery/http/middleware"
	"seminar-api/internal/pkg/response"
	"seminar-api/internal/usecase"
	ucauth "seminar-api/internal/usecase/auth"
)

// HeaderAuthentication carries the access token on signup and signin responses.
const HeaderAuthentication = "Authentication"

type AuthHandler struct {
	uc usecase.AuthUsecase
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`

	University *string `json:"university"`
	Accepted   *bool   `json:"accepted"`

	Company *string `json:"company"`
	Year    *int    `json:"year"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// RegisterUserRoutes mounts signup and signin under /users.
func (h *AuthHandler) RegisterUserRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.Signup)
	r.Post("/signin", h.Login)
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/refresh", h.Refresh)
}

func (h *AuthHandler) Signup(c fiber.Ctx) error {
	var req signupRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	usr, access, refresh, err := h.uc.Signup(c.Context(), ucauth.SignupInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		University: req.University,
		Accepted:   req.Accepted,
		Company:    req.Company,
		Year:       req.Year,
	})
	if err != nil {
		return mapError(err)
	}

	c.Set(HeaderAuthentication, access)
	data := fiber.Map{
		"user":          dto.NewUserResponse(usr),
		"access_token":  access,
		"refresh_token": refresh,
	}
	return response.Success(c, fiber.StatusCreated, "created", data)
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	usr, access, refresh, err := h.uc.Login(c.Context(), ucauth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapError(err)
	}

	c.Set(HeaderAuthentication, access)
	data := fiber.Map{
		"user":          dto.NewUserResponse(usr),
		"access_token":  access,
		"refresh_token": refresh,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

// Refresh reads the refresh token from the Authorization header, falling back
// to a JSON body.
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	tok, ok := middleware.BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		var req refreshRequest
		if len(c.Body()) > 0 {
			if err := c.Bind().Body(&req); err != nil {
				return badRequest(err)
			}
		}
		tok = req.RefreshToken
	}
	if tok == "" {
		return unauthorized()
	}

	access, refresh, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		return mapError(err)
	}

	data := fiber.Map{
		"access_token":  access,
		"refresh_token": refresh,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}
