package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"seminar-api/internal/delivery/http/middleware"
	"seminar-api/internal/domain"
	"seminar-api/internal/pkg/response"
	"seminar-api/internal/usecase"
	ucauth "seminar-api/internal/usecase/auth"
	ucseminar "seminar-api/internal/usecase/seminar"
	ucuser "seminar-api/internal/usecase/user"
)

var domainStatus = []struct {
	err    error
	status int
}{
	{domain.ErrNotInstructor, fiber.StatusForbidden},
	{domain.ErrNotCharger, fiber.StatusForbidden},
	{domain.ErrRoleNotSuitable, fiber.StatusForbidden},
	{domain.ErrNotAccepted, fiber.StatusForbidden},

	{domain.ErrUserNotFound, fiber.StatusNotFound},
	{domain.ErrSeminarNotFound, fiber.StatusNotFound},
	{domain.ErrOperatingSystemNotFound, fiber.StatusNotFound},
	{domain.ErrSurveyResponseNotFound, fiber.StatusNotFound},

	{domain.ErrInvalidTimeFormat, fiber.StatusBadRequest},
	{domain.ErrInvalidOnlineValue, fiber.StatusBadRequest},
	{domain.ErrCapacityTooSmall, fiber.StatusBadRequest},
	{domain.ErrInvalidRole, fiber.StatusBadRequest},
	{domain.ErrAlreadyFull, fiber.StatusBadRequest},
	{domain.ErrAlreadyEntered, fiber.StatusBadRequest},
	{domain.ErrAlreadyCharging, fiber.StatusBadRequest},
	{domain.ErrAlreadyParticipant, fiber.StatusBadRequest},
}

// mapError turns a usecase error into the AppError rendered by the error
// middleware. Domain errors carry their code in data.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	for _, d := range domainStatus {
		if errors.Is(err, d.err) {
			return middleware.NewAppError(d.status, d.err.Error(), fiber.Map{"code": domain.Code(d.err)}, err)
		}
	}

	switch {
	case errors.Is(err, ucseminar.ErrInvalidInput),
		errors.Is(err, ucauth.ErrInvalidInput),
		errors.Is(err, ucuser.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	case errors.Is(err, ucauth.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", nil, err)
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid email or password", nil, err)
	case errors.Is(err, usecase.ErrRefreshTokenExpired):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Refresh token expired", nil, err)
	case errors.Is(err, usecase.ErrInvalidRefreshToken):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid refresh token", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func badRequest(err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
}

func unauthorized() error {
	return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
}
