package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"seminar-api/internal/delivery/http/dto"
	"seminar-api/internal/domain"
	"seminar-api/internal/pkg/response"
	ucsurvey "seminar-api/internal/usecase/survey"
)

type SurveyHandler struct {
	uc ucsurvey.Usecase
}

func NewSurveyHandler(uc ucsurvey.Usecase) *SurveyHandler {
	return &SurveyHandler{uc: uc}
}

func (h *SurveyHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/os", h.ListOperatingSystems)
	r.Get("/os/:os_id", h.GetOperatingSystem)
	r.Get("/results", h.ListResponses)
	r.Get("/results/:result_id", h.GetResponse)
}

func (h *SurveyHandler) ListOperatingSystems(c fiber.Ctx) error {
	items, err := h.uc.ListOperatingSystems(c.Context())
	if err != nil {
		return mapError(err)
	}
	out := make([]dto.OperatingSystemResponse, 0, len(items))
	for _, os := range items {
		out = append(out, dto.NewOperatingSystemResponse(os))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *SurveyHandler) GetOperatingSystem(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("os_id"))
	if err != nil {
		return mapError(domain.ErrOperatingSystemNotFound)
	}
	os, err := h.uc.GetOperatingSystem(c.Context(), id)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewOperatingSystemResponse(os))
}

func (h *SurveyHandler) ListResponses(c fiber.Ctx) error {
	items, err := h.uc.ListSurveyResponses(c.Context(), c.Query("os"))
	if err != nil {
		return mapError(err)
	}
	out := make([]dto.SurveyResponseResponse, 0, len(items))
	for _, r := range items {
		out = append(out, dto.NewSurveyResponseResponse(r))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *SurveyHandler) GetResponse(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("result_id"))
	if err != nil {
		return mapError(domain.ErrSurveyResponseNotFound)
	}
	r, err := h.uc.GetSurveyResponse(c.Context(), id)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSurveyResponseResponse(r))
}
