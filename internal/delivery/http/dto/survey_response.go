package dto

import (
	"time"

	"github.com/google/uuid"

	"seminar-api/internal/domain/survey"
)

type OperatingSystemResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Price       int       `json:"price"`
	Description string    `json:"description"`
}

type SurveyResponseResponse struct {
	ID             uuid.UUID               `json:"id"`
	OS             OperatingSystemResponse `json:"os"`
	SpringExp      int                     `json:"spring_exp"`
	RDBExp         int                     `json:"rdb_exp"`
	ProgrammingExp int                     `json:"programming_exp"`
	Major          string                  `json:"major"`
	Grade          string                  `json:"grade"`
	Timestamp      time.Time               `json:"timestamp"`
}

func NewOperatingSystemResponse(os survey.OperatingSystem) OperatingSystemResponse {
	return OperatingSystemResponse{ID: os.ID, Name: os.Name, Price: os.Price, Description: os.Description}
}

func NewSurveyResponseResponse(r survey.Response) SurveyResponseResponse {
	return SurveyResponseResponse{
		ID:             r.ID,
		OS:             NewOperatingSystemResponse(r.OS),
		SpringExp:      r.SpringExp,
		RDBExp:         r.RDBExp,
		ProgrammingExp: r.ProgrammingExp,
		Major:          r.Major,
		Grade:          r.Grade,
		Timestamp:      r.Timestamp,
	}
}
