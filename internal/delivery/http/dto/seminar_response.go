package dto

import (
	"time"

	"github.com/google/uuid"

	"seminar-api/internal/domain/seminar"
)

type SeminarResponse struct {
	ID           uuid.UUID                    `json:"id"`
	Name         string                       `json:"name"`
	Capacity     int                          `json:"capacity"`
	Count        int                          `json:"count"`
	Time         string                       `json:"time"`
	Online       bool                         `json:"online"`
	ChargerID    uuid.UUID                    `json:"charger_id"`
	Instructors  []SeminarInstructorResponse  `json:"instructors"`
	Participants []SeminarParticipantResponse `json:"participants"`
	CreatedAt    time.Time                    `json:"created_at"`
}

type SeminarInstructorResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Company string    `json:"company"`
	Year    *int      `json:"year"`
}

type SeminarParticipantResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	University string    `json:"university"`
	Accepted   bool      `json:"accepted"`
	JoinedAt   time.Time `json:"joined_at"`
	IsActive   bool      `json:"is_active"`
}

// SeminarSummaryResponse is the list view of a seminar.
type SeminarSummaryResponse struct {
	ID               uuid.UUID                   `json:"id"`
	Name             string                      `json:"name"`
	Instructors      []SeminarInstructorResponse `json:"instructors"`
	ParticipantCount int                         `json:"participant_count"`
}

func NewSeminarResponse(s seminar.Seminar) SeminarResponse {
	participants := make([]SeminarParticipantResponse, 0, len(s.Participants))
	for _, p := range s.Participants {
		participants = append(participants, SeminarParticipantResponse{
			ID:         p.UserID,
			Name:       p.Name,
			Email:      p.Email,
			University: p.University,
			Accepted:   p.Accepted,
			JoinedAt:   p.JoinedAt,
			IsActive:   p.IsActive,
		})
	}
	return SeminarResponse{
		ID:           s.ID,
		Name:         s.Name,
		Capacity:     s.Capacity,
		Count:        s.Count,
		Time:         s.Time,
		Online:       s.Online,
		ChargerID:    s.ChargerID,
		Instructors:  instructors(s.Instructors),
		Participants: participants,
		CreatedAt:    s.CreatedAt,
	}
}

func NewSeminarSummaries(items []seminar.Seminar) []SeminarSummaryResponse {
	out := make([]SeminarSummaryResponse, 0, len(items))
	for _, s := range items {
		out = append(out, SeminarSummaryResponse{
			ID:               s.ID,
			Name:             s.Name,
			Instructors:      instructors(s.Instructors),
			ParticipantCount: s.ParticipantCount(),
		})
	}
	return out
}

func instructors(in []seminar.Instructor) []SeminarInstructorResponse {
	out := make([]SeminarInstructorResponse, 0, len(in))
	for _, i := range in {
		out = append(out, SeminarInstructorResponse{
			ID:      i.UserID,
			Name:    i.Name,
			Email:   i.Email,
			Company: i.Company,
			Year:    i.Year,
		})
	}
	return out
}
