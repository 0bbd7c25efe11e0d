package dto

import (
	"time"

	"github.com/google/uuid"

	"seminar-api/internal/domain/user"
)

type UserResponse struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Email       string               `json:"email"`
	Roles       []string             `json:"roles"`
	DateJoined  time.Time            `json:"date_joined"`
	Participant *ParticipantResponse `json:"participant"`
	Instructor  *InstructorResponse  `json:"instructor"`
}

type ParticipantResponse struct {
	ID         uuid.UUID            `json:"id"`
	University string               `json:"university"`
	Accepted   bool                 `json:"accepted"`
	Seminars   []MembershipResponse `json:"seminars"`
}

type MembershipResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joined_at"`
	IsActive bool      `json:"is_active"`
}

type InstructorResponse struct {
	ID      uuid.UUID  `json:"id"`
	Company string     `json:"company"`
	Year    *int       `json:"year"`
	Charge  *uuid.UUID `json:"charge"`
}

func NewUserResponse(u user.User) UserResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	res := UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Roles:      roles,
		DateJoined: u.CreatedAt,
	}
	if p := u.Participant; p != nil {
		seminars := make([]MembershipResponse, 0, len(p.Seminars))
		for _, m := range p.Seminars {
			seminars = append(seminars, MembershipResponse{
				ID:       m.SeminarID,
				Name:     m.Name,
				JoinedAt: m.JoinedAt,
				IsActive: m.IsActive,
			})
		}
		res.Participant = &ParticipantResponse{
			ID:         p.ID,
			University: p.University,
			Accepted:   p.Accepted,
			Seminars:   seminars,
		}
	}
	if i := u.Instructor; i != nil {
		res.Instructor = &InstructorResponse{
			ID:      i.ID,
			Company: i.Company,
			Year:    i.Year,
			Charge:  i.SeminarID,
		}
	}
	return res
}
