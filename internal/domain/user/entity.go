package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleInstructor  = "instructor"
	RoleParticipant = "participant"
)

func IsValidRole(role string) bool {
	return role == RoleInstructor || role == RoleParticipant
}

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Roles        []string

	Instructor  *InstructorProfile
	Participant *ParticipantProfile

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AddRole is a no-op when the role is already held.
func (u *User) AddRole(role string) {
	if u.HasRole(role) {
		return
	}
	u.Roles = append(u.Roles, role)
}

type InstructorProfile struct {
	ID      uuid.UUID
	UserID  uuid.UUID
	Company string
	Year    *int
	// SeminarID is the seminar this instructor currently charges, nil if none.
	SeminarID *uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p InstructorProfile) IsCharging() bool {
	return p.SeminarID != nil
}

type ParticipantProfile struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	University string
	Accepted   bool
	Seminars   []Membership

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Membership is a participant's view of one SeminarParticipant row.
type Membership struct {
	SeminarID uuid.UUID
	Name      string
	JoinedAt  time.Time
	IsActive  bool
}
