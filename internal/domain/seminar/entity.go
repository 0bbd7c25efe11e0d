package seminar

import (
	"time"

	"github.com/google/uuid"
)

type Seminar struct {
	ID       uuid.UUID
	Name     string
	Capacity int
	Count    int
	Time     string
	Online   bool
	// ChargerID is the instructor profile that owns the seminar. Only its user
	// may update the seminar.
	ChargerID uuid.UUID

	Instructors  []Instructor
	Participants []Participant

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Instructor is an instructor profile whose back-reference points at the seminar.
type Instructor struct {
	ProfileID uuid.UUID
	UserID    uuid.UUID
	Name      string
	Email     string
	Company   string
	Year      *int
}

// Participant is one SeminarParticipant association.
type Participant struct {
	ID        uuid.UUID
	SeminarID uuid.UUID
	ProfileID uuid.UUID
	UserID    uuid.UUID
	Name      string
	Email     string

	University string
	Accepted   bool
	IsActive   bool
	JoinedAt   time.Time
}

func (s Seminar) ParticipantCount() int {
	return len(s.Participants)
}

func (s Seminar) IsFull() bool {
	return s.Capacity <= len(s.Participants)
}

func (s Seminar) IsChargedBy(instructorProfileID uuid.UUID) bool {
	return s.ChargerID != uuid.Nil && s.ChargerID == instructorProfileID
}

// HasMember reports whether the user already sits in the seminar under either role.
func (s Seminar) HasMember(userID uuid.UUID) bool {
	for _, p := range s.Participants {
		if p.UserID == userID {
			return true
		}
	}
	for _, i := range s.Instructors {
		if i.UserID == userID {
			return true
		}
	}
	return false
}
