package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"seminar-api/internal/database"
	"seminar-api/internal/domain"
	"seminar-api/internal/domain/user"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// UpdateMeInput fields left nil are not touched.
type UpdateMeInput struct {
	Name     *string
	Password *string

	Company *string
	Year    *int

	University *string
}

type AddParticipantInput struct {
	University string
	Accepted   *bool
}

type Usecase interface {
	GetMe(ctx context.Context, userID uuid.UUID) (user.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (user.User, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, in UpdateMeInput) (user.User, error)
	AddParticipantProfile(ctx context.Context, userID uuid.UUID, in AddParticipantInput) (user.User, error)
}

// SeminarCache drops cached seminar views. Those views embed instructor and
// participant profile fields, so profile edits must clear them.
type SeminarCache interface {
	InvalidateCache(ctx context.Context)
}

type Service struct {
	tx       database.Transactor
	users    user.Repository
	seminars SeminarCache
}

var _ Usecase = (*Service)(nil)

// NewService wires the profile operations. seminars may be nil.
func NewService(tx database.Transactor, users user.Repository, seminars SeminarCache) *Service {
	return &Service{tx: tx, users: users, seminars: seminars}
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (user.User, error) {
	return s.GetUserByID(ctx, userID)
}

func (s *Service) GetUserByID(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := s.users.GetUserByID(ctx, nil, userID)
	if err != nil {
		return user.User{}, mapLoadError(err)
	}
	return sanitizeUser(usr), nil
}

func (s *Service) UpdateMe(ctx context.Context, userID uuid.UUID, in UpdateMeInput) (user.User, error) {
	err := s.tx.InTx(ctx, func(q database.Querier) error {
		usr, err := s.users.GetUserForUpdate(ctx, q, userID)
		if err != nil {
			return mapLoadError(err)
		}

		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return ErrInvalidInput
			}
			usr.Name = name
		}
		if in.Password != nil {
			// Stored exactly as typed; login compares the raw input.
			if !isValidPassword(strings.TrimSpace(*in.Password)) {
				return ErrInvalidInput
			}
			hash, err := hashPassword(*in.Password)
			if err != nil {
				return err
			}
			usr.PasswordHash = hash
		}
		if err := s.users.UpdateUser(ctx, q, usr); err != nil {
			return ErrInternal
		}

		if in.Company != nil || in.Year != nil {
			prof := usr.Instructor
			if prof == nil {
				return domain.ErrRoleNotSuitable
			}
			if in.Company != nil {
				prof.Company = strings.TrimSpace(*in.Company)
			}
			if in.Year != nil {
				if *in.Year <= 0 {
					return ErrInvalidInput
				}
				y := *in.Year
				prof.Year = &y
			}
			if err := s.users.UpdateInstructorProfile(ctx, q, *prof); err != nil {
				return ErrInternal
			}
		}

		if in.University != nil {
			prof := usr.Participant
			if prof == nil {
				return domain.ErrRoleNotSuitable
			}
			prof.University = strings.TrimSpace(*in.University)
			if err := s.users.UpdateParticipantProfile(ctx, q, *prof); err != nil {
				return ErrInternal
			}
		}
		return nil
	})
	if err != nil {
		return user.User{}, err
	}
	if s.seminars != nil {
		s.seminars.InvalidateCache(ctx)
	}
	return s.GetUserByID(ctx, userID)
}

// AddParticipantProfile gives an existing user, typically an instructor, a
// participant profile and role.
func (s *Service) AddParticipantProfile(ctx context.Context, userID uuid.UUID, in AddParticipantInput) (user.User, error) {
	err := s.tx.InTx(ctx, func(q database.Querier) error {
		usr, err := s.users.GetUserForUpdate(ctx, q, userID)
		if err != nil {
			return mapLoadError(err)
		}
		if usr.Participant != nil || usr.HasRole(user.RoleParticipant) {
			return domain.ErrAlreadyParticipant
		}

		accepted := true
		if in.Accepted != nil {
			accepted = *in.Accepted
		}
		prof := user.ParticipantProfile{
			ID:         uuid.New(),
			UserID:     usr.ID,
			University: strings.TrimSpace(in.University),
			Accepted:   accepted,
		}
		if err := s.users.CreateParticipantProfile(ctx, q, prof); err != nil {
			return ErrInternal
		}

		usr.AddRole(user.RoleParticipant)
		if err := s.users.UpdateUser(ctx, q, usr); err != nil {
			return ErrInternal
		}
		return nil
	})
	if err != nil {
		return user.User{}, err
	}
	return s.GetUserByID(ctx, userID)
}

func mapLoadError(err error) error {
	if errors.Is(err, user.ErrNotFound) {
		return domain.ErrUserNotFound
	}
	return ErrInternal
}

func isValidPassword(pw string) bool {
	return len(pw) >= 8
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}

func hashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrInternal
	}
	return string(hash), nil
}
