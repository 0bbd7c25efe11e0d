package auth

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
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInternal               = errors.New("internal error")
)

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     string

	// Participant profile.
	University *string
	Accepted   *bool

	// Instructor profile.
	Company *string
	Year    *int
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthUsecase interface {
	Signup(ctx context.Context, in SignupInput) (user.User, error)
	Login(ctx context.Context, in LoginInput) (user.User, error)
}

type Service struct {
	tx    database.Transactor
	users user.Repository
}

func NewService(tx database.Transactor, users user.Repository) *Service {
	return &Service{tx: tx, users: users}
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (user.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" {
		return user.User{}, ErrInvalidInput
	}
	if !isValidPassword(in.Password) {
		return user.User{}, ErrInvalidInput
	}
	if !user.IsValidRole(in.Role) {
		return user.User{}, domain.ErrInvalidRole
	}
	if in.Year != nil && *in.Year <= 0 {
		return user.User{}, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, ErrInternal
	}

	u := user.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []string{in.Role},
	}
	switch in.Role {
	case user.RoleParticipant:
		accepted := true
		if in.Accepted != nil {
			accepted = *in.Accepted
		}
		u.Participant = &user.ParticipantProfile{
			ID:         uuid.New(),
			UserID:     u.ID,
			University: deref(in.University),
			Accepted:   accepted,
			Seminars:   []user.Membership{},
		}
	case user.RoleInstructor:
		u.Instructor = &user.InstructorProfile{
			ID:      uuid.New(),
			UserID:  u.ID,
			Company: deref(in.Company),
			Year:    in.Year,
		}
	}

	err = s.tx.InTx(ctx, func(q database.Querier) error {
		exists, err := s.users.ExistsByEmail(ctx, q, email)
		if err != nil {
			return ErrInternal
		}
		if exists {
			return ErrEmailAlreadyRegistered
		}
		if err := s.users.CreateUser(ctx, q, u); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyRegistered) || errors.Is(err, ErrInternal) {
			return user.User{}, err
		}
		if errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, ErrEmailAlreadyRegistered
		}
		// Lost a race with a concurrent signup for the same email.
		exists, exErr := s.users.ExistsByEmail(ctx, nil, email)
		if exErr == nil && exists {
			return user.User{}, ErrEmailAlreadyRegistered
		}
		return user.User{}, ErrInternal
	}

	created, err := s.users.GetUserByID(ctx, nil, u.ID)
	if err != nil {
		return user.User{}, ErrInternal
	}
	return sanitizeUser(created), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return user.User{}, ErrInvalidCredentials
	}
	if in.Password == "" {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetUserByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}

	return sanitizeUser(u), nil
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return strings.ToLower(email)
}

func isValidPassword(pw string) bool {
	pw = strings.TrimSpace(pw)
	if len(pw) < 8 {
		return false
	}
	return true
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
