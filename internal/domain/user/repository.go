package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"seminar-api/internal/database"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already taken")
)

// Repository methods take an optional querier; nil means the repository's own pool.
type Repository interface {
	CreateUser(ctx context.Context, q database.Querier, u User) error
	UpdateUser(ctx context.Context, q database.Querier, u User) error
	GetUserByID(ctx context.Context, q database.Querier, id uuid.UUID) (User, error)
	// GetUserForUpdate locks the user row until the surrounding transaction ends.
	GetUserForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, q database.Querier, email string) (User, error)
	ExistsByEmail(ctx context.Context, q database.Querier, email string) (bool, error)

	CreateParticipantProfile(ctx context.Context, q database.Querier, p ParticipantProfile) error
	UpdateParticipantProfile(ctx context.Context, q database.Querier, p ParticipantProfile) error
	UpdateInstructorProfile(ctx context.Context, q database.Querier, p InstructorProfile) error
	SetInstructorSeminar(ctx context.Context, q database.Querier, profileID uuid.UUID, seminarID *uuid.UUID) error
}
