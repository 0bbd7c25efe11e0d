package seminar

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"seminar-api/internal/database"
)

var (
	ErrNotFound             = errors.New("seminar not found")
	ErrDuplicateParticipant = errors.New("participant already in seminar")
)

// Repository methods take an optional querier; nil means the repository's own pool.
type Repository interface {
	Create(ctx context.Context, q database.Querier, s *Seminar) error
	Update(ctx context.Context, q database.Querier, s *Seminar) error
	GetByID(ctx context.Context, q database.Querier, id uuid.UUID) (Seminar, error)
	// GetByIDForUpdate locks the seminar row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (Seminar, error)
	List(ctx context.Context, q database.Querier, f ListFilter) ([]Seminar, error)
	AddParticipant(ctx context.Context, q database.Querier, p Participant) error
}
