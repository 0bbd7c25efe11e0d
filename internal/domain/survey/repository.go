package survey

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

type Repository interface {
	ListOperatingSystems(ctx context.Context) ([]OperatingSystem, error)
	GetOperatingSystem(ctx context.Context, id uuid.UUID) (OperatingSystem, error)
	// ListResponses filters by OS name when osName is non-empty.
	ListResponses(ctx context.Context, osName string) ([]Response, error)
	GetResponse(ctx context.Context, id uuid.UUID) (Response, error)
}
