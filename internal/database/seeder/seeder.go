package seeder

import (
	"context"

	"seminar-api/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
