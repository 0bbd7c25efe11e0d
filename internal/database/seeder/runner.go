package seeder

import (
	"context"
	"fmt"
	"time"

	"seminar-api/internal/database"
	"seminar-api/internal/pkg/logger"
)

type Runner struct {
	Seeders []Seeder
	Logger  *logger.Logger
}

// Run executes the seeders in order and stops at the first failure.
func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	log := r.Logger
	if log == nil {
		log = logger.Nop()
	}

	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.Info("seeder finished", "seeder", s.Name(), "duration", time.Since(start))
	}
	return nil
}
