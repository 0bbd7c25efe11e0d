package seeder

import (
	"context"
	"fmt"

	"seminar-api/internal/database"
)

type OperatingSystemsSeeder struct{}

func (OperatingSystemsSeeder) Name() string { return "operating_systems" }

func (OperatingSystemsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "operating_systems", "id", "name", "price", "description"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	items := []struct {
		Name        string
		Price       int
		Description string
	}{
		{Name: "Windows", Price: 200000, Description: "Most favorite OS in South Korea"},
		{Name: "MacOS", Price: 300000, Description: "Most favorite OS of Seminar Instructors"},
		{Name: "Linux", Price: 0, Description: "Linus Benedict Torvalds"},
	}

	for _, it := range items {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO operating_systems (id, name, price, description) VALUES (gen_random_uuid(), $1, $2, $3) ON CONFLICT (name) DO NOTHING`,
			it.Name,
			it.Price,
			it.Description,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
