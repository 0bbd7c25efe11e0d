package seeder

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"seminar-api/internal/database"
)

// DemoPassword is shared by every demo account.
const DemoPassword = "seminar-demo"

type DemoUsersSeeder struct{}

func (DemoUsersSeeder) Name() string { return "demo_users" }

// Run creates four accepted participants. Existing emails are left untouched.
func (DemoUsersSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "users", "id", "name", "email", "password_hash", "roles"); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
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
		Name  string
		Email string
	}{
		{Name: "동숙이", Email: "dongsuk@suk.com"},
		{Name: "현숙이", Email: "hyunsuk@suk.com"},
		{Name: "철숙이", Email: "chulsuk@suk.com"},
		{Name: "대숙이", Email: "daesuk@suk.com"},
	}

	for _, it := range items {
		userID := uuid.New()
		affected, err := tx.Exec(
			ctx,
			`INSERT INTO users (id, name, email, password_hash, roles) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (email) DO NOTHING`,
			userID, it.Name, it.Email, string(hash), []string{"participant"},
		)
		if err != nil {
			return err
		}
		if affected == 0 {
			continue
		}
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO participant_profiles (id, user_id, university, accepted) VALUES ($1, $2, '', TRUE)`,
			uuid.New(), userID,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
