package migration

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"seminar-api/internal/pkg/logger"
)

//go:embed sql/*.sql
var files embed.FS

// Runner applies the embedded schema migrations against DatabaseURL.
type Runner struct {
	DatabaseURL string
	Logger      *logger.Logger
}

func (r Runner) Up() error {
	m, err := r.open()
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration version: %w", err)
	}
	r.Logger.Info("migrations applied", "version", version, "dirty", dirty)
	return nil
}

func (r Runner) Down() error {
	m, err := r.open()
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down: %w", err)
	}
	r.Logger.Info("migrations rolled back")
	return nil
}

func (r Runner) open() (*migrate.Migrate, error) {
	if strings.TrimSpace(r.DatabaseURL) == "" {
		return nil, errors.New("empty database url")
	}
	src, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, r.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("migration init: %w", err)
	}
	return m, nil
}
