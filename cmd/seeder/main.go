package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"seminar-api/internal/config"
	"seminar-api/internal/database/migration"
	dbpostgres "seminar-api/internal/database/postgres"
	"seminar-api/internal/database/seeder"
	"seminar-api/internal/pkg/logger"
)

func main() {
	down := flag.Bool("down", false, "roll back every migration and exit")
	skipSeed := flag.Bool("migrate-only", false, "apply migrations without seeding")
	surveyPath := flag.String("survey", "", "survey TSV path (defaults to SEED_SURVEY_PATH, then the embedded sample)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.App.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	runner := migration.Runner{DatabaseURL: cfg.Database.URL(), Logger: log}
	if *down {
		if err := runner.Down(); err != nil {
			log.Fatal("migration down failed", "error", err)
		}
		return
	}
	if err := runner.Up(); err != nil {
		log.Fatal("migration up failed", "error", err)
	}
	if *skipSeed {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatal("database connect failed", "error", err)
	}
	defer db.Close()

	path := *surveyPath
	if path == "" {
		path = cfg.Seed.SurveyPath
	}
	if err := (seeder.Runner{Seeders: seeder.Defaults(path), Logger: log}).Run(ctx, db); err != nil {
		log.Fatal("seeding failed", "error", err)
	}
	log.Info("seeding complete")
}
