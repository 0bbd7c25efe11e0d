package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"seminar-api/internal/database"
	"seminar-api/internal/domain/survey"
)

type PostgresSurveyRepository struct {
	db database.DB
}

var _ survey.Repository = (*PostgresSurveyRepository)(nil)

func NewPostgresSurveyRepository(db database.DB) *PostgresSurveyRepository {
	return &PostgresSurveyRepository{db: db}
}

func (r *PostgresSurveyRepository) ListOperatingSystems(ctx context.Context) ([]survey.OperatingSystem, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, price, description FROM operating_systems ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list operating systems: %w", err)
	}
	defer rows.Close()

	out := make([]survey.OperatingSystem, 0)
	for rows.Next() {
		var os survey.OperatingSystem
		if err := rows.Scan(&os.ID, &os.Name, &os.Price, &os.Description); err != nil {
			return nil, err
		}
		out = append(out, os)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSurveyRepository) GetOperatingSystem(ctx context.Context, id uuid.UUID) (survey.OperatingSystem, error) {
	var os survey.OperatingSystem
	err := r.db.QueryRow(ctx,
		`SELECT id, name, price, description FROM operating_systems WHERE id = $1`, id,
	).Scan(&os.ID, &os.Name, &os.Price, &os.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return survey.OperatingSystem{}, survey.ErrNotFound
		}
		return survey.OperatingSystem{}, fmt.Errorf("get operating system: %w", err)
	}
	return os, nil
}

const selectResponse = `SELECT
	sr.id, sr.responded_at, sr.spring_exp, sr.rdb_exp, sr.programming_exp, sr.major, sr.grade,
	os.id, os.name, os.price, os.description
FROM survey_responses sr
JOIN operating_systems os ON os.id = sr.os_id`

func (r *PostgresSurveyRepository) ListResponses(ctx context.Context, osName string) ([]survey.Response, error) {
	query := selectResponse + ` ORDER BY sr.responded_at ASC`
	args := []any{}
	if osName != "" {
		query = selectResponse + ` WHERE os.name = $1 ORDER BY sr.responded_at ASC`
		args = append(args, osName)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list survey responses: %w", err)
	}
	defer rows.Close()

	out := make([]survey.Response, 0)
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSurveyRepository) GetResponse(ctx context.Context, id uuid.UUID) (survey.Response, error) {
	resp, err := scanResponse(r.db.QueryRow(ctx, selectResponse+` WHERE sr.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return survey.Response{}, survey.ErrNotFound
		}
		return survey.Response{}, fmt.Errorf("get survey response: %w", err)
	}
	return resp, nil
}

func scanResponse(row database.Row) (survey.Response, error) {
	var s survey.Response
	err := row.Scan(
		&s.ID, &s.Timestamp, &s.SpringExp, &s.RDBExp, &s.ProgrammingExp, &s.Major, &s.Grade,
		&s.OS.ID, &s.OS.Name, &s.OS.Price, &s.OS.Description,
	)
	return s, err
}
