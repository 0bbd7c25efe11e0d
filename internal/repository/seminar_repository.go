package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"seminar-api/internal/database"
	dbpostgres "seminar-api/internal/database/postgres"
	"seminar-api/internal/domain/seminar"
)

type PostgresSeminarRepository struct {
	db database.DB
}

var _ seminar.Repository = (*PostgresSeminarRepository)(nil)

func NewPostgresSeminarRepository(db database.DB) *PostgresSeminarRepository {
	return &PostgresSeminarRepository{db: db}
}

func (r *PostgresSeminarRepository) querier(q database.Querier) database.Querier {
	if q != nil {
		return q
	}
	return r.db
}

const selectSeminar = `SELECT id, name, capacity, count, time, online, charger_id, created_at, updated_at FROM seminars`

func (r *PostgresSeminarRepository) Create(ctx context.Context, q database.Querier, s *seminar.Seminar) error {
	if s == nil {
		return fmt.Errorf("nil seminar")
	}
	err := r.querier(q).QueryRow(ctx,
		`INSERT INTO seminars (id, name, capacity, count, time, online, charger_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		s.ID, s.Name, s.Capacity, s.Count, s.Time, s.Online, s.ChargerID,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert seminar: %w", err)
	}
	return nil
}

func (r *PostgresSeminarRepository) Update(ctx context.Context, q database.Querier, s *seminar.Seminar) error {
	if s == nil {
		return fmt.Errorf("nil seminar")
	}
	err := r.querier(q).QueryRow(ctx,
		`UPDATE seminars
		 SET name = $2, capacity = $3, count = $4, time = $5, online = $6, charger_id = $7, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at`,
		s.ID, s.Name, s.Capacity, s.Count, s.Time, s.Online, s.ChargerID,
	).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return seminar.ErrNotFound
		}
		return fmt.Errorf("update seminar: %w", err)
	}
	return nil
}

func (r *PostgresSeminarRepository) GetByID(ctx context.Context, q database.Querier, id uuid.UUID) (seminar.Seminar, error) {
	return r.getOne(ctx, q, selectSeminar+` WHERE id = $1`, id)
}

func (r *PostgresSeminarRepository) GetByIDForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (seminar.Seminar, error) {
	return r.getOne(ctx, q, selectSeminar+` WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresSeminarRepository) List(ctx context.Context, q database.Querier, f seminar.ListFilter) ([]seminar.Seminar, error) {
	db := r.querier(q)

	query, args := buildListQuery(f)
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list seminars: %w", err)
	}

	out := make([]seminar.Seminar, 0)
	for rows.Next() {
		s, err := scanSeminar(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range out {
		if err := r.loadAssociations(ctx, db, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *PostgresSeminarRepository) AddParticipant(ctx context.Context, q database.Querier, p seminar.Participant) error {
	_, err := r.querier(q).Exec(ctx,
		`INSERT INTO seminar_participants (id, seminar_id, participant_profile_id, is_active, joined_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.SeminarID, p.ProfileID, p.IsActive, p.JoinedAt,
	)
	if err != nil {
		if dbpostgres.IsUniqueViolation(err) {
			return seminar.ErrDuplicateParticipant
		}
		return fmt.Errorf("insert seminar participant: %w", err)
	}
	return nil
}

// buildListQuery escapes LIKE wildcards so the name filter is a plain substring match.
func buildListQuery(f seminar.ListFilter) (string, []any) {
	var b strings.Builder
	b.WriteString(selectSeminar)

	args := make([]any, 0, 1)
	if f.NameContains != nil {
		args = append(args, "%"+escapeLike(*f.NameContains)+"%")
		b.WriteString(` WHERE name LIKE $1 ESCAPE '\'`)
	}
	if f.Ascending {
		b.WriteString(` ORDER BY created_at ASC, id ASC`)
	} else {
		b.WriteString(` ORDER BY created_at DESC, id DESC`)
	}
	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *PostgresSeminarRepository) getOne(ctx context.Context, q database.Querier, query string, id uuid.UUID) (seminar.Seminar, error) {
	db := r.querier(q)

	s, err := scanSeminar(db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return seminar.Seminar{}, seminar.ErrNotFound
		}
		return seminar.Seminar{}, err
	}
	if err := r.loadAssociations(ctx, db, &s); err != nil {
		return seminar.Seminar{}, err
	}
	return s, nil
}

func (r *PostgresSeminarRepository) loadAssociations(ctx context.Context, db database.Querier, s *seminar.Seminar) error {
	instructors, err := r.instructors(ctx, db, s.ID)
	if err != nil {
		return err
	}
	participants, err := r.participants(ctx, db, s.ID)
	if err != nil {
		return err
	}
	s.Instructors = instructors
	s.Participants = participants
	return nil
}

func (r *PostgresSeminarRepository) instructors(ctx context.Context, db database.Querier, seminarID uuid.UUID) ([]seminar.Instructor, error) {
	rows, err := db.Query(ctx,
		`SELECT ip.id, u.id, u.name, u.email, ip.company, ip.year
		 FROM instructor_profiles ip
		 JOIN users u ON u.id = ip.user_id
		 WHERE ip.seminar_id = $1
		 ORDER BY ip.updated_at ASC, ip.id ASC`,
		seminarID,
	)
	if err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	defer rows.Close()

	out := make([]seminar.Instructor, 0)
	for rows.Next() {
		var i seminar.Instructor
		if err := rows.Scan(&i.ProfileID, &i.UserID, &i.Name, &i.Email, &i.Company, &i.Year); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSeminarRepository) participants(ctx context.Context, db database.Querier, seminarID uuid.UUID) ([]seminar.Participant, error) {
	rows, err := db.Query(ctx,
		`SELECT sp.id, sp.seminar_id, pp.id, u.id, u.name, u.email, pp.university, pp.accepted, sp.is_active, sp.joined_at
		 FROM seminar_participants sp
		 JOIN participant_profiles pp ON pp.id = sp.participant_profile_id
		 JOIN users u ON u.id = pp.user_id
		 WHERE sp.seminar_id = $1
		 ORDER BY sp.joined_at ASC, sp.id ASC`,
		seminarID,
	)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	out := make([]seminar.Participant, 0)
	for rows.Next() {
		var p seminar.Participant
		if err := rows.Scan(
			&p.ID, &p.SeminarID, &p.ProfileID, &p.UserID, &p.Name, &p.Email,
			&p.University, &p.Accepted, &p.IsActive, &p.JoinedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type seminarRow interface {
	Scan(dest ...any) error
}

func scanSeminar(row seminarRow) (seminar.Seminar, error) {
	var s seminar.Seminar
	err := row.Scan(&s.ID, &s.Name, &s.Capacity, &s.Count, &s.Time, &s.Online, &s.ChargerID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return seminar.Seminar{}, err
		}
		return seminar.Seminar{}, fmt.Errorf("scan seminar: %w", err)
	}
	s.Instructors = []seminar.Instructor{}
	s.Participants = []seminar.Participant{}
	return s, nil
}
