package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"seminar-api/internal/database"
	dbpostgres "seminar-api/internal/database/postgres"
	"seminar-api/internal/domain/user"
)

type PostgresUserRepository struct {
	db database.DB
}

var _ user.Repository = (*PostgresUserRepository)(nil)

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) querier(q database.Querier) database.Querier {
	if q != nil {
		return q
	}
	return r.db
}

const selectUser = `SELECT
	u.id, u.name, u.email, u.password_hash, u.roles, u.created_at, u.updated_at,
	ip.id, ip.company, ip.year, ip.seminar_id, ip.created_at, ip.updated_at,
	pp.id, pp.university, pp.accepted, pp.created_at, pp.updated_at
FROM users u
LEFT JOIN instructor_profiles ip ON ip.user_id = u.id
LEFT JOIN participant_profiles pp ON pp.user_id = u.id`

func (r *PostgresUserRepository) CreateUser(ctx context.Context, q database.Querier, u user.User) error {
	db := r.querier(q)

	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	if _, err := db.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, roles) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Name, u.Email, u.PasswordHash, roles,
	); err != nil {
		if dbpostgres.IsUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	if p := u.Instructor; p != nil {
		if _, err := db.Exec(ctx,
			`INSERT INTO instructor_profiles (id, user_id, company, year, seminar_id) VALUES ($1, $2, $3, $4, $5)`,
			p.ID, u.ID, p.Company, p.Year, p.SeminarID,
		); err != nil {
			return fmt.Errorf("insert instructor profile: %w", err)
		}
	}
	if p := u.Participant; p != nil {
		p.UserID = u.ID
		if err := r.CreateParticipantProfile(ctx, db, *p); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresUserRepository) UpdateUser(ctx context.Context, q database.Querier, u user.User) error {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	n, err := r.querier(q).Exec(ctx,
		`UPDATE users SET name = $2, email = $3, password_hash = $4, roles = $5, updated_at = now() WHERE id = $1`,
		u.ID, u.Name, u.Email, u.PasswordHash, roles,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, q database.Querier, id uuid.UUID) (user.User, error) {
	return r.getOne(ctx, q, selectUser+` WHERE u.id = $1`, id)
}

func (r *PostgresUserRepository) GetUserForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (user.User, error) {
	return r.getOne(ctx, q, selectUser+` WHERE u.id = $1 FOR UPDATE OF u`, id)
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, q database.Querier, email string) (user.User, error) {
	return r.getOne(ctx, q, selectUser+` WHERE u.email = $1`, email)
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, q database.Querier, email string) (bool, error) {
	var exists bool
	err := r.querier(q).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by email: %w", err)
	}
	return exists, nil
}

func (r *PostgresUserRepository) CreateParticipantProfile(ctx context.Context, q database.Querier, p user.ParticipantProfile) error {
	_, err := r.querier(q).Exec(ctx,
		`INSERT INTO participant_profiles (id, user_id, university, accepted) VALUES ($1, $2, $3, $4)`,
		p.ID, p.UserID, p.University, p.Accepted,
	)
	if err != nil {
		return fmt.Errorf("insert participant profile: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) UpdateParticipantProfile(ctx context.Context, q database.Querier, p user.ParticipantProfile) error {
	_, err := r.querier(q).Exec(ctx,
		`UPDATE participant_profiles SET university = $2, accepted = $3, updated_at = now() WHERE id = $1`,
		p.ID, p.University, p.Accepted,
	)
	if err != nil {
		return fmt.Errorf("update participant profile: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) UpdateInstructorProfile(ctx context.Context, q database.Querier, p user.InstructorProfile) error {
	_, err := r.querier(q).Exec(ctx,
		`UPDATE instructor_profiles SET company = $2, year = $3, updated_at = now() WHERE id = $1`,
		p.ID, p.Company, p.Year,
	)
	if err != nil {
		return fmt.Errorf("update instructor profile: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) SetInstructorSeminar(ctx context.Context, q database.Querier, profileID uuid.UUID, seminarID *uuid.UUID) error {
	n, err := r.querier(q).Exec(ctx,
		`UPDATE instructor_profiles SET seminar_id = $2, updated_at = now() WHERE id = $1`,
		profileID, seminarID,
	)
	if err != nil {
		return fmt.Errorf("set instructor seminar: %w", err)
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) getOne(ctx context.Context, q database.Querier, query string, arg any) (user.User, error) {
	db := r.querier(q)

	u, err := scanUser(db.QueryRow(ctx, query, arg))
	if err != nil {
		return user.User{}, err
	}
	if u.Participant != nil {
		seminars, err := r.memberships(ctx, db, u.Participant.ID)
		if err != nil {
			return user.User{}, err
		}
		u.Participant.Seminars = seminars
	}
	return u, nil
}

func (r *PostgresUserRepository) memberships(ctx context.Context, db database.Querier, profileID uuid.UUID) ([]user.Membership, error) {
	rows, err := db.Query(ctx,
		`SELECT s.id, s.name, sp.joined_at, sp.is_active
		 FROM seminar_participants sp
		 JOIN seminars s ON s.id = sp.seminar_id
		 WHERE sp.participant_profile_id = $1
		 ORDER BY sp.joined_at ASC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	out := make([]user.Membership, 0)
	for rows.Next() {
		var m user.Membership
		if err := rows.Scan(&m.SeminarID, &m.Name, &m.JoinedAt, &m.IsActive); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanUser(row database.Row) (user.User, error) {
	var (
		u user.User

		ipID        *uuid.UUID
		ipCompany   *string
		ipYear      *int
		ipSeminarID *uuid.UUID
		ipCreated   sql.NullTime
		ipUpdated   sql.NullTime

		ppID         *uuid.UUID
		ppUniversity *string
		ppAccepted   *bool
		ppCreated    sql.NullTime
		ppUpdated    sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Roles, &u.CreatedAt, &u.UpdatedAt,
		&ipID, &ipCompany, &ipYear, &ipSeminarID, &ipCreated, &ipUpdated,
		&ppID, &ppUniversity, &ppAccepted, &ppCreated, &ppUpdated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("scan user: %w", err)
	}

	if ipID != nil {
		u.Instructor = &user.InstructorProfile{
			ID:        *ipID,
			UserID:    u.ID,
			Company:   deref(ipCompany),
			Year:      ipYear,
			SeminarID: ipSeminarID,
			CreatedAt: ipCreated.Time,
			UpdatedAt: ipUpdated.Time,
		}
	}
	if ppID != nil {
		u.Participant = &user.ParticipantProfile{
			ID:         *ppID,
			UserID:     u.ID,
			University: deref(ppUniversity),
			Accepted:   ppAccepted != nil && *ppAccepted,
			Seminars:   []user.Membership{},
			CreatedAt:  ppCreated.Time,
			UpdatedAt:  ppUpdated.Time,
		}
	}
	return u, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
