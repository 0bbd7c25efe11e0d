package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"seminar-api/internal/database"
	"seminar-api/internal/domain"
	"seminar-api/internal/domain/user"
	ucauth "seminar-api/internal/usecase/auth"
)

type fakeUserRepo struct {
	users map[uuid.UUID]user.User
}

func newFakeUserRepo(seed ...user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uuid.UUID]user.User{}}
	for _, u := range seed {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) CreateUser(_ context.Context, _ database.Querier, u user.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, _ database.Querier, u user.User) error {
	cur, ok := r.users[u.ID]
	if !ok {
		return user.ErrNotFound
	}
	cur.Name = u.Name
	cur.Email = u.Email
	cur.PasswordHash = u.PasswordHash
	cur.Roles = append([]string(nil), u.Roles...)
	r.users[u.ID] = cur
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, _ database.Querier, id uuid.UUID) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	if u.Instructor != nil {
		ip := *u.Instructor
		u.Instructor = &ip
	}
	if u.Participant != nil {
		pp := *u.Participant
		u.Participant = &pp
	}
	return u, nil
}

func (r *fakeUserRepo) GetUserForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (user.User, error) {
	return r.GetUserByID(ctx, q, id)
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, _ database.Querier, email string) (user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *fakeUserRepo) ExistsByEmail(context.Context, database.Querier, string) (bool, error) {
	return false, nil
}

func (r *fakeUserRepo) CreateParticipantProfile(_ context.Context, _ database.Querier, p user.ParticipantProfile) error {
	u := r.users[p.UserID]
	u.Participant = &p
	r.users[p.UserID] = u
	return nil
}

func (r *fakeUserRepo) UpdateParticipantProfile(ctx context.Context, q database.Querier, p user.ParticipantProfile) error {
	return r.CreateParticipantProfile(ctx, q, p)
}

func (r *fakeUserRepo) UpdateInstructorProfile(_ context.Context, _ database.Querier, p user.InstructorProfile) error {
	u := r.users[p.UserID]
	u.Instructor = &p
	r.users[p.UserID] = u
	return nil
}

func (r *fakeUserRepo) SetInstructorSeminar(context.Context, database.Querier, uuid.UUID, *uuid.UUID) error {
	return nil
}

type countingSeminarCache struct {
	calls int
}

func (c *countingSeminarCache) InvalidateCache(context.Context) {
	c.calls++
}

type passTx struct{}

func (passTx) InTx(_ context.Context, fn func(q database.Querier) error) error {
	return fn(nil)
}

func instructor() user.User {
	id := uuid.New()
	return user.User{
		ID:           id,
		Name:         "Ian",
		Email:        "ian@example.com",
		PasswordHash: "hash",
		Roles:        []string{user.RoleInstructor},
		Instructor:   &user.InstructorProfile{ID: uuid.New(), UserID: id, Company: "waffle"},
	}
}

func participant() user.User {
	id := uuid.New()
	return user.User{
		ID:          id,
		Name:        "Pat",
		Email:       "pat@example.com",
		Roles:       []string{user.RoleParticipant},
		Participant: &user.ParticipantProfile{ID: uuid.New(), UserID: id, University: "SNU", Accepted: true},
	}
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestGetUserByID(t *testing.T) {
	ins := instructor()
	svc := NewService(passTx{}, newFakeUserRepo(ins), nil)

	got, err := svc.GetMe(context.Background(), ins.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PasswordHash != "" {
		t.Fatalf("expected sanitized user")
	}

	if _, err := svc.GetUserByID(context.Background(), uuid.New()); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateMe_Instructor(t *testing.T) {
	ins := instructor()
	repo := newFakeUserRepo(ins)
	svc := NewService(passTx{}, repo, nil)

	got, err := svc.UpdateMe(context.Background(), ins.ID, UpdateMeInput{
		Name:     strPtr(" Ian K "),
		Password: strPtr("new-password"),
		Company:  strPtr("toss"),
		Year:     intPtr(4),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Ian K" || got.Instructor.Company != "toss" || *got.Instructor.Year != 4 {
		t.Fatalf("unexpected user %+v / %+v", got, got.Instructor)
	}
	stored := repo.users[ins.ID]
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-password")); err != nil {
		t.Fatalf("expected password re-hashed: %v", err)
	}
}

func TestUpdateMe_ProfileMismatch(t *testing.T) {
	p := participant()
	svc := NewService(passTx{}, newFakeUserRepo(p), nil)

	_, err := svc.UpdateMe(context.Background(), p.ID, UpdateMeInput{Company: strPtr("toss")})
	if !errors.Is(err, domain.ErrRoleNotSuitable) {
		t.Fatalf("expected ErrRoleNotSuitable, got %v", err)
	}

	got, err := svc.UpdateMe(context.Background(), p.ID, UpdateMeInput{University: strPtr("KAIST")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Participant.University != "KAIST" {
		t.Fatalf("expected university updated, got %q", got.Participant.University)
	}
}

func TestUpdateMe_Invalid(t *testing.T) {
	ins := instructor()
	svc := NewService(passTx{}, newFakeUserRepo(ins), nil)

	for _, in := range []UpdateMeInput{
		{Name: strPtr("  ")},
		{Password: strPtr("short")},
		{Year: intPtr(0)},
	} {
		if _, err := svc.UpdateMe(context.Background(), ins.ID, in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestAddParticipantProfile(t *testing.T) {
	ins := instructor()
	svc := NewService(passTx{}, newFakeUserRepo(ins), nil)

	got, err := svc.AddParticipantProfile(context.Background(), ins.ID, AddParticipantInput{University: "SNU"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !got.HasRole(user.RoleParticipant) || !got.HasRole(user.RoleInstructor) {
		t.Fatalf("expected both roles, got %v", got.Roles)
	}
	if got.Participant == nil || !got.Participant.Accepted || got.Participant.University != "SNU" {
		t.Fatalf("unexpected participant profile %+v", got.Participant)
	}

	_, err = svc.AddParticipantProfile(context.Background(), ins.ID, AddParticipantInput{University: "SNU"})
	if !errors.Is(err, domain.ErrAlreadyParticipant) {
		t.Fatalf("expected ErrAlreadyParticipant, got %v", err)
	}
}

func TestUpdateMe_PasswordKeptAsTyped(t *testing.T) {
	ins := instructor()
	repo := newFakeUserRepo(ins)
	svc := NewService(passTx{}, repo, nil)

	const typed = "  new-secret-pw  "
	if _, err := svc.UpdateMe(context.Background(), ins.ID, UpdateMeInput{Password: strPtr(typed)}); err != nil {
		t.Fatalf("update: %v", err)
	}

	auth := ucauth.NewService(passTx{}, repo)
	if _, err := auth.Login(context.Background(), ucauth.LoginInput{Email: ins.Email, Password: typed}); err != nil {
		t.Fatalf("login with the typed password: %v", err)
	}
	_, err := auth.Login(context.Background(), ucauth.LoginInput{Email: ins.Email, Password: "new-secret-pw"})
	if !errors.Is(err, ucauth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for the trimmed password, got %v", err)
	}
}

func TestUpdateMe_PasswordLengthIgnoresSurroundingSpaces(t *testing.T) {
	ins := instructor()
	svc := NewService(passTx{}, newFakeUserRepo(ins), nil)

	_, err := svc.UpdateMe(context.Background(), ins.ID, UpdateMeInput{Password: strPtr("   short    ")})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateMe_InvalidatesSeminarCache(t *testing.T) {
	ins := instructor()
	seminars := &countingSeminarCache{}
	svc := NewService(passTx{}, newFakeUserRepo(ins), seminars)

	if _, err := svc.UpdateMe(context.Background(), ins.ID, UpdateMeInput{Company: strPtr("NewCo")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if seminars.calls != 1 {
		t.Fatalf("expected one invalidation, got %d", seminars.calls)
	}

	_, err := svc.UpdateMe(context.Background(), ins.ID, UpdateMeInput{University: strPtr("SNU")})
	if !errors.Is(err, domain.ErrRoleNotSuitable) {
		t.Fatalf("expected ErrRoleNotSuitable, got %v", err)
	}
	if seminars.calls != 1 {
		t.Fatalf("failed update must not invalidate, got %d calls", seminars.calls)
	}
}
