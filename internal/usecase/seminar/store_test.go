package seminar

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"seminar-api/internal/database"
	domseminar "seminar-api/internal/domain/seminar"
	"seminar-api/internal/domain/user"
)

// memStore backs both repositories. memTx snapshots it before each unit of
// work and restores the snapshot when the work fails.
type memStore struct {
	mu sync.Mutex

	users        map[uuid.UUID]user.User
	seminars     map[uuid.UUID]domseminar.Seminar
	participants []domseminar.Participant

	clock time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uuid.UUID]user.User{},
		seminars: map[uuid.UUID]domseminar.Seminar{},
		clock:    time.Date(2021, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

type memSnapshot struct {
	users        map[uuid.UUID]user.User
	seminars     map[uuid.UUID]domseminar.Seminar
	participants []domseminar.Participant
}

func (m *memStore) snapshot() memSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := memSnapshot{
		users:        map[uuid.UUID]user.User{},
		seminars:     map[uuid.UUID]domseminar.Seminar{},
		participants: append([]domseminar.Participant(nil), m.participants...),
	}
	for k, v := range m.users {
		s.users[k] = cloneUser(v)
	}
	for k, v := range m.seminars {
		s.seminars[k] = v
	}
	return s
}

func (m *memStore) restore(s memSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = s.users
	m.seminars = s.seminars
	m.participants = s.participants
}

type memTx struct {
	store *memStore
}

func (t memTx) InTx(_ context.Context, fn func(q database.Querier) error) error {
	snap := t.store.snapshot()
	if err := fn(nil); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

func cloneUser(u user.User) user.User {
	u.Roles = append([]string(nil), u.Roles...)
	if u.Instructor != nil {
		ip := *u.Instructor
		if ip.SeminarID != nil {
			id := *ip.SeminarID
			ip.SeminarID = &id
		}
		u.Instructor = &ip
	}
	if u.Participant != nil {
		pp := *u.Participant
		pp.Seminars = append([]user.Membership(nil), pp.Seminars...)
		u.Participant = &pp
	}
	return u
}

// user.Repository

func (m *memStore) CreateUser(_ context.Context, _ database.Querier, u user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = cloneUser(u)
	return nil
}

func (m *memStore) UpdateUser(_ context.Context, _ database.Querier, u user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return user.ErrNotFound
	}
	m.users[u.ID] = cloneUser(u)
	return nil
}

func (m *memStore) GetUserByID(_ context.Context, _ database.Querier, id uuid.UUID) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return cloneUser(u), nil
}

func (m *memStore) GetUserForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (user.User, error) {
	return m.GetUserByID(ctx, q, id)
}

func (m *memStore) GetUserByEmail(_ context.Context, _ database.Querier, email string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *memStore) ExistsByEmail(ctx context.Context, q database.Querier, email string) (bool, error) {
	_, err := m.GetUserByEmail(ctx, q, email)
	return err == nil, nil
}

func (m *memStore) CreateParticipantProfile(_ context.Context, _ database.Querier, p user.ParticipantProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[p.UserID]
	if !ok {
		return user.ErrNotFound
	}
	u.Participant = &p
	m.users[u.ID] = u
	return nil
}

func (m *memStore) UpdateParticipantProfile(ctx context.Context, q database.Querier, p user.ParticipantProfile) error {
	return m.CreateParticipantProfile(ctx, q, p)
}

func (m *memStore) UpdateInstructorProfile(_ context.Context, _ database.Querier, p user.InstructorProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[p.UserID]
	if !ok || u.Instructor == nil {
		return user.ErrNotFound
	}
	ip := *u.Instructor
	ip.Company = p.Company
	ip.Year = p.Year
	u.Instructor = &ip
	m.users[u.ID] = u
	return nil
}

func (m *memStore) SetInstructorSeminar(_ context.Context, _ database.Querier, profileID uuid.UUID, seminarID *uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.users {
		if u.Instructor != nil && u.Instructor.ID == profileID {
			ip := *u.Instructor
			ip.SeminarID = seminarID
			u.Instructor = &ip
			m.users[id] = u
			return nil
		}
	}
	return user.ErrNotFound
}

// seminar.Repository

func (m *memStore) Create(_ context.Context, _ database.Querier, s *domseminar.Seminar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Minute)
	s.CreatedAt = m.clock
	s.UpdatedAt = m.clock
	row := *s
	row.Instructors = nil
	row.Participants = nil
	m.seminars[s.ID] = row
	return nil
}

func (m *memStore) Update(_ context.Context, _ database.Querier, s *domseminar.Seminar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seminars[s.ID]; !ok {
		return domseminar.ErrNotFound
	}
	row := *s
	row.Instructors = nil
	row.Participants = nil
	m.seminars[s.ID] = row
	return nil
}

func (m *memStore) GetByID(_ context.Context, _ database.Querier, id uuid.UUID) (domseminar.Seminar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.seminars[id]
	if !ok {
		return domseminar.Seminar{}, domseminar.ErrNotFound
	}
	return m.assemble(row), nil
}

func (m *memStore) GetByIDForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (domseminar.Seminar, error) {
	return m.GetByID(ctx, q, id)
}

func (m *memStore) List(_ context.Context, _ database.Querier, f domseminar.ListFilter) ([]domseminar.Seminar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domseminar.Seminar, 0)
	for _, row := range m.seminars {
		if f.NameContains != nil && !strings.Contains(row.Name, *f.NameContains) {
			continue
		}
		out = append(out, m.assemble(row))
	}
	sort.Slice(out, func(i, j int) bool {
		if f.Ascending {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memStore) AddParticipant(_ context.Context, _ database.Querier, p domseminar.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.participants {
		if existing.SeminarID == p.SeminarID && existing.ProfileID == p.ProfileID {
			return domseminar.ErrDuplicateParticipant
		}
	}
	m.participants = append(m.participants, p)
	return nil
}

func (m *memStore) assemble(row domseminar.Seminar) domseminar.Seminar {
	s := row
	s.Instructors = []domseminar.Instructor{}
	s.Participants = []domseminar.Participant{}
	for _, u := range m.users {
		if u.Instructor != nil && u.Instructor.SeminarID != nil && *u.Instructor.SeminarID == row.ID {
			s.Instructors = append(s.Instructors, instructorOf(u))
		}
	}
	for _, p := range m.participants {
		if p.SeminarID == row.ID {
			s.Participants = append(s.Participants, p)
		}
	}
	return s
}

func (m *memStore) participantCount(seminarID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.participants {
		if p.SeminarID == seminarID {
			n++
		}
	}
	return n
}

// fixtures

func (m *memStore) addInstructor(name string) user.User {
	u := user.User{
		ID:    uuid.New(),
		Name:  name,
		Email: strings.ToLower(name) + "@example.com",
		Roles: []string{user.RoleInstructor},
	}
	u.Instructor = &user.InstructorProfile{ID: uuid.New(), UserID: u.ID, Company: "waffle"}
	_ = m.CreateUser(context.Background(), nil, u)
	return u
}

func (m *memStore) addParticipant(name string, accepted bool) user.User {
	u := user.User{
		ID:    uuid.New(),
		Name:  name,
		Email: strings.ToLower(name) + "@example.com",
		Roles: []string{user.RoleParticipant},
	}
	u.Participant = &user.ParticipantProfile{ID: uuid.New(), UserID: u.ID, University: "SNU", Accepted: accepted}
	_ = m.CreateUser(context.Background(), nil, u)
	return u
}

type fakeCache struct {
	data        map[string]any
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]any{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	v, ok := c.data[key]
	if !ok {
		return false, nil
	}
	switch dst := out.(type) {
	case *domseminar.Seminar:
		*dst = v.(domseminar.Seminar)
	case *[]domseminar.Seminar:
		*dst = v.([]domseminar.Seminar)
	}
	return true, nil
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	c.invalidated++
	return nil
}

type fakeNotifier struct {
	events []string
}

func (n *fakeNotifier) NotifySeminarChanged(kind string, _ uuid.UUID) {
	n.events = append(n.events, kind)
}
