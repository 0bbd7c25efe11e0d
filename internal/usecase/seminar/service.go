package seminar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"seminar-api/internal/database"
	"seminar-api/internal/domain"
	domseminar "seminar-api/internal/domain/seminar"
	"seminar-api/internal/domain/user"
	"seminar-api/internal/pkg/logger"
)

var ErrInvalidInput = errors.New("invalid input")

type RegisterInput struct {
	Name     string
	Capacity int
	Count    int
	Time     string
	Online   *string
}

// UpdateInput fields left nil are not touched.
type UpdateInput struct {
	Count    *int
	Time     *string
	Online   *string
	Capacity *int
}

type Usecase interface {
	Register(ctx context.Context, in RegisterInput, acting user.User) (domseminar.Seminar, error)
	Update(ctx context.Context, seminarID uuid.UUID, in UpdateInput, acting user.User) (domseminar.Seminar, error)
	GetSeminarByID(ctx context.Context, seminarID uuid.UUID) (domseminar.Seminar, error)
	GetSeminarsByQueryParams(ctx context.Context, params map[string]string) ([]domseminar.Seminar, error)
	EnterSeminarLater(ctx context.Context, seminarID uuid.UUID, role string, acting user.User) (domseminar.Seminar, error)
}

type Service struct {
	tx       database.Transactor
	seminars domseminar.Repository
	users    user.Repository
	cache    Cache
	notifier Notifier
	log      *logger.Logger

	// cacheMu orders cache fills against invalidations; epoch counts
	// invalidations so a fill started before one is discarded.
	cacheMu sync.Mutex
	epoch   uint64

	now func() time.Time
}

var _ Usecase = (*Service)(nil)

// NewService wires the rule layer. cache and notifier may be nil.
func NewService(
	tx database.Transactor,
	seminars domseminar.Repository,
	users user.Repository,
	cache Cache,
	notifier Notifier,
	log *logger.Logger,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		tx:       tx,
		seminars: seminars,
		users:    users,
		cache:    cache,
		notifier: notifier,
		log:      log.With("service", "seminar"),
		now:      time.Now,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput, acting user.User) (domseminar.Seminar, error) {
	if !acting.HasRole(user.RoleInstructor) {
		return domseminar.Seminar{}, domain.ErrNotInstructor
	}

	name := strings.TrimSpace(in.Name)
	if name == "" || in.Capacity <= 0 || in.Count <= 0 {
		return domseminar.Seminar{}, ErrInvalidInput
	}
	if !domseminar.IsTimeFormatValid(in.Time) {
		return domseminar.Seminar{}, domain.ErrInvalidTimeFormat
	}
	online, err := domseminar.ParseOnline(in.Online, true)
	if err != nil {
		return domseminar.Seminar{}, err
	}

	var created domseminar.Seminar
	err = s.tx.InTx(ctx, func(q database.Querier) error {
		usr, err := s.users.GetUserForUpdate(ctx, q, acting.ID)
		if err != nil {
			return mapUserError(err)
		}
		prof := usr.Instructor
		if prof == nil {
			return domain.ErrNotInstructor
		}
		if prof.IsCharging() {
			return domain.ErrAlreadyCharging
		}

		sem := domseminar.Seminar{
			ID:        uuid.New(),
			Name:      name,
			Capacity:  in.Capacity,
			Count:     in.Count,
			Time:      in.Time,
			Online:    online,
			ChargerID: prof.ID,
		}
		if err := s.seminars.Create(ctx, q, &sem); err != nil {
			return fmt.Errorf("create seminar: %w", err)
		}
		if err := s.users.SetInstructorSeminar(ctx, q, prof.ID, &sem.ID); err != nil {
			return fmt.Errorf("assign charger: %w", err)
		}

		sem.Instructors = []domseminar.Instructor{instructorOf(usr)}
		sem.Participants = []domseminar.Participant{}
		created = sem
		return nil
	})
	if err != nil {
		return domseminar.Seminar{}, err
	}

	s.log.Info("seminar registered", "seminar_id", created.ID, "user_id", acting.ID)
	s.afterCommit(ctx, EventRegistered, created.ID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, seminarID uuid.UUID, in UpdateInput, acting user.User) (domseminar.Seminar, error) {
	var updated domseminar.Seminar
	err := s.tx.InTx(ctx, func(q database.Querier) error {
		sem, err := s.seminars.GetByIDForUpdate(ctx, q, seminarID)
		if err != nil {
			return mapSeminarError(err)
		}
		if acting.Instructor == nil || !sem.IsChargedBy(acting.Instructor.ID) {
			return domain.ErrNotCharger
		}

		if in.Count != nil {
			if *in.Count <= 0 {
				return ErrInvalidInput
			}
			sem.Count = *in.Count
		}
		if in.Time != nil {
			if !domseminar.IsTimeFormatValid(*in.Time) {
				return domain.ErrInvalidTimeFormat
			}
			sem.Time = *in.Time
		}
		if in.Online != nil {
			online, err := domseminar.ParseOnline(in.Online, sem.Online)
			if err != nil {
				return err
			}
			sem.Online = online
		}
		if in.Capacity != nil {
			if *in.Capacity < sem.ParticipantCount() {
				return domain.ErrCapacityTooSmall
			}
			if *in.Capacity <= 0 {
				return ErrInvalidInput
			}
			sem.Capacity = *in.Capacity
		}

		if err := s.seminars.Update(ctx, q, &sem); err != nil {
			return mapSeminarError(err)
		}
		updated = sem
		return nil
	})
	if err != nil {
		return domseminar.Seminar{}, err
	}

	s.log.Info("seminar updated", "seminar_id", seminarID, "user_id", acting.ID)
	s.afterCommit(ctx, EventUpdated, seminarID)
	return updated, nil
}

func (s *Service) GetSeminarByID(ctx context.Context, seminarID uuid.UUID) (domseminar.Seminar, error) {
	key := DetailCacheKey(seminarID)

	var cached domseminar.Seminar
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	epoch := s.cacheEpoch()
	sem, err := s.seminars.GetByID(ctx, nil, seminarID)
	if err != nil {
		return domseminar.Seminar{}, mapSeminarError(err)
	}
	s.cacheSet(ctx, key, sem, epoch)
	return sem, nil
}

func (s *Service) GetSeminarsByQueryParams(ctx context.Context, params map[string]string) ([]domseminar.Seminar, error) {
	f := domseminar.ParseListQuery(params)
	key := ListCacheKey(f)

	var cached []domseminar.Seminar
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	epoch := s.cacheEpoch()
	items, err := s.seminars.List(ctx, nil, f)
	if err != nil {
		return nil, fmt.Errorf("list seminars: %w", err)
	}
	s.cacheSet(ctx, key, items, epoch)
	return items, nil
}

func (s *Service) EnterSeminarLater(ctx context.Context, seminarID uuid.UUID, role string, acting user.User) (domseminar.Seminar, error) {
	var entered domseminar.Seminar
	err := s.tx.InTx(ctx, func(q database.Querier) error {
		sem, err := s.seminars.GetByIDForUpdate(ctx, q, seminarID)
		if err != nil {
			return mapSeminarError(err)
		}
		usr, err := s.users.GetUserForUpdate(ctx, q, acting.ID)
		if err != nil {
			return mapUserError(err)
		}

		if !user.IsValidRole(role) {
			return domain.ErrInvalidRole
		}
		if !usr.HasRole(role) {
			return domain.ErrRoleNotSuitable
		}
		// Applies to instructors too: a full seminar takes nobody.
		if sem.IsFull() {
			return domain.ErrAlreadyFull
		}
		if sem.HasMember(usr.ID) {
			return domain.ErrAlreadyEntered
		}

		switch role {
		case user.RoleParticipant:
			prof := usr.Participant
			if prof == nil {
				return domain.ErrRoleNotSuitable
			}
			if !prof.Accepted {
				return domain.ErrNotAccepted
			}

			p := domseminar.Participant{
				ID:         uuid.New(),
				SeminarID:  sem.ID,
				ProfileID:  prof.ID,
				UserID:     usr.ID,
				Name:       usr.Name,
				Email:      usr.Email,
				University: prof.University,
				Accepted:   prof.Accepted,
				IsActive:   true,
				JoinedAt:   s.now().UTC(),
			}
			if err := s.seminars.AddParticipant(ctx, q, p); err != nil {
				if errors.Is(err, domseminar.ErrDuplicateParticipant) {
					return domain.ErrAlreadyEntered
				}
				return fmt.Errorf("add participant: %w", err)
			}
			sem.Participants = append(sem.Participants, p)

		case user.RoleInstructor:
			prof := usr.Instructor
			if prof == nil {
				return domain.ErrRoleNotSuitable
			}
			if prof.IsCharging() {
				return domain.ErrAlreadyCharging
			}

			if err := s.users.SetInstructorSeminar(ctx, q, prof.ID, &sem.ID); err != nil {
				return fmt.Errorf("assign instructor: %w", err)
			}
			sem.Instructors = append(sem.Instructors, instructorOf(usr))
		}

		entered = sem
		return nil
	})
	if err != nil {
		return domseminar.Seminar{}, err
	}

	s.log.Info("seminar entered", "seminar_id", seminarID, "user_id", acting.ID, "role", role)
	s.afterCommit(ctx, EventEntered, seminarID)
	return entered, nil
}

// InvalidateCache drops every cached seminar detail and list.
func (s *Service) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.epoch++
	if err := s.cache.DeleteByPattern(ctx, cacheKeyPattern); err != nil {
		s.log.Warn("seminar cache invalidation failed", "error", err)
	}
}

func (s *Service) cacheEpoch() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.epoch
}

func (s *Service) afterCommit(ctx context.Context, kind string, seminarID uuid.UUID) {
	s.InvalidateCache(ctx)
	if s.notifier != nil {
		s.notifier.NotifySeminarChanged(kind, seminarID)
	}
}

func (s *Service) cacheGet(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.GetJSON(ctx, key, out)
	if err != nil {
		s.log.Debug("seminar cache read failed", "key", key, "error", err)
		return false
	}
	return hit
}

// cacheSet stores value unless an invalidation ran after epoch was read, in
// which case value may predate the committed change.
func (s *Service) cacheSet(ctx context.Context, key string, value any, epoch uint64) {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.epoch != epoch {
		s.log.Debug("seminar cache fill skipped", "key", key)
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, 0); err != nil {
		s.log.Debug("seminar cache write failed", "key", key, "error", err)
	}
}

func instructorOf(u user.User) domseminar.Instructor {
	i := domseminar.Instructor{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
	}
	if u.Instructor != nil {
		i.ProfileID = u.Instructor.ID
		i.Company = u.Instructor.Company
		i.Year = u.Instructor.Year
	}
	return i
}

func mapUserError(err error) error {
	if errors.Is(err, user.ErrNotFound) {
		return domain.ErrUserNotFound
	}
	return fmt.Errorf("load user: %w", err)
}

func mapSeminarError(err error) error {
	if errors.Is(err, domseminar.ErrNotFound) {
		return domain.ErrSeminarNotFound
	}
	return fmt.Errorf("load seminar: %w", err)
}
