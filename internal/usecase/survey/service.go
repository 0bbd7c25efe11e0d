package survey

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"seminar-api/internal/domain"
	"seminar-api/internal/domain/survey"
	"seminar-api/internal/pkg/logger"
)

const (
	osCatalogCacheKey = "survey:os:list"
	osCatalogTTL      = time.Hour
)

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Usecase interface {
	ListOperatingSystems(ctx context.Context) ([]survey.OperatingSystem, error)
	GetOperatingSystem(ctx context.Context, id uuid.UUID) (survey.OperatingSystem, error)
	ListSurveyResponses(ctx context.Context, osName string) ([]survey.Response, error)
	GetSurveyResponse(ctx context.Context, id uuid.UUID) (survey.Response, error)
}

type Service struct {
	repo  survey.Repository
	cache Cache
	log   *logger.Logger
}

var _ Usecase = (*Service)(nil)

// NewService builds the read-only survey catalog. cache may be nil.
func NewService(repo survey.Repository, cache Cache, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, cache: cache, log: log.With("service", "survey")}
}

// ListOperatingSystems serves the seeded catalog, which never changes at runtime.
func (s *Service) ListOperatingSystems(ctx context.Context) ([]survey.OperatingSystem, error) {
	if s.cache != nil {
		var cached []survey.OperatingSystem
		hit, err := s.cache.GetJSON(ctx, osCatalogCacheKey, &cached)
		if err != nil {
			s.log.Debug("os catalog cache read failed", "error", err)
		}
		if hit {
			return cached, nil
		}
	}

	items, err := s.repo.ListOperatingSystems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list operating systems: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, osCatalogCacheKey, items, osCatalogTTL); err != nil {
			s.log.Debug("os catalog cache write failed", "error", err)
		}
	}
	return items, nil
}

func (s *Service) GetOperatingSystem(ctx context.Context, id uuid.UUID) (survey.OperatingSystem, error) {
	os, err := s.repo.GetOperatingSystem(ctx, id)
	if err != nil {
		if errors.Is(err, survey.ErrNotFound) {
			return survey.OperatingSystem{}, domain.ErrOperatingSystemNotFound
		}
		return survey.OperatingSystem{}, fmt.Errorf("get operating system: %w", err)
	}
	return os, nil
}

// ListSurveyResponses returns every response, or only those for osName when set.
func (s *Service) ListSurveyResponses(ctx context.Context, osName string) ([]survey.Response, error) {
	items, err := s.repo.ListResponses(ctx, strings.TrimSpace(osName))
	if err != nil {
		return nil, fmt.Errorf("list survey responses: %w", err)
	}
	return items, nil
}

func (s *Service) GetSurveyResponse(ctx context.Context, id uuid.UUID) (survey.Response, error) {
	r, err := s.repo.GetResponse(ctx, id)
	if err != nil {
		if errors.Is(err, survey.ErrNotFound) {
			return survey.Response{}, domain.ErrSurveyResponseNotFound
		}
		return survey.Response{}, fmt.Errorf("get survey response: %w", err)
	}
	return r, nil
}
