package seminar

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// Notifier publishes committed seminar changes.
type Notifier interface {
	NotifySeminarChanged(kind string, seminarID uuid.UUID)
}

const (
	EventRegistered = "seminar_registered"
	EventUpdated    = "seminar_updated"
	EventEntered    = "seminar_entered"
)
