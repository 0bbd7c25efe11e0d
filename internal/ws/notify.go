package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type SeminarEvent struct {
	Type      string    `json:"type"`
	SeminarID uuid.UUID `json:"seminar_id"`
	Timestamp string    `json:"timestamp"`
}

func newSeminarEvent(kind string, seminarID uuid.UUID, at time.Time) SeminarEvent {
	return SeminarEvent{
		Type:      kind,
		SeminarID: seminarID,
		Timestamp: at.UTC().Format(time.RFC3339),
	}
}

// NotifySeminarChanged broadcasts a committed seminar change to every feed client.
func (h *Hub) NotifySeminarChanged(kind string, seminarID uuid.UUID) {
	if h == nil {
		return
	}
	b, err := json.Marshal(newSeminarEvent(kind, seminarID, time.Now()))
	if err != nil {
		h.logger.Error("ws event encode failed", "error", err)
		return
	}
	h.Broadcast(b)
}
