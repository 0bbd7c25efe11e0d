package survey

import (
	"time"

	"github.com/google/uuid"
)

type OperatingSystem struct {
	ID          uuid.UUID
	Name        string
	Price       int
	Description string
}

type Response struct {
	ID             uuid.UUID
	Timestamp      time.Time
	OS             OperatingSystem
	SpringExp      int
	RDBExp         int
	ProgrammingExp int
	Major          string
	Grade          string
}
