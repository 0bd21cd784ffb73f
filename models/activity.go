package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity event types
const (
	ActivityCompanyCreated = "company_created"
	ActivityIPOCreated     = "ipo_created"
)

// ActivityEvent is one entry of the admin activity feed: a creation event
// projected into a uniform shape regardless of its source record.
type ActivityEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	User      string    `json:"user"`
	Timestamp time.Time `json:"timestamp"`
	ObjectID  uuid.UUID `json:"object_id"`
}
