package models

import (
	"time"

	"github.com/google/uuid"
)

type IPONews struct {
	ID        uuid.UUID  `json:"id"`
	IPOID     uuid.UUID  `json:"ipo_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Source    *string    `json:"source"`
	SourceURL *string    `json:"source_url"`
	CreatedAt time.Time  `json:"created_at"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
}
