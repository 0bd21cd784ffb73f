package models

import (
	"time"

	"github.com/google/uuid"
)

type Company struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Description     *string    `json:"description"`
	Sector          *string    `json:"sector"`
	Industry        *string    `json:"industry"`
	Website         *string    `json:"website"`
	EstablishedYear *int       `json:"established_year"`
	Headquarters    *string    `json:"headquarters"`
	LogoURL         *string    `json:"logo_url"`

	// Counts resolved by sub-selects on the read path, never stored.
	TotalIPOs    int `json:"total_ipos"`
	UpcomingIPOs int `json:"upcoming_ipos"`

	// Audit fields
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
	UpdatedBy *uuid.UUID `json:"updated_by,omitempty"`
}
