package models

import (
	"time"

	"github.com/google/uuid"
)

// Document type tags
const (
	DocumentTypeRHP         = "RHP"
	DocumentTypeDRHP        = "DRHP"
	DocumentTypeProspectus  = "PROSPECTUS"
	DocumentTypeApplication = "APPLICATION"
	DocumentTypeOther       = "OTHER"
)

type IPODocument struct {
	ID           uuid.UUID  `json:"id"`
	IPOID        uuid.UUID  `json:"ipo_id"`
	DocumentType string     `json:"document_type"`
	Title        string     `json:"title"`
	FilePath     string     `json:"file"`
	Description  *string    `json:"description"`
	CreatedAt    time.Time  `json:"created_at"`
	UploadedBy   *uuid.UUID `json:"uploaded_by,omitempty"`
}
