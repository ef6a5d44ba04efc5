package models

import (
	"time"

	"github.com/google/uuid"
)

var DocumentOwnerTypes = []string{"resident", "room", "billing", "expense", "organization"}

type Document struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID uuid.UUID  `json:"organization_id" db:"organization_id"`
	OwnerType      string     `json:"owner_type" db:"owner_type"`
	OwnerID        uuid.UUID  `json:"owner_id" db:"owner_id"`
	FileName       string     `json:"file_name" db:"file_name"`
	ContentType    string     `json:"content_type" db:"content_type"`
	SizeBytes      int64      `json:"size_bytes" db:"size_bytes"`
	ObjectKey      string     `json:"-" db:"object_key"`
	UploadedBy     *uuid.UUID `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	URL            string     `json:"url,omitempty" db:"-"`
}
