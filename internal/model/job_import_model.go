package model

import (
	"time"

	"github.com/google/uuid"
)

// Import lifecycle states. An import starts as processing and moves exactly
// once to done or failed; rows are never deleted by the pipeline.
const (
	ImportStatusProcessing = "processing"
	ImportStatusDone       = "done"
	ImportStatusFailed     = "failed"
)

// JobImport is the audit record of one import request. The ID is generated by
// the caller before any side effect so the row is addressable even when the
// pipeline fails mid-flight.
type JobImport struct {
	ID                      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                  uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	SourceURL               *string    `json:"source_url"`
	Platform                string     `gorm:"type:varchar(20)" json:"platform"`
	Status                  string     `gorm:"type:varchar(20);not null" json:"status"`
	ErrorMessage            *string    `gorm:"type:text" json:"error_message"`
	CreatedJobApplicationID *uuid.UUID `gorm:"type:uuid" json:"created_job_application_id"`
	ExtractedPayload        *string    `gorm:"type:jsonb" json:"extracted_payload"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}
