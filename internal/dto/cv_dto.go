package dto

import (
	"time"

	"github.com/google/uuid"
)

type CVProfileDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Summary   string    `json:"summary"`
	Skills    string    `json:"skills"`
	FilePath  *string   `json:"file_path"`
	CreatedAt time.Time `json:"created_at"`
}
