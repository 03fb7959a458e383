package model

import (
	"time"

	"github.com/google/uuid"
)

// CVProfile holds the candidate text used by the match-scoring call. The
// import pipeline only ever reads the flattened summary+skills blob.
type CVProfile struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Name      string    `gorm:"not null" json:"name"`
	Summary   string    `gorm:"type:text" json:"summary"`
	Skills    string    `gorm:"type:text" json:"skills"`
	FilePath  *string   `json:"file_path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Text flattens the profile into the blob the matching prompt consumes.
func (p *CVProfile) Text() string {
	out := p.Summary
	if p.Skills != "" {
		if out != "" {
			out += "\n\nSkills: "
		} else {
			out = "Skills: "
		}
		out += p.Skills
	}
	return out
}
