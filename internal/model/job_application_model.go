package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

const (
	JobStatusApplied   = "applied"
	JobStatusProposal  = "proposal"
	JobStatusInterview = "interview"
	JobStatusOffer     = "offer"
	JobStatusRejected  = "rejected"
	JobStatusNoAnswer  = "no_answer"
)

const (
	PlatformLinkedIn  = "linkedin"
	PlatformIndeed    = "indeed"
	PlatformWellfound = "wellfound"
	PlatformOther     = "other"
)

const (
	WorkModeRemote = "remote"
	WorkModeHybrid = "hybrid"
	WorkModeOnSite = "on_site"
)

func ValidJobStatus(s string) bool {
	switch s {
	case JobStatusApplied, JobStatusProposal, JobStatusInterview,
		JobStatusOffer, JobStatusRejected, JobStatusNoAnswer:
		return true
	}
	return false
}

func ValidPlatform(s string) bool {
	switch s {
	case PlatformLinkedIn, PlatformIndeed, PlatformWellfound, PlatformOther:
		return true
	}
	return false
}

func ValidWorkMode(s string) bool {
	switch s {
	case WorkModeRemote, WorkModeHybrid, WorkModeOnSite:
		return true
	}
	return false
}

type JobApplication struct {
	ID               uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID        `gorm:"type:uuid;index;not null" json:"user_id"`
	JobTitle         string           `gorm:"not null" json:"job_title"`
	CompanyName      string           `gorm:"not null" json:"company_name"`
	Status           string           `gorm:"type:varchar(20);default:'applied'" json:"status"`
	JobDescription   string           `gorm:"type:text" json:"job_description"`
	BriefDescription string           `gorm:"type:text" json:"brief_description"`
	JobURL           *string          `json:"job_url"`
	Platform         string           `gorm:"type:varchar(20)" json:"platform"`
	WorkMode         *string          `gorm:"type:varchar(20)" json:"work_mode"`
	Location         *string          `json:"location"`
	SalaryText       *string          `json:"salary_text"`
	SalaryMin        *int             `json:"salary_min"`
	SalaryMax        *int             `json:"salary_max"`
	SalaryCurrency   *string          `gorm:"type:varchar(10)" json:"salary_currency"`
	AIInsights       *string          `gorm:"type:text" json:"ai_insights"`
	AIInsightsJSON   *string          `gorm:"type:jsonb" json:"ai_insights_json"`
	MatchScore       *int             `json:"match_score"`
	Notes            *string          `gorm:"type:text" json:"notes"`
	AppliedAt        *time.Time       `gorm:"type:date" json:"applied_at"`
	StatusUpdatedAt  *time.Time       `json:"status_updated_at"`
	CVFilePath       *string          `json:"cv_file_path"`
	CoverLetterFile  *string          `gorm:"column:cover_letter_file_path" json:"cover_letter_file_path"`
	Embedding        *pgvector.Vector `gorm:"type:vector(3072)" json:"-"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func (JobApplication) TableName() string {
	return "job_applications"
}
