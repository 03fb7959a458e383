package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type JobApplicationDTO struct {
	ID               uuid.UUID  `json:"id"`
	JobTitle         string     `json:"job_title"`
	CompanyName      string     `json:"company_name"`
	Status           string     `json:"status"`
	BriefDescription string     `json:"brief_description"`
	JobURL           *string    `json:"job_url"`
	Platform         string     `json:"platform"`
	WorkMode         *string    `json:"work_mode"`
	Location         *string    `json:"location"`
	SalaryText       *string    `json:"salary_text"`
	AIInsights       *string    `json:"ai_insights"`
	MatchScore       *int       `json:"match_score"`
	AppliedAt        *time.Time `json:"applied_at"`
	StatusUpdatedAt  *time.Time `json:"status_updated_at"`
	CreatedAt        time.Time  `json:"created_at"`
}
