package repository

import (
	"github.com/google/uuid"
	"github.com/myhireapp/myhire-api/internal/model"
	"gorm.io/gorm"
)

type ImportRepository struct {
	db *gorm.DB
}

func NewImportRepository(db *gorm.DB) *ImportRepository {
	return &ImportRepository{db}
}

func (r *ImportRepository) Create(imp *model.JobImport) error {
	return r.db.Create(imp).Error
}

// MarkFailed flips the audit row to its failed terminal state. This is the
// one guaranteed side effect on every failure path after the row exists.
func (r *ImportRepository) MarkFailed(id uuid.UUID, errorMessage string) error {
	return r.db.Model(&model.JobImport{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        model.ImportStatusFailed,
			"error_message": errorMessage,
		}).Error
}

// MarkDone links the created job application and stores the extracted-payload
// snapshot for audit.
func (r *ImportRepository) MarkDone(id, jobID uuid.UUID, extractedPayload string) error {
	return r.db.Model(&model.JobImport{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":                     model.ImportStatusDone,
			"created_job_application_id": jobID,
			"extracted_payload":          extractedPayload,
		}).Error
}

func (r *ImportRepository) FindByID(userID uuid.UUID, id string) (*model.JobImport, error) {
	var imp model.JobImport
	err := r.db.First(&imp, "id = ? AND user_id = ?", id, userID).Error
	return &imp, err
}
