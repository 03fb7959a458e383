package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/myhireapp/myhire-api/internal/model"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db}
}

func (r *JobRepository) Create(job *model.JobApplication) error {
	return r.db.Create(job).Error
}

func (r *JobRepository) FindByID(userID uuid.UUID, id string) (*model.JobApplication, error) {
	var job model.JobApplication
	err := r.db.First(&job, "id = ? AND user_id = ?", id, userID).Error
	return &job, err
}

func (r *JobRepository) List(userID uuid.UUID, page, pageSize int) ([]model.JobApplication, int64, error) {
	var jobs []model.JobApplication
	var total int64

	scope := r.db.Model(&model.JobApplication{}).Where("user_id = ?", userID)
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := scope.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&jobs).Error
	return jobs, total, err
}

func (r *JobRepository) UpdateStatus(userID uuid.UUID, id, status string, at time.Time) error {
	res := r.db.Model(&model.JobApplication{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"status":            status,
			"status_updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RejectOverdue transitions stale applied/no_answer applications to rejected.
// Strictly before the threshold date: a row applied exactly 21 days ago is
// not overdue yet. Returns how many rows were swept.
func (r *JobRepository) RejectOverdue(userID uuid.UUID, threshold, now time.Time) (int64, error) {
	res := r.db.Model(&model.JobApplication{}).
		Where("user_id = ?", userID).
		Where("status IN ?", []string{model.JobStatusApplied, model.JobStatusNoAnswer}).
		Where("applied_at < ?", threshold).
		Updates(map[string]any{
			"status":            model.JobStatusRejected,
			"status_updated_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *JobRepository) UpdateEmbedding(id uuid.UUID, embedding pgvector.Vector) error {
	return r.db.Model(&model.JobApplication{}).
		Where("id = ?", id).
		Update("embedding", embedding).Error
}

// FindSimilar runs a pgvector nearest-neighbour search among the user's own
// applications, excluding the anchor row itself.
func (r *JobRepository) FindSimilar(userID, excludeID uuid.UUID, embedding pgvector.Vector, topK int) ([]model.JobApplication, error) {
	var jobs []model.JobApplication
	err := r.db.Raw(`
        SELECT * FROM job_applications
        WHERE user_id = ? AND id <> ? AND embedding IS NOT NULL
        ORDER BY embedding <-> ?
        LIMIT ?
    `, userID, excludeID, embedding, topK).Scan(&jobs).Error
	return jobs, err
}
