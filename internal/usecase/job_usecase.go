package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/myhireapp/myhire-api/internal/model"
	"github.com/myhireapp/myhire-api/internal/service"
	"github.com/pgvector/pgvector-go"
)

// Applications with no movement for this long are considered ghosted.
const overdueDays = 21

type JobApplicationStore interface {
	FindByID(userID uuid.UUID, id string) (*model.JobApplication, error)
	List(userID uuid.UUID, page, pageSize int) ([]model.JobApplication, int64, error)
	UpdateStatus(userID uuid.UUID, id, status string, at time.Time) error
	RejectOverdue(userID uuid.UUID, threshold, now time.Time) (int64, error)
	UpdateEmbedding(id uuid.UUID, embedding pgvector.Vector) error
	FindSimilar(userID, excludeID uuid.UUID, embedding pgvector.Vector, topK int) ([]model.JobApplication, error)
}

type JobUsecase struct {
	jobs     JobApplicationStore
	embedder service.GeminiServiceInterface // optional, nil when unconfigured
}

func NewJobUsecase(jobs JobApplicationStore, embedder service.GeminiServiceInterface) *JobUsecase {
	return &JobUsecase{jobs: jobs, embedder: embedder}
}

// List returns the user's applications, sweeping overdue ones first the way
// the dashboard does on load. A failed sweep only logs; the list still loads.
func (uc *JobUsecase) List(userID uuid.UUID, page, pageSize int) ([]model.JobApplication, int64, error) {
	if _, err := uc.SweepOverdue(userID); err != nil {
		log.Printf("overdue sweep for user %s failed: %v", userID, err)
	}
	return uc.jobs.List(userID, page, pageSize)
}

func (uc *JobUsecase) Get(userID uuid.UUID, id string) (*model.JobApplication, error) {
	return uc.jobs.FindByID(userID, id)
}

func (uc *JobUsecase) UpdateStatus(userID uuid.UUID, id, status string) error {
	return uc.jobs.UpdateStatus(userID, id, status, time.Now())
}

// SweepOverdue rejects applied/no_answer applications older than 21 days.
func (uc *JobUsecase) SweepOverdue(userID uuid.UUID) (int64, error) {
	now := time.Now()
	return uc.jobs.RejectOverdue(userID, overdueThreshold(now), now)
}

// overdueThreshold is local midnight 21 calendar days back. applied_at is a
// date, so anything strictly before this is more than 21 days old; a row
// applied exactly 21 days ago stays.
func overdueThreshold(now time.Time) time.Time {
	y, m, d := now.AddDate(0, 0, -overdueDays).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// Similar finds the nearest stored applications by description embedding. The
// anchor job needs an embedding; jobs imported before embeddings were
// configured simply return an empty list.
func (uc *JobUsecase) Similar(ctx context.Context, userID uuid.UUID, id string, topK int) ([]model.JobApplication, error) {
	job, err := uc.jobs.FindByID(userID, id)
	if err != nil {
		return nil, err
	}

	embedding := job.Embedding
	if embedding == nil {
		if uc.embedder == nil || job.JobDescription == "" {
			return []model.JobApplication{}, nil
		}
		values, err := uc.embedder.GenerateEmbedding(ctx, job.JobDescription)
		if err != nil {
			return nil, err
		}
		v := pgvector.NewVector(values)
		if err := uc.jobs.UpdateEmbedding(job.ID, v); err != nil {
			return nil, err
		}
		embedding = &v
	}

	return uc.jobs.FindSimilar(userID, job.ID, *embedding, topK)
}
