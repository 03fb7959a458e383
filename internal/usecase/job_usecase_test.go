package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/myhireapp/myhire-api/internal/model"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJobApplicationStore struct {
	sweepThreshold time.Time
	sweepNow       time.Time
	sweepCalls     int
	sweepErr       error
	swept          int64
	listCalls      int
	listed         []model.JobApplication
}

func (s *fakeJobApplicationStore) FindByID(uuid.UUID, string) (*model.JobApplication, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeJobApplicationStore) List(_ uuid.UUID, _, _ int) ([]model.JobApplication, int64, error) {
	s.listCalls++
	return s.listed, int64(len(s.listed)), nil
}

func (s *fakeJobApplicationStore) UpdateStatus(uuid.UUID, string, string, time.Time) error {
	return nil
}

func (s *fakeJobApplicationStore) RejectOverdue(_ uuid.UUID, threshold, now time.Time) (int64, error) {
	s.sweepCalls++
	s.sweepThreshold = threshold
	s.sweepNow = now
	return s.swept, s.sweepErr
}

func (s *fakeJobApplicationStore) UpdateEmbedding(uuid.UUID, pgvector.Vector) error {
	return nil
}

func (s *fakeJobApplicationStore) FindSimilar(uuid.UUID, uuid.UUID, pgvector.Vector, int) ([]model.JobApplication, error) {
	return nil, nil
}

func TestSweepOverdueBoundary(t *testing.T) {
	store := &fakeJobApplicationStore{swept: 3}
	uc := NewJobUsecase(store, nil)

	swept, err := uc.SweepOverdue(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(3), swept)
	require.Equal(t, 1, store.sweepCalls)

	// The threshold is local midnight, 21 calendar days back from now.
	y, m, d := store.sweepNow.AddDate(0, 0, -overdueDays).Date()
	want := time.Date(y, m, d, 0, 0, 0, 0, store.sweepNow.Location())
	assert.Equal(t, want, store.sweepThreshold)

	// The store rejects rows strictly before the threshold, so an
	// application dated exactly 21 days ago is left alone and one dated 22
	// days ago goes.
	exactly := store.sweepThreshold
	older := store.sweepThreshold.AddDate(0, 0, -1)
	assert.False(t, exactly.Before(store.sweepThreshold))
	assert.True(t, older.Before(store.sweepThreshold))
}

func TestListSweepsFirst(t *testing.T) {
	store := &fakeJobApplicationStore{
		listed: []model.JobApplication{{ID: uuid.New()}},
	}
	uc := NewJobUsecase(store, nil)

	jobs, total, err := uc.List(uuid.New(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, jobs, 1)
	assert.Equal(t, 1, store.sweepCalls)
	assert.Equal(t, 1, store.listCalls)
}

func TestListSurvivesSweepFailure(t *testing.T) {
	store := &fakeJobApplicationStore{
		sweepErr: errors.New("lock timeout"),
		listed:   []model.JobApplication{{ID: uuid.New()}},
	}
	uc := NewJobUsecase(store, nil)

	jobs, _, err := uc.List(uuid.New(), 1, 20)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}
