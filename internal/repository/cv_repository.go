package repository

import (
	"github.com/google/uuid"
	"github.com/myhireapp/myhire-api/internal/model"
	"gorm.io/gorm"
)

type CVRepository struct {
	db *gorm.DB
}

func NewCVRepository(db *gorm.DB) *CVRepository {
	return &CVRepository{db}
}

func (r *CVRepository) Create(profile *model.CVProfile) error {
	return r.db.Create(profile).Error
}

// FindLatest returns the user's most recent profile, or ErrRecordNotFound.
func (r *CVRepository) FindLatest(userID uuid.UUID) (*model.CVProfile, error) {
	var profile model.CVProfile
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&profile).Error
	return &profile, err
}
