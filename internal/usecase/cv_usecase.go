package usecase

import (
	"github.com/google/uuid"
	"github.com/myhireapp/myhire-api/internal/model"
	"github.com/myhireapp/myhire-api/internal/repository"
)

type CVUsecase struct {
	cvs *repository.CVRepository
}

func NewCVUsecase(cvs *repository.CVRepository) *CVUsecase {
	return &CVUsecase{cvs: cvs}
}

// Save stores a new CV profile version. The extracted text becomes the
// summary used by the match-scoring call when no cvText is supplied inline.
func (uc *CVUsecase) Save(userID uuid.UUID, name, summary, skills string, filePath *string) (*model.CVProfile, error) {
	profile := &model.CVProfile{
		UserID:   userID,
		Name:     name,
		Summary:  summary,
		Skills:   skills,
		FilePath: filePath,
	}
	if err := uc.cvs.Create(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (uc *CVUsecase) Latest(userID uuid.UUID) (*model.CVProfile, error) {
	return uc.cvs.FindLatest(userID)
}
