package handler

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/myhireapp/myhire-api/internal/dto"
	"github.com/myhireapp/myhire-api/internal/middleware"
	"github.com/myhireapp/myhire-api/internal/model"
	"github.com/myhireapp/myhire-api/internal/usecase"
	"github.com/myhireapp/myhire-api/internal/util"
	"gorm.io/gorm"
)

const (
	cvUploadDir   = "./uploads/cv/"
	maxCVFileSize = 5 * 1024 * 1024
)

type CVHandler struct {
	uc *usecase.CVUsecase
}

func NewCVHandler(uc *usecase.CVUsecase) *CVHandler {
	return &CVHandler{uc: uc}
}

// Upload takes a multipart PDF, extracts its text and stores it as a new CV
// profile version. The stored text is what the match-scoring call reads when
// an import carries no inline cvText.
func (h *CVHandler) Upload(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	file, err := c.FormFile("cv")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "cv file is required",
		}, err)
	}
	if file.Size > maxCVFileSize {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "cv file size is too large (max 5MB)",
		}, nil)
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "unsupported cv file type",
		}, nil)
	}

	savePath := filepath.Join(cvUploadDir, uuid.NewString()+".pdf")
	if err := c.SaveFile(file, savePath); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "cannot save cv file",
		}, err)
	}

	content, err := util.ExtractPDFText(savePath)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "failed to extract cv text",
		}, err)
	}

	name := c.FormValue("name")
	if name == "" {
		name = file.Filename
	}
	profile, err := h.uc.Save(user.ID, name, content, c.FormValue("skills"), &savePath)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to save cv profile",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success upload cv",
		Data:    toCVDTO(profile),
	})
}

func (h *CVHandler) Latest(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	profile, err := h.uc.Latest(user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusNotFound,
				Message: "no cv profile yet",
			}, err)
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to get cv profile",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get cv profile",
		Data:    toCVDTO(profile),
	})
}

func toCVDTO(p *model.CVProfile) dto.CVProfileDTO {
	return dto.CVProfileDTO{
		ID:        p.ID,
		Name:      p.Name,
		Summary:   p.Summary,
		Skills:    p.Skills,
		FilePath:  p.FilePath,
		CreatedAt: p.CreatedAt,
	}
}
