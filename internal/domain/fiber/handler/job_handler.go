package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/myhireapp/myhire-api/internal/dto"
	"github.com/myhireapp/myhire-api/internal/middleware"
	"github.com/myhireapp/myhire-api/internal/model"
	"github.com/myhireapp/myhire-api/internal/response"
	"github.com/myhireapp/myhire-api/internal/usecase"
	"github.com/myhireapp/myhire-api/internal/util"
	"gorm.io/gorm"
)

type JobHandler struct {
	uc *usecase.JobUsecase
}

func NewJobHandler(uc *usecase.JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) List(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := c.QueryInt("page_size", 20)
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	jobs, total, err := h.uc.List(user.ID, page, pageSize)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list job applications",
		}, err)
	}

	items := make([]dto.JobApplicationDTO, 0, len(jobs))
	for i := range jobs {
		items = append(items, toJobDTO(&jobs[i]))
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get job applications",
		Data:       items,
		Pagination: response.NewPagination(page, pageSize, total),
	})
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	job, err := h.uc.Get(user.ID, c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "job application not found",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get job application",
		Data:    job,
	})
}

func (h *JobHandler) UpdateStatus(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid JSON body",
		}, err)
	}
	if !model.ValidJobStatus(req.Status) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: fmt.Sprintf("invalid status %q", req.Status),
		}, nil)
	}

	if err := h.uc.UpdateStatus(user.ID, c.Params("id"), req.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusNotFound,
				Message: "job application not found",
			}, err)
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to update status",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success update status",
	})
}

func (h *JobHandler) Similar(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	jobs, err := h.uc.Similar(c.Context(), user.ID, c.Params("id"), 5)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusNotFound,
				Message: "job application not found",
			}, err)
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to find similar jobs",
		}, err)
	}

	items := make([]dto.JobApplicationDTO, 0, len(jobs))
	for i := range jobs {
		items = append(items, toJobDTO(&jobs[i]))
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get similar jobs",
		Data:    items,
	})
}

func (h *JobHandler) SweepOverdue(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	swept, err := h.uc.SweepOverdue(user.ID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to sweep overdue applications",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success sweep overdue applications",
		Data:    fiber.Map{"rejected": swept},
	})
}

func toJobDTO(job *model.JobApplication) dto.JobApplicationDTO {
	return dto.JobApplicationDTO{
		ID:               job.ID,
		JobTitle:         job.JobTitle,
		CompanyName:      job.CompanyName,
		Status:           job.Status,
		BriefDescription: job.BriefDescription,
		JobURL:           job.JobURL,
		Platform:         job.Platform,
		WorkMode:         job.WorkMode,
		Location:         job.Location,
		SalaryText:       job.SalaryText,
		AIInsights:       job.AIInsights,
		MatchScore:       job.MatchScore,
		AppliedAt:        job.AppliedAt,
		StatusUpdatedAt:  job.StatusUpdatedAt,
		CreatedAt:        job.CreatedAt,
	}
}
