package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/myhireapp/myhire-api/internal/config"
	"github.com/myhireapp/myhire-api/internal/dto"
	"github.com/myhireapp/myhire-api/internal/middleware"
	"github.com/myhireapp/myhire-api/internal/usecase"
)

// ImportRunner is what the handler needs from the import pipeline.
type ImportRunner interface {
	Import(ctx context.Context, in usecase.ImportInput) (*usecase.ImportOutcome, error)
}

// ImportHandler speaks the import wire contract consumed by the web app and
// the browser extension, so it answers with bare JSON shapes instead of the
// shared envelope.
type ImportHandler struct {
	uc ImportRunner
}

func NewImportHandler(uc ImportRunner) *ImportHandler {
	return &ImportHandler{uc: uc}
}

func (h *ImportHandler) Import(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req dto.ImportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON body"})
	}

	// User-level key takes priority over the system fallback; resolved here,
	// once per request, and threaded into the enrichment stage.
	apiKey := user.OpenAIAPIKey
	if apiKey == "" {
		apiKey = config.LoadOpenAIConfig().APIKey
	}

	outcome, err := h.uc.Import(c.Context(), usecase.ImportInput{
		UserID:        user.ID,
		URL:           req.URL,
		Content:       req.Content,
		CVText:        req.CVText,
		CVFilePath:    req.CVFilePath,
		CVVersionName: req.CVVersionName,
		APIKey:        apiKey,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrMissingInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": usecase.ErrMissingInput.Error()})
		}
		var importErr *usecase.ImportError
		if errors.As(err, &importErr) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": importErr.Message})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": usecase.FailureMessage})
	}

	body := fiber.Map{"ok": true, "jobId": outcome.JobID}
	if outcome.Warning != "" {
		body["warning"] = outcome.Warning
	}
	return c.JSON(body)
}
