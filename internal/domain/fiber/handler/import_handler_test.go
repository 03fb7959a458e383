package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/myhireapp/myhire-api/internal/middleware"
	"github.com/myhireapp/myhire-api/internal/model"
	"github.com/myhireapp/myhire-api/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	outcome *usecase.ImportOutcome
	err     error
	lastIn  usecase.ImportInput
	calls   int
}

func (s *stubRunner) Import(_ context.Context, in usecase.ImportInput) (*usecase.ImportOutcome, error) {
	s.calls++
	s.lastIn = in
	return s.outcome, s.err
}

func newTestApp(runner ImportRunner, user *model.User) *fiber.App {
	app := fiber.New()
	app.Post("/api/import", func(c *fiber.Ctx) error {
		if user != nil {
			c.Locals(middleware.UserKey, user)
		}
		return c.Next()
	}, NewImportHandler(runner).Import)
	return app
}

func postImport(t *testing.T, app *fiber.App, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp.StatusCode, parsed
}

func TestImportHandlerUnauthorized(t *testing.T) {
	app := newTestApp(&stubRunner{}, nil)

	status, body := postImport(t, app, `{"url":"https://example.com"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", body["error"])
}

func TestImportHandlerInvalidJSON(t *testing.T) {
	runner := &stubRunner{}
	app := newTestApp(runner, &model.User{ID: uuid.New()})

	status, body := postImport(t, app, `{"url": `)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid JSON body", body["error"])
	assert.Zero(t, runner.calls)
}

func TestImportHandlerMissingInput(t *testing.T) {
	runner := &stubRunner{err: usecase.ErrMissingInput}
	app := newTestApp(runner, &model.User{ID: uuid.New()})

	status, body := postImport(t, app, `{"url":"", "content":"  "}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Provide a URL or page content", body["error"])
}

func TestImportHandlerSuccess(t *testing.T) {
	jobID := uuid.New()
	runner := &stubRunner{outcome: &usecase.ImportOutcome{JobID: jobID}}
	app := newTestApp(runner, &model.User{ID: uuid.New(), OpenAIAPIKey: "sk-user"})

	status, body := postImport(t, app, `{"url":"https://www.linkedin.com/jobs/1","cvText":"cv"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, jobID.String(), body["jobId"])
	_, hasWarning := body["warning"]
	assert.False(t, hasWarning)

	// The user-level key wins over the system fallback.
	assert.Equal(t, "sk-user", runner.lastIn.APIKey)
	assert.Equal(t, "cv", runner.lastIn.CVText)
}

func TestImportHandlerWarning(t *testing.T) {
	runner := &stubRunner{outcome: &usecase.ImportOutcome{
		JobID:   uuid.New(),
		Warning: "Import created but failed to update import row: update lost",
	}}
	app := newTestApp(runner, &model.User{ID: uuid.New()})

	status, body := postImport(t, app, `{"content":"posting"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["ok"])
	assert.Contains(t, body["warning"], "failed to update import row")
}

func TestImportHandlerPipelineFailure(t *testing.T) {
	runner := &stubRunner{err: &usecase.ImportError{
		Message: usecase.FailureMessage,
		Err:     errors.New("fetch blew up"),
	}}
	app := newTestApp(runner, &model.User{ID: uuid.New()})

	status, body := postImport(t, app, `{"url":"https://blocked.example.com"}`)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, usecase.FailureMessage, body["error"])
	// The raw cause never leaks to the caller.
	assert.NotContains(t, body["error"], "fetch blew up")
}
