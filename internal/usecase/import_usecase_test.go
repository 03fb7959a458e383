package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/myhireapp/myhire-api/internal/model"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type fakeImportStore struct {
	created    []*model.JobImport
	createErr  error
	markErr    error
	doneErr    error
	failedMsgs map[uuid.UUID]string
	doneLinks  map[uuid.UUID]uuid.UUID
	payloads   map[uuid.UUID]string
}

func newFakeImportStore() *fakeImportStore {
	return &fakeImportStore{
		failedMsgs: map[uuid.UUID]string{},
		doneLinks:  map[uuid.UUID]uuid.UUID{},
		payloads:   map[uuid.UUID]string{},
	}
}

func (s *fakeImportStore) Create(imp *model.JobImport) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, imp)
	return nil
}

func (s *fakeImportStore) MarkFailed(id uuid.UUID, msg string) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.failedMsgs[id] = msg
	return nil
}

func (s *fakeImportStore) MarkDone(id, jobID uuid.UUID, payload string) error {
	if s.doneErr != nil {
		return s.doneErr
	}
	s.doneLinks[id] = jobID
	s.payloads[id] = payload
	return nil
}

type fakeJobStore struct {
	created    []*model.JobApplication
	createErr  error
	embeddings map[uuid.UUID]pgvector.Vector
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{embeddings: map[uuid.UUID]pgvector.Vector{}}
}

func (s *fakeJobStore) Create(job *model.JobApplication) error {
	if s.createErr != nil {
		return s.createErr
	}
	job.ID = uuid.New()
	s.created = append(s.created, job)
	return nil
}

func (s *fakeJobStore) UpdateEmbedding(id uuid.UUID, emb pgvector.Vector) error {
	s.embeddings[id] = emb
	return nil
}

type fakeFetcher struct {
	html  string
	err   error
	calls int
}

func (f *fakeFetcher) FetchHTML(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.html, f.err
}

type fakeLLM struct {
	responses []string
	err       error
	calls     int
	prompts   []string
	apiKeys   []string
}

func (f *fakeLLM) ChatJSON(_ context.Context, apiKey, _, user string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, user)
	f.apiKeys = append(f.apiKeys, apiKey)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "{}", nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

type fakeCVStore struct {
	profile *model.CVProfile
}

func (f *fakeCVStore) FindLatest(uuid.UUID) (*model.CVProfile, error) {
	if f.profile == nil {
		return nil, errors.New("record not found")
	}
	return f.profile, nil
}

type fakeEmbedder struct {
	values []float32
	err    error
}

func (f *fakeEmbedder) GenerateEmbedding(context.Context, string) ([]float32, error) {
	return f.values, f.err
}

func newTestUsecase(imports *fakeImportStore, jobs *fakeJobStore, fetcher *fakeFetcher, llm *fakeLLM) *ImportUsecase {
	return NewImportUsecase(imports, jobs, &fakeCVStore{}, fetcher, llm, nil)
}

func TestImportRejectsEmptyInput(t *testing.T) {
	imports := newFakeImportStore()
	uc := newTestUsecase(imports, newFakeJobStore(), &fakeFetcher{}, &fakeLLM{})

	_, err := uc.Import(context.Background(), ImportInput{
		UserID:  uuid.New(),
		URL:     "   ",
		Content: "\n\t",
	})

	require.ErrorIs(t, err, ErrMissingInput)
	// Rejected before any side effect.
	assert.Empty(t, imports.created)
}

func TestImportContentWithoutKey(t *testing.T) {
	imports := newFakeImportStore()
	jobs := newFakeJobStore()
	fetcher := &fakeFetcher{}
	llm := &fakeLLM{}
	uc := newTestUsecase(imports, jobs, fetcher, llm)

	outcome, err := uc.Import(context.Background(), ImportInput{
		UserID:  uuid.New(),
		Content: "Job Title: Gopher\nCompany: Acme\nThis is a fully remote position",
	})

	require.NoError(t, err)
	assert.Empty(t, outcome.Warning)

	// Pasted content means no fetch, no key means no model calls.
	assert.Zero(t, fetcher.calls)
	assert.Zero(t, llm.calls)

	require.Len(t, jobs.created, 1)
	job := jobs.created[0]
	assert.Equal(t, "Gopher", job.JobTitle)
	assert.Equal(t, "Acme", job.CompanyName)
	assert.Equal(t, model.JobStatusApplied, job.Status)
	require.NotNil(t, job.WorkMode)
	assert.Equal(t, model.WorkModeRemote, *job.WorkMode)
	require.NotNil(t, job.AIInsights)
	assert.Equal(t, "(AI disabled: no key)", *job.AIInsights)
	assert.Nil(t, job.MatchScore)
	assert.Nil(t, job.JobURL)

	// applied_at is today's local calendar date at midnight.
	require.NotNil(t, job.AppliedAt)
	applied := *job.AppliedAt
	assert.Equal(t, 0, applied.Hour())
	assert.Equal(t, 0, applied.Minute())
	assert.Equal(t, time.Local, applied.Location())
	assert.WithinDuration(t, time.Now(), applied, 24*time.Hour)

	// Audit row reconciled to the created job.
	require.Len(t, imports.created, 1)
	importID := imports.created[0].ID
	assert.Equal(t, model.ImportStatusProcessing, imports.created[0].Status)
	assert.Equal(t, job.ID, imports.doneLinks[importID])
	assert.Contains(t, imports.payloads[importID], "Acme")
}

func TestImportFetchFailure(t *testing.T) {
	imports := newFakeImportStore()
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	uc := newTestUsecase(imports, newFakeJobStore(), fetcher, &fakeLLM{})

	_, err := uc.Import(context.Background(), ImportInput{
		UserID: uuid.New(),
		URL:    "https://blocked.example.com/jobs/1",
	})

	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, FailureMessage, importErr.Message)

	require.Len(t, imports.created, 1)
	msg, marked := imports.failedMsgs[imports.created[0].ID]
	require.True(t, marked)
	assert.Contains(t, msg, "connection refused")
}

func TestImportAuditInsertFailure(t *testing.T) {
	imports := newFakeImportStore()
	imports.createErr = errors.New("db down")
	uc := newTestUsecase(imports, newFakeJobStore(), &fakeFetcher{}, &fakeLLM{})

	_, err := uc.Import(context.Background(), ImportInput{UserID: uuid.New(), Content: "x"})

	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Contains(t, importErr.Message, "Failed to create import row")
}

func TestImportJobInsertFailure(t *testing.T) {
	imports := newFakeImportStore()
	jobs := newFakeJobStore()
	jobs.createErr = errors.New("constraint violated")
	uc := newTestUsecase(imports, jobs, &fakeFetcher{}, &fakeLLM{})

	_, err := uc.Import(context.Background(), ImportInput{UserID: uuid.New(), Content: "some posting"})

	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Contains(t, importErr.Message, "Failed to create job application")

	msg := imports.failedMsgs[imports.created[0].ID]
	assert.Contains(t, msg, "constraint violated")
}

func TestImportReconcileFailureIsWarning(t *testing.T) {
	imports := newFakeImportStore()
	imports.doneErr = errors.New("update lost")
	jobs := newFakeJobStore()
	uc := newTestUsecase(imports, jobs, &fakeFetcher{}, &fakeLLM{})

	outcome, err := uc.Import(context.Background(), ImportInput{UserID: uuid.New(), Content: "some posting"})

	// The job exists, so the import still succeeds.
	require.NoError(t, err)
	assert.Contains(t, outcome.Warning, "failed to update import row")
	assert.Len(t, jobs.created, 1)
}

func TestImportNoDeduplication(t *testing.T) {
	imports := newFakeImportStore()
	jobs := newFakeJobStore()
	uc := newTestUsecase(imports, jobs, &fakeFetcher{}, &fakeLLM{})

	in := ImportInput{UserID: uuid.New(), Content: "Job Title: Gopher\nCompany: Acme"}
	first, err := uc.Import(context.Background(), in)
	require.NoError(t, err)
	second, err := uc.Import(context.Background(), in)
	require.NoError(t, err)

	assert.NotEqual(t, first.JobID, second.JobID)
	assert.Len(t, imports.created, 2)
	assert.Len(t, jobs.created, 2)
}

func TestImportAIEnrichment(t *testing.T) {
	imports := newFakeImportStore()
	jobs := newFakeJobStore()
	llm := &fakeLLM{responses: []string{
		`{"title":"Senior Go Engineer","company":"Acme GmbH","location":"Berlin",
		  "work_mode":"hybrid","platform":"linkedin","brief_description":"Own the platform.",
		  "keywords":["go","postgres"]}`,
		`{"match_score":91.6,"match_summary":"Great fit.","strengths":["Go"],"gaps":["K8s"]}`,
	}}
	uc := newTestUsecase(imports, jobs, &fakeFetcher{}, llm)

	outcome, err := uc.Import(context.Background(), ImportInput{
		UserID:  uuid.New(),
		URL:     "https://www.linkedin.com/jobs/123",
		Content: "Job Title: Gopher\nCompany: Acme\nremote role",
		CVText:  "Ten years of Go.",
		APIKey:  "sk-user",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, llm.calls)
	assert.Equal(t, []string{"sk-user", "sk-user"}, llm.apiKeys)

	require.Len(t, jobs.created, 1)
	job := jobs.created[0]
	assert.Equal(t, outcome.JobID, job.ID)

	// AI fields override the heuristic baseline.
	assert.Equal(t, "Senior Go Engineer", job.JobTitle)
	assert.Equal(t, "Acme GmbH", job.CompanyName)
	require.NotNil(t, job.Location)
	assert.Equal(t, "Berlin", *job.Location)
	require.NotNil(t, job.WorkMode)
	assert.Equal(t, model.WorkModeHybrid, *job.WorkMode)
	assert.Equal(t, "Own the platform.", job.BriefDescription)

	// Score rounded and mirrored into the JSON payload.
	require.NotNil(t, job.MatchScore)
	assert.Equal(t, 92, *job.MatchScore)
	require.NotNil(t, job.AIInsightsJSON)
	assert.Equal(t, int64(92), gjson.Get(*job.AIInsightsJSON, "match_score").Int())
	assert.Equal(t, "Great fit.", gjson.Get(*job.AIInsightsJSON, "match_summary").String())

	require.NotNil(t, job.AIInsights)
	assert.Contains(t, *job.AIInsights, "Match score: 92/100")
	assert.Contains(t, *job.AIInsights, "Strength: Go")
}

func TestImportMalformedAIResponseKeepsHeuristics(t *testing.T) {
	imports := newFakeImportStore()
	jobs := newFakeJobStore()
	llm := &fakeLLM{responses: []string{"I'm sorry, I can't do that.", "nor that"}}
	uc := newTestUsecase(imports, jobs, &fakeFetcher{}, llm)

	_, err := uc.Import(context.Background(), ImportInput{
		UserID:  uuid.New(),
		Content: "Job Title: Gopher\nCompany: Acme",
		CVText:  "CV",
		APIKey:  "sk-user",
	})
	require.NoError(t, err)

	job := jobs.created[0]
	assert.Equal(t, "Gopher", job.JobTitle)
	assert.Equal(t, "Acme", job.CompanyName)
	assert.Nil(t, job.MatchScore)
}

func TestImportLLMErrorDegradesSilently(t *testing.T) {
	imports := newFakeImportStore()
	jobs := newFakeJobStore()
	llm := &fakeLLM{err: errors.New("rate limited")}
	uc := newTestUsecase(imports, jobs, &fakeFetcher{}, llm)

	_, err := uc.Import(context.Background(), ImportInput{
		UserID:  uuid.New(),
		Content: "Job Title: Gopher",
		APIKey:  "sk-user",
	})

	require.NoError(t, err)
	assert.Equal(t, "Gopher", jobs.created[0].JobTitle)
	// Model failure never flips the audit row.
	assert.Empty(t, imports.failedMsgs)
}

func TestImportPlatformPrefersURL(t *testing.T) {
	imports := newFakeImportStore()
	jobs := newFakeJobStore()
	uc := newTestUsecase(imports, jobs, &fakeFetcher{}, &fakeLLM{})

	// Content mentions indeed, but the URL decides.
	_, err := uc.Import(context.Background(), ImportInput{
		UserID:  uuid.New(),
		URL:     "https://www.linkedin.com/jobs/123",
		Content: "found this on indeed originally",
	})
	require.NoError(t, err)

	assert.Equal(t, model.PlatformLinkedIn, jobs.created[0].Platform)
	assert.Equal(t, model.PlatformLinkedIn, imports.created[0].Platform)
	require.NotNil(t, jobs.created[0].JobURL)
	assert.Equal(t, "https://www.linkedin.com/jobs/123", *jobs.created[0].JobURL)
}

func TestImportFetchedPage(t *testing.T) {
	imports := newFakeImportStore()
	jobs := newFakeJobStore()
	fetcher := &fakeFetcher{html: fmt.Sprintf(
		`<html><head><title>Gopher Wanted</title></head><body><p>%s</p></body></html>`,
		"Company: Acme\nA fully remote role doing Go things all day long.")}
	uc := newTestUsecase(imports, jobs, fetcher, &fakeLLM{})

	_, err := uc.Import(context.Background(), ImportInput{
		UserID: uuid.New(),
		URL:    "https://jobs.example.com/gopher",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, fetcher.calls)
	job := jobs.created[0]
	assert.Contains(t, job.JobTitle, "Gopher Wanted")
	assert.Contains(t, job.JobDescription, "Go things")
}

func TestImportEmbeddingBestEffort(t *testing.T) {
	imports := newFakeImportStore()
	jobs := newFakeJobStore()
	uc := NewImportUsecase(imports, jobs, &fakeCVStore{}, &fakeFetcher{}, &fakeLLM{},
		&fakeEmbedder{values: []float32{0.1, 0.2}})

	outcome, err := uc.Import(context.Background(), ImportInput{
		UserID:  uuid.New(),
		Content: "some posting text",
	})
	require.NoError(t, err)
	assert.Contains(t, jobs.embeddings, outcome.JobID)

	// Embedding failure never affects the response.
	jobs2 := newFakeJobStore()
	uc = NewImportUsecase(newFakeImportStore(), jobs2, &fakeCVStore{}, &fakeFetcher{}, &fakeLLM{},
		&fakeEmbedder{err: errors.New("quota")})
	_, err = uc.Import(context.Background(), ImportInput{UserID: uuid.New(), Content: "text"})
	require.NoError(t, err)
	assert.Empty(t, jobs2.embeddings)
}

func TestImportUsesStoredCVProfile(t *testing.T) {
	imports := newFakeImportStore()
	jobs := newFakeJobStore()
	llm := &fakeLLM{responses: []string{`{}`, `{"match_score":50}`}}
	cvs := &fakeCVStore{profile: &model.CVProfile{Summary: "Go developer", Skills: "Go, SQL"}}
	uc := NewImportUsecase(imports, jobs, cvs, &fakeFetcher{}, llm, nil)

	_, err := uc.Import(context.Background(), ImportInput{
		UserID:  uuid.New(),
		Content: "some posting",
		APIKey:  "sk",
	})
	require.NoError(t, err)

	// Both calls ran: the stored profile fed the matching prompt.
	require.Equal(t, 2, llm.calls)
	assert.Contains(t, llm.prompts[1], "Go developer")
	require.NotNil(t, jobs.created[0].MatchScore)
	assert.Equal(t, 50, *jobs.created[0].MatchScore)
}
