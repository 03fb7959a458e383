package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/myhireapp/myhire-api/internal/extractor"
	"github.com/myhireapp/myhire-api/internal/model"
	"github.com/myhireapp/myhire-api/internal/service"
	"github.com/pgvector/pgvector-go"
)

// ErrMissingInput is returned before any side effect when neither a URL nor
// pasted content survives trimming.
var ErrMissingInput = errors.New("Provide a URL or page content")

// FailureMessage deliberately avoids leaking fetch/parse internals.
const FailureMessage = "Import failed. Some websites block automated extraction. Please copy details manually in the Add Job form."

const (
	aiDisabledInsights = "(AI disabled: no key)"
	maxPromptChars     = 8000
)

// ImportError carries the user-facing message for a failed import.
type ImportError struct {
	Message string
	Err     error
}

func (e *ImportError) Error() string { return e.Message }
func (e *ImportError) Unwrap() error { return e.Err }

type ImportStore interface {
	Create(imp *model.JobImport) error
	MarkFailed(id uuid.UUID, errorMessage string) error
	MarkDone(id, jobID uuid.UUID, extractedPayload string) error
}

type JobStore interface {
	Create(job *model.JobApplication) error
	UpdateEmbedding(id uuid.UUID, embedding pgvector.Vector) error
}

type CVStore interface {
	FindLatest(userID uuid.UUID) (*model.CVProfile, error)
}

type ImportUsecase struct {
	imports  ImportStore
	jobs     JobStore
	cvs      CVStore
	fetcher  service.FetchServiceInterface
	llm      service.OpenAIServiceInterface
	embedder service.GeminiServiceInterface // optional, nil when unconfigured
}

func NewImportUsecase(imports ImportStore, jobs JobStore, cvs CVStore, fetcher service.FetchServiceInterface, llm service.OpenAIServiceInterface, embedder service.GeminiServiceInterface) *ImportUsecase {
	return &ImportUsecase{
		imports:  imports,
		jobs:     jobs,
		cvs:      cvs,
		fetcher:  fetcher,
		llm:      llm,
		embedder: embedder,
	}
}

// ImportInput is one resolved import request. APIKey is the chat-completions
// credential already resolved for this request (user key over system
// fallback); empty means the AI stage is skipped entirely.
type ImportInput struct {
	UserID        uuid.UUID
	URL           string
	Content       string
	CVText        string
	CVFilePath    string
	CVVersionName string
	APIKey        string
}

type ImportOutcome struct {
	JobID   uuid.UUID
	Warning string
}

// Import runs the four-stage pipeline: resolve input, extract heuristics,
// optionally enrich with the LLM, persist. The audit row is written first so
// every attempt is tracked; it moves exactly once to done or failed.
func (uc *ImportUsecase) Import(ctx context.Context, in ImportInput) (*ImportOutcome, error) {
	url := strings.TrimSpace(in.URL)
	content := strings.TrimSpace(in.Content)
	if url == "" && content == "" {
		return nil, ErrMissingInput
	}

	// Platform is inferred from the URL whenever one is present; only
	// pasted-only imports fall back to the content text.
	platformSource := url
	if platformSource == "" {
		platformSource = content
	}

	importID := uuid.New()
	imp := &model.JobImport{
		ID:       importID,
		UserID:   in.UserID,
		Status:   model.ImportStatusProcessing,
		Platform: extractor.InferPlatform(platformSource),
	}
	if url != "" {
		imp.SourceURL = &url
	}
	if err := uc.imports.Create(imp); err != nil {
		// Nothing to reconcile yet: this is the one failure with no audit row.
		return nil, &ImportError{Message: "Failed to create import row: " + err.Error(), Err: err}
	}

	job, payload, err := uc.runPipeline(ctx, in, url, content, platformSource)
	if err != nil {
		uc.markFailed(importID, err)
		return nil, &ImportError{Message: FailureMessage, Err: err}
	}

	if err := uc.jobs.Create(job); err != nil {
		uc.markFailed(importID, err)
		return nil, &ImportError{Message: "Failed to create job application: " + err.Error(), Err: err}
	}

	outcome := &ImportOutcome{JobID: job.ID}
	if err := uc.imports.MarkDone(importID, job.ID, payload); err != nil {
		// The job exists, so the import is still a success; a stale audit row
		// is acceptable, a missing job is not.
		outcome.Warning = "Import created but failed to update import row: " + err.Error()
	}

	uc.embedJob(ctx, job)
	return outcome, nil
}

// runPipeline covers resolver, heuristic extraction and AI enrichment. Any
// error returned here flips the audit row to failed.
func (uc *ImportUsecase) runPipeline(ctx context.Context, in ImportInput, url, content, platformSource string) (*model.JobApplication, string, error) {
	var page extractor.Page
	if content != "" {
		// Pasted content is authoritative; no fetch happens.
		page = extractor.Page{Text: content}
	} else {
		html, err := uc.fetcher.FetchHTML(ctx, url)
		if err != nil {
			return nil, "", err
		}
		page = extractor.ReadablePage(html, url)
	}

	fields := extractor.ExtractFields(page.Text, page.Title, page.SiteName, platformSource)
	insights := uc.enrich(ctx, in, fields)

	// Local midnight, not Truncate: that cuts on the UTC epoch and records
	// the wrong calendar date near midnight in other zones.
	now := time.Now()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	job := &model.JobApplication{
		UserID:           in.UserID,
		JobTitle:         insights.Title,
		CompanyName:      insights.Company,
		Status:           model.JobStatusApplied,
		JobDescription:   fields.Description,
		BriefDescription: insights.Brief,
		Platform:         insights.Platform,
		WorkMode:         insights.WorkMode,
		Location:         insights.Location,
		SalaryText:       fields.SalaryText,
		AIInsights:       &insights.Text,
		AIInsightsJSON:   insights.JSON,
		MatchScore:       insights.MatchScore,
		AppliedAt:        &today,
	}
	if url != "" {
		job.JobURL = &url
	}
	if in.CVFilePath != "" {
		cv := in.CVFilePath
		job.CVFilePath = &cv
	}

	payload, err := json.Marshal(map[string]any{
		"title":       insights.Title,
		"company":     insights.Company,
		"location":    insights.Location,
		"salary_text": fields.SalaryText,
	})
	if err != nil {
		return nil, "", fmt.Errorf("marshal extracted payload: %w", err)
	}
	return job, string(payload), nil
}

// enrichment is the merged view of heuristic fields and whatever the two
// model calls produced.
type enrichment struct {
	Title      string
	Company    string
	Location   *string
	WorkMode   *string
	Platform   string
	Brief      string
	Text       string
	JSON       *string
	MatchScore *int
}

// enrich runs the optional AI stage. Both calls degrade silently: a failed or
// unparseable response leaves the heuristic baseline in place and never fails
// the import.
func (uc *ImportUsecase) enrich(ctx context.Context, in ImportInput, fields extractor.Fields) enrichment {
	out := enrichment{
		Title:    fields.Title,
		Company:  fields.Company,
		Location: fields.Location,
		WorkMode: fields.WorkMode,
		Platform: fields.Platform,
		Brief:    fields.Brief,
		Text:     aiDisabledInsights,
	}

	if in.APIKey == "" || fields.Description == "" {
		return out
	}

	var structured *StructuredPosting
	raw, err := uc.llm.ChatJSON(ctx, in.APIKey,
		"You analyze job postings and output JSON.",
		structuringPrompt(fields.Description))
	if err != nil {
		log.Printf("structuring call failed, keeping heuristic fields: %v", err)
	} else if sp, ok := DecodeStructuredPosting(raw); ok {
		structured = &sp
	} else {
		log.Printf("structuring response was not valid JSON, keeping heuristic fields")
	}

	var match *MatchResult
	if cvText := uc.resolveCVText(in); cvText != "" {
		raw, err := uc.llm.ChatJSON(ctx, in.APIKey,
			"You score candidate fit against job postings and output JSON.",
			matchingPrompt(cvText, fields.Description))
		if err != nil {
			log.Printf("matching call failed, skipping match score: %v", err)
		} else if mr, ok := DecodeMatchResult(raw); ok {
			match = &mr
		} else {
			log.Printf("matching response was not valid JSON, skipping match score")
		}
	}

	if structured != nil {
		if structured.Title != "" {
			out.Title = structured.Title
		}
		if structured.Company != "" {
			out.Company = structured.Company
		}
		if structured.Location != "" {
			out.Location = &structured.Location
		}
		if structured.WorkMode != "" {
			out.WorkMode = &structured.WorkMode
		}
		if structured.Platform != "" {
			out.Platform = structured.Platform
		}
		if structured.BriefDescription != "" {
			out.Brief = structured.BriefDescription
		}
	}
	if match != nil {
		out.MatchScore = match.Score
	}

	out.Text = renderInsights(structured, match)
	out.JSON = marshalInsights(in, structured, match)
	return out
}

// resolveCVText prefers the caller-supplied blob and falls back to the user's
// latest stored profile. The version label rides along so the matching call
// can reference it.
func (uc *ImportUsecase) resolveCVText(in ImportInput) string {
	text := strings.TrimSpace(in.CVText)
	if text == "" && uc.cvs != nil {
		if profile, err := uc.cvs.FindLatest(in.UserID); err == nil {
			text = strings.TrimSpace(profile.Text())
		}
	}
	if text == "" {
		return ""
	}
	if in.CVVersionName != "" {
		text = "CV version: " + in.CVVersionName + "\n\n" + text
	}
	return text
}

func structuringPrompt(description string) string {
	return "Create a JSON object with keys: title, company, location, " +
		"work_mode (one of: remote, hybrid, on_site, unknown), " +
		"platform (one of: linkedin, indeed, wellfound, other), " +
		"brief_description (max 300 characters), keywords (array of strings). " +
		"Use null for anything missing; do not guess. Job posting:\n" +
		description
}

func matchingPrompt(cvText, description string) string {
	return "Score how well the candidate fits the job. Create a JSON object " +
		"with keys: match_score (number 0-100), match_summary (max 280 characters), " +
		"strengths (array, max 4 items), gaps (array, max 4 items).\n\nCandidate CV:\n" +
		extractor.Truncate(cvText, maxPromptChars) +
		"\n\nJob description:\n" +
		extractor.Truncate(description, maxPromptChars)
}

// renderInsights builds the human-readable bullet list stored in ai_insights.
func renderInsights(structured *StructuredPosting, match *MatchResult) string {
	var lines []string
	if match != nil {
		if match.Score != nil {
			lines = append(lines, fmt.Sprintf("• Match score: %d/100", *match.Score))
		}
		if match.Summary != "" {
			lines = append(lines, "• "+match.Summary)
		}
		for _, s := range match.Strengths {
			lines = append(lines, "• Strength: "+s)
		}
		for _, g := range match.Gaps {
			lines = append(lines, "• Gap: "+g)
		}
	}
	if structured != nil && len(structured.Keywords) > 0 {
		lines = append(lines, "• Keywords: "+strings.Join(structured.Keywords, ", "))
	}
	if len(lines) == 0 {
		return "(no AI insights)"
	}
	return strings.Join(lines, "\n")
}

// marshalInsights snapshots everything the AI stage produced, including the
// CV linkage. The match_score copy here always equals the top-level column.
func marshalInsights(in ImportInput, structured *StructuredPosting, match *MatchResult) *string {
	if structured == nil && match == nil {
		return nil
	}
	payload := map[string]any{}
	if structured != nil {
		payload["structured"] = map[string]any{
			"title":             structured.Title,
			"company":           structured.Company,
			"location":          structured.Location,
			"work_mode":         structured.WorkMode,
			"platform":          structured.Platform,
			"brief_description": structured.BriefDescription,
			"keywords":          structured.Keywords,
		}
	}
	if match != nil {
		payload["match_score"] = match.Score
		payload["match_summary"] = match.Summary
		payload["strengths"] = match.Strengths
		payload["gaps"] = match.Gaps
	}
	if in.CVVersionName != "" {
		payload["cv_version_name"] = in.CVVersionName
	}
	if in.CVFilePath != "" {
		payload["cv_file_path"] = in.CVFilePath
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	s := string(raw)
	return &s
}

func (uc *ImportUsecase) markFailed(importID uuid.UUID, cause error) {
	if err := uc.imports.MarkFailed(importID, cause.Error()); err != nil {
		log.Printf("failed to mark import %s as failed: %v", importID, err)
	}
}

// embedJob writes the related-jobs embedding. Purely best-effort: failures
// are logged and never affect the response.
func (uc *ImportUsecase) embedJob(ctx context.Context, job *model.JobApplication) {
	if uc.embedder == nil || job.JobDescription == "" {
		return
	}
	values, err := uc.embedder.GenerateEmbedding(ctx, job.JobDescription)
	if err != nil {
		log.Printf("embedding for job %s skipped: %v", job.ID, err)
		return
	}
	if err := uc.jobs.UpdateEmbedding(job.ID, pgvector.NewVector(values)); err != nil {
		log.Printf("embedding update for job %s failed: %v", job.ID, err)
	}
}
