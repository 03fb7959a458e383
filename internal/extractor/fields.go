package extractor

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/myhireapp/myhire-api/internal/model"
)

const (
	// MaxDescriptionChars caps the stored job description.
	MaxDescriptionChars = 12000
	// MaxBriefChars caps the derived brief/summary.
	MaxBriefChars = 400

	DefaultTitle   = "Untitled role"
	DefaultCompany = "Unknown"
)

// ExtractField pulls "Label: value" style fields out of plain text. Returns
// the trimmed first match or nil.
func ExtractField(text, label string) *string {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `\s*[:|-]\s*([^` + "\n" + `]+)`)
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return nil
	}
	v := strings.TrimSpace(m[1])
	if v == "" {
		return nil
	}
	return &v
}

// InferPlatform classifies a URL (or, for pasted-only imports, the content
// text) into a job-board platform. Total: unknown boards map to "other".
func InferPlatform(urlOrText string) string {
	lower := strings.ToLower(urlOrText)
	switch {
	case strings.Contains(lower, "linkedin"):
		return model.PlatformLinkedIn
	case strings.Contains(lower, "indeed"):
		return model.PlatformIndeed
	case strings.Contains(lower, "wellfound"), strings.Contains(lower, "angel.co"):
		return model.PlatformWellfound
	default:
		return model.PlatformOther
	}
}

// InferWorkMode classifies posting text. Hybrid is checked before remote so a
// posting mentioning both ("hybrid, 3 days remote") counts as hybrid. Unknown
// yields nil, not "other".
func InferWorkMode(text string) *string {
	lower := strings.ToLower(text)
	var mode string
	switch {
	case strings.Contains(lower, "hybrid"):
		mode = model.WorkModeHybrid
	case strings.Contains(lower, "remote"):
		mode = model.WorkModeRemote
	case strings.Contains(lower, "on-site"), strings.Contains(lower, "onsite"):
		mode = model.WorkModeOnSite
	default:
		return nil
	}
	return &mode
}

// Truncate returns at most n bytes of s, never splitting a rune. The result
// stays valid UTF-8 so it can land in a Postgres text column.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Fields is the heuristic baseline for one posting. Never fails: missing
// matches yield nils/defaults.
type Fields struct {
	Title       string
	Company     string
	Location    *string
	SalaryText  *string
	WorkMode    *string
	Platform    string
	Description string
	Brief       string
}

// ExtractFields derives the baseline fields from readable text plus whatever
// the HTML layer already found. platformSource is the URL when one was
// supplied, otherwise the raw content.
func ExtractFields(text, pageTitle, siteName, platformSource string) Fields {
	title := pageTitle
	if title == "" {
		if v := ExtractField(text, "Job Title"); v != nil {
			title = *v
		}
	}
	if title == "" {
		title = DefaultTitle
	}

	company := ""
	if v := ExtractField(text, "Company"); v != nil {
		company = *v
	} else if v := ExtractField(text, "Employer"); v != nil {
		company = *v
	} else if siteName != "" {
		company = siteName
	}
	if company == "" {
		company = DefaultCompany
	}

	description := Truncate(text, MaxDescriptionChars)

	return Fields{
		Title:       title,
		Company:     company,
		Location:    ExtractField(text, "Location"),
		SalaryText:  ExtractField(text, "Salary"),
		WorkMode:    InferWorkMode(text),
		Platform:    InferPlatform(platformSource),
		Description: description,
		Brief:       Truncate(description, MaxBriefChars),
	}
}
