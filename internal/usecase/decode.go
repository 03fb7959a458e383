package usecase

import (
	"math"
	"strconv"

	"github.com/myhireapp/myhire-api/internal/extractor"
	"github.com/myhireapp/myhire-api/internal/model"
	"github.com/tidwall/gjson"
)

// Model output is untrusted text. These decoders never fail: any shape
// mismatch yields zero values and the heuristic baseline stays in force.

const (
	maxBriefDescChars    = 300
	maxMatchSummaryChars = 280
	maxListItems         = 4
)

type StructuredPosting struct {
	Title            string
	Company          string
	Location         string
	WorkMode         string
	Platform         string
	BriefDescription string
	Keywords         []string
}

type MatchResult struct {
	Score     *int
	Summary   string
	Strengths []string
	Gaps      []string
}

// DecodeStructuredPosting reads the structuring call's response. Enum fields
// not in the allowed set (including the model's "unknown") are dropped so the
// heuristic value wins the merge.
func DecodeStructuredPosting(raw string) (StructuredPosting, bool) {
	if !gjson.Valid(raw) {
		return StructuredPosting{}, false
	}

	var p StructuredPosting
	p.Title = gjson.Get(raw, "title").String()
	p.Company = gjson.Get(raw, "company").String()
	p.Location = gjson.Get(raw, "location").String()

	if wm := gjson.Get(raw, "work_mode").String(); model.ValidWorkMode(wm) {
		p.WorkMode = wm
	}
	if pf := gjson.Get(raw, "platform").String(); model.ValidPlatform(pf) {
		p.Platform = pf
	}

	p.BriefDescription = extractor.Truncate(gjson.Get(raw, "brief_description").String(), maxBriefDescChars)
	p.Keywords = stringList(gjson.Get(raw, "keywords"), 0)
	return p, true
}

// DecodeMatchResult reads the matching call's response.
func DecodeMatchResult(raw string) (MatchResult, bool) {
	if !gjson.Valid(raw) {
		return MatchResult{}, false
	}

	var m MatchResult
	m.Score = SanitizeScore(gjson.Get(raw, "match_score"))
	m.Summary = extractor.Truncate(gjson.Get(raw, "match_summary").String(), maxMatchSummaryChars)
	m.Strengths = stringList(gjson.Get(raw, "strengths"), maxListItems)
	m.Gaps = stringList(gjson.Get(raw, "gaps"), maxListItems)
	return m, true
}

// SanitizeScore parses a match score as a number: non-finite values become
// nil, everything else is clamped to [0,100] and rounded to an integer. The
// persisted column and the JSON payload copy both carry this value.
func SanitizeScore(r gjson.Result) *int {
	var f float64
	switch r.Type {
	case gjson.Number:
		f = r.Float()
	case gjson.String:
		parsed, err := strconv.ParseFloat(r.Str, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	if f < 0 {
		f = 0
	}
	if f > 100 {
		f = 100
	}
	score := int(math.Round(f))
	return &score
}

func stringList(r gjson.Result, limit int) []string {
	if !r.IsArray() {
		return nil
	}
	var out []string
	for _, item := range r.Array() {
		if limit > 0 && len(out) >= limit {
			break
		}
		if s := item.String(); s != "" {
			out = append(out, s)
		}
	}
	return out
}
