package interrogate

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrorPrefix marks a question fragment or judge response that reports a
// failure instead of model output.
const ErrorPrefix = "Error:"

// Judge sentinels. They deliberately contain no detail so that no error
// text can ever contain the word PASS.
const (
	LocalJudgeFailed  = "ERROR: LOCAL JUDGE FAILED"
	GlobalJudgeFailed = "Error: GLOBAL JUDGE FAILED"
	ModeFailed        = "ERROR: MODE FAILED"
)

// Outcome is the normalized verdict.
type Outcome string

const (
	OutcomePass  Outcome = "PASS"
	OutcomeFail  Outcome = "FAIL"
	OutcomeError Outcome = "ERROR"
)

// Verdict is the judge's raw response and its normalized outcome.
type Verdict struct {
	Raw     string
	Outcome Outcome
}

// Passed reports whether the commit may proceed.
func (v Verdict) Passed() bool {
	return v.Outcome == OutcomePass
}

// ParseVerdict normalizes a judge response. Only text containing PASS
// (any case) passes; sentinels map to OutcomeError and anything else,
// including empty or malformed output, fails.
func ParseVerdict(raw string) Verdict {
	norm := cases.Upper(language.Und).String(strings.TrimSpace(raw))
	switch {
	case strings.Contains(norm, "PASS"):
		return Verdict{Raw: raw, Outcome: OutcomePass}
	case strings.HasPrefix(norm, strings.ToUpper(ErrorPrefix)):
		return Verdict{Raw: raw, Outcome: OutcomeError}
	default:
		return Verdict{Raw: raw, Outcome: OutcomeFail}
	}
}

// Question accumulates streamed question fragments.
type Question struct {
	Text   string
	Failed bool
}

// Add appends a fragment. A fragment carrying ErrorPrefix replaces whatever
// arrived before it and marks the question failed.
func (q *Question) Add(fragment string) {
	if q.Failed {
		return
	}
	if strings.HasPrefix(fragment, ErrorPrefix) {
		q.Text = fragment
		q.Failed = true
		return
	}
	q.Text += fragment
}

// IsError reports whether the question cannot be put to the developer.
func (q Question) IsError() bool {
	return q.Failed || strings.TrimSpace(q.Text) == "" || strings.HasPrefix(q.Text, ErrorPrefix)
}
