// Package patrol runs one interrogation of the staged changes: collect,
// filter, assemble, ask, prompt, judge.
package patrol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"

	"github.com/lucasnoah/gitpolice/internal/diff"
	"github.com/lucasnoah/gitpolice/internal/git"
	"github.com/lucasnoah/gitpolice/internal/interrogate"
)

// Collector lists staged paths and provides their diffs.
type Collector interface {
	ListStaged(ctx context.Context) git.StagedResult
	diff.Source
}

// Filter drops paths that are not worth asking about.
type Filter interface {
	Filter(paths []string) []string
}

// Questioner asks the question and judges the answer.
type Questioner interface {
	Mode() interrogate.Mode
	Ask(ctx context.Context, blob diff.Blob) iter.Seq[string]
	Judge(ctx context.Context, blob diff.Blob, question, answer string) interrogate.Verdict
}

// Shell is the developer-facing side of a run.
type Shell interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Banner(mode string)
	StreamQuestion(seq iter.Seq[string]) (string, error)
	PromptAnswer() (string, error)
	Judging(label string, fn func()) error
	ShowVerdict(v interrogate.Verdict)
}

// Status is the terminal state of a run.
type Status int

const (
	// Skipped means nothing needed reviewing; the commit proceeds.
	Skipped Status = iota
	Passed
	Failed
	// Errored means the run could not reach a verdict; the commit is blocked.
	Errored
)

func (s Status) String() string {
	switch s {
	case Skipped:
		return "skipped"
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Errored:
		return "errored"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Outcome is the result of one run.
type Outcome struct {
	Status   Status
	Reason   string
	Blob     diff.Blob
	Question string
	Verdict  interrogate.Verdict
}

// ExitCode is the hook's exit status: 0 lets the commit through.
func (o Outcome) ExitCode() int {
	switch o.Status {
	case Skipped, Passed:
		return 0
	}
	return 1
}

// Options wires the run's collaborators.
type Options struct {
	Collector  Collector
	Filter     Filter
	Questioner Questioner
	Shell      Shell
	// Budget is the diff character budget for the questioner's mode.
	Budget int
	Logger *log.Logger
}

// Shell messages.
const (
	msgNotInRepo   = "Not inside a git repository. Skipping interrogation."
	msgNoStaged    = "No staged changes found. Use git add first."
	msgOnlyDocs    = "Only docs/config changed. Skipping interrogation."
	msgHardware    = "(Speed depends on your hardware)"
	msgTruncated   = "Changes exceed the character budget, so the question is based on a truncated diff."
	msgJudging     = "Judging your answer..."
	msgInterrupted = "Interrupted. Commit aborted."
)

// Run performs one linear pass: COLLECT, FILTER, ASSEMBLE, ASK, PROMPT,
// JUDGE. It returns early with Skipped when there is nothing relevant to
// review and with Errored when no question could be produced.
func Run(ctx context.Context, opts Options) Outcome {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	sh := opts.Shell

	staged := opts.Collector.ListStaged(ctx)
	logger.Printf("staged: status=%s paths=%d", staged.Status, len(staged.Paths))
	switch staged.Status {
	case git.StatusNotInRepo:
		sh.Info(msgNotInRepo)
		return Outcome{Status: Skipped, Reason: msgNotInRepo}
	case git.StatusToolFailed:
		logger.Printf("listing staged files failed: %v", staged.Err)
		sh.Warn(fmt.Sprintf("Could not list staged files (%v). Skipping interrogation.", staged.Err))
		return Outcome{Status: Skipped, Reason: "git failed"}
	}
	if len(staged.Paths) == 0 {
		sh.Info(msgNoStaged)
		return Outcome{Status: Skipped, Reason: msgNoStaged}
	}

	relevant := opts.Filter.Filter(staged.Paths)
	logger.Printf("relevant: %d of %d staged paths", len(relevant), len(staged.Paths))
	if len(relevant) == 0 {
		sh.Info(msgOnlyDocs)
		return Outcome{Status: Skipped, Reason: msgOnlyDocs}
	}

	mode := opts.Questioner.Mode()
	if mode == interrogate.ModeLocal {
		sh.Info(msgHardware)
	}

	blob := diff.Assemble(ctx, opts.Collector, relevant, opts.Budget)
	logger.Printf("assembled %d chars from %d files (budget %d, truncated=%v)", len(blob.Text), len(blob.Files), opts.Budget, blob.Truncated)
	if blob.OrderErr != nil {
		logger.Printf("ordering by size failed: %v", blob.OrderErr)
		sh.Warn("Could not rank files by lines changed; using staged order.")
	}
	if blob.Truncated {
		sh.Warn(msgTruncated)
	}
	if blob.Empty() {
		sh.Info(msgNoStaged)
		return Outcome{Status: Skipped, Reason: msgNoStaged, Blob: blob}
	}

	sh.Banner(string(mode))

	var q interrogate.Question
	if _, err := sh.StreamQuestion(collect(opts.Questioner.Ask(ctx, blob), &q)); err != nil {
		return aborted(sh, logger, blob, q.Text, err)
	}
	if q.IsError() {
		msg := q.Text
		if msg == "" {
			msg = interrogate.ErrorPrefix + " the model returned an empty question"
		}
		sh.Error(msg)
		return Outcome{Status: Errored, Reason: msg, Blob: blob, Question: q.Text}
	}

	answer, err := sh.PromptAnswer()
	if err != nil {
		return aborted(sh, logger, blob, q.Text, err)
	}
	logger.Printf("answer: %d chars", len(answer))

	var verdict interrogate.Verdict
	if err := sh.Judging(msgJudging, func() {
		verdict = opts.Questioner.Judge(ctx, blob, q.Text, answer)
	}); err != nil {
		return aborted(sh, logger, blob, q.Text, err)
	}
	logger.Printf("verdict: %s (%q)", verdict.Outcome, verdict.Raw)
	sh.ShowVerdict(verdict)

	out := Outcome{Blob: blob, Question: q.Text, Verdict: verdict, Reason: string(verdict.Outcome)}
	switch verdict.Outcome {
	case interrogate.OutcomePass:
		out.Status = Passed
	case interrogate.OutcomeError:
		out.Status = Errored
	default:
		out.Status = Failed
	}
	return out
}

// collect mirrors every fragment of seq into q.
func collect(seq iter.Seq[string], q *interrogate.Question) iter.Seq[string] {
	return func(yield func(string) bool) {
		for frag := range seq {
			q.Add(frag)
			if !yield(frag) {
				return
			}
		}
	}
}

func aborted(sh Shell, logger *log.Logger, blob diff.Blob, question string, err error) Outcome {
	logger.Printf("run aborted: %v", err)
	msg := err.Error()
	if errors.Is(err, context.Canceled) {
		msg = msgInterrupted
	}
	sh.Error(msg)
	return Outcome{Status: Errored, Reason: msg, Blob: blob, Question: question}
}
