// Package interrogate asks the developer's model one question about a diff
// and judges the developer's answer to it.
package interrogate

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log"
	"strings"

	"github.com/lucasnoah/gitpolice/internal/diff"
	"github.com/lucasnoah/gitpolice/internal/llm"
	"github.com/lucasnoah/gitpolice/internal/prompt"
)

// Mode selects the model backend.
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeGlobal Mode = "global"
)

// ValidModes lists all valid modes.
var ValidModes = []Mode{ModeLocal, ModeGlobal}

// IsValidMode checks whether a string is a valid mode.
func IsValidMode(s string) bool {
	for _, m := range ValidModes {
		if string(m) == s {
			return true
		}
	}
	return false
}

// Generation settings for the local question call.
const (
	questionTemperature = 0.2
	questionMaxTokens   = 120
)

// Scrubber redacts personal data before text leaves the machine.
type Scrubber interface {
	Scrub(text string) string
}

// Options configures an Interrogator.
type Options struct {
	Mode Mode
	// LocalModel and RemoteModel are the model ids for each backend.
	LocalModel  string
	RemoteModel string
	Local       llm.Client
	// Remote is nil when no credential is configured.
	Remote       llm.Client
	RemoteErr    error
	Scrubber     Scrubber
	TemplatesDir string
	Logger       *log.Logger
}

// Interrogator drives the question and judge calls against one backend.
type Interrogator struct {
	opts Options
	log  *log.Logger
}

// New creates an Interrogator.
func New(opts Options) *Interrogator {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Interrogator{opts: opts, log: logger}
}

// Mode returns the configured backend mode.
func (i *Interrogator) Mode() Mode {
	return i.opts.Mode
}

func errorf(format string, args ...any) string {
	return ErrorPrefix + " " + fmt.Sprintf(format, args...)
}

func truncatedVar(blob diff.Blob) string {
	if blob.Truncated {
		return "true"
	}
	return ""
}

// Ask streams one question about blob. The sequence is finite and not
// restartable. Failures are reported as a single fragment starting with
// ErrorPrefix, after which the sequence ends; nothing is retried.
func (i *Interrogator) Ask(ctx context.Context, blob diff.Blob) iter.Seq[string] {
	return func(yield func(string) bool) {
		req, client, errFrag := i.questionRequest(blob)
		if errFrag != "" {
			yield(errFrag)
			return
		}

		i.log.Printf("asking %s model %s (%d chars, truncated=%v)", i.opts.Mode, req.Model, len(blob.Text), blob.Truncated)
		for frag, err := range client.Stream(ctx, req) {
			if err != nil {
				i.log.Printf("question stream failed: %v", err)
				yield(i.streamError(err))
				return
			}
			if !yield(frag) {
				return
			}
		}
	}
}

func (i *Interrogator) streamError(err error) string {
	if i.opts.Mode == ModeGlobal {
		return errorf("connecting to Gemini: %v", err)
	}
	return errorf("connecting to the local model: %v", err)
}

// questionRequest builds the question request for the configured mode. A
// non-empty errFrag means no backend call may be made.
func (i *Interrogator) questionRequest(blob diff.Blob) (req llm.Request, client llm.Client, errFrag string) {
	vars := prompt.Vars{"truncated": truncatedVar(blob)}

	switch i.opts.Mode {
	case ModeLocal:
		if i.opts.Local == nil {
			return req, nil, errorf("local backend is not configured")
		}
		tmpl, err := prompt.Load(prompt.QuestionLocal, i.opts.TemplatesDir)
		if err != nil {
			return req, nil, errorf("%v", err)
		}
		system, err := prompt.Render(tmpl, vars)
		if err != nil {
			return req, nil, errorf("%v", err)
		}
		return llm.Request{
			Model:       i.opts.LocalModel,
			System:      strings.TrimSpace(system),
			Prompt:      blob.Text,
			Temperature: llm.Float(questionTemperature),
			MaxTokens:   questionMaxTokens,
		}, i.opts.Local, ""

	case ModeGlobal:
		if i.opts.Remote == nil {
			if i.opts.RemoteErr != nil {
				return req, nil, errorf("%v", i.opts.RemoteErr)
			}
			return req, nil, errorf("%v", llm.ErrNoAPIKey)
		}
		tmpl, err := prompt.Load(prompt.QuestionGlobal, i.opts.TemplatesDir)
		if err != nil {
			return req, nil, errorf("%v", err)
		}
		vars["diff"] = i.scrub(blob.Text)
		content, err := prompt.Render(tmpl, vars)
		if err != nil {
			return req, nil, errorf("%v", err)
		}
		return llm.Request{
			Model:       i.opts.RemoteModel,
			Prompt:      content,
			Temperature: llm.Float(questionTemperature),
		}, i.opts.Remote, ""
	}

	return req, nil, errorf("invalid mode %q (expected local or global)", i.opts.Mode)
}

func (i *Interrogator) scrub(text string) string {
	if i.opts.Scrubber == nil {
		return text
	}
	return i.opts.Scrubber.Scrub(text)
}

// Judge asks the backend whether answer shows understanding of blob.
// Backend failures come back as sentinel verdicts, never as errors.
func (i *Interrogator) Judge(ctx context.Context, blob diff.Blob, question, answer string) Verdict {
	var (
		client   llm.Client
		model    string
		sentinel string
		text     = blob.Text
	)
	switch i.opts.Mode {
	case ModeLocal:
		client, model, sentinel = i.opts.Local, i.opts.LocalModel, LocalJudgeFailed
	case ModeGlobal:
		client, model, sentinel = i.opts.Remote, i.opts.RemoteModel, GlobalJudgeFailed
		text = i.scrub(text)
	default:
		return ParseVerdict(ModeFailed)
	}
	if client == nil {
		return ParseVerdict(sentinel)
	}

	tmpl, err := prompt.Load(prompt.Judge, i.opts.TemplatesDir)
	if err != nil {
		i.log.Printf("load judge template: %v", err)
		return ParseVerdict(sentinel)
	}
	content, err := prompt.Render(tmpl, prompt.Vars{
		"diff":     text,
		"question": question,
		"answer":   answer,
	})
	if err != nil {
		i.log.Printf("render judge template: %v", err)
		return ParseVerdict(sentinel)
	}

	raw, err := client.Complete(ctx, llm.Request{Model: model, Prompt: content})
	if err != nil {
		i.log.Printf("judge call failed: %v", err)
		return ParseVerdict(sentinel)
	}
	i.log.Printf("judge responded %q", raw)
	return ParseVerdict(raw)
}
