// Package ui renders the interrogation to the developer's terminal.
package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/lucasnoah/gitpolice/internal/interrogate"
)

// ErrInterrupted is returned when the developer aborts with Ctrl-C or Esc.
// It matches context.Canceled.
var ErrInterrupted = fmt.Errorf("interrupted: %w", context.Canceled)

// ErrNoAnswer is returned when input closes before an answer is read.
var ErrNoAnswer = errors.New("no answer given (input closed)")

// Console is the interaction shell. On a terminal it drives small
// bubbletea programs; otherwise it writes plain lines and reads the answer
// from a line scanner.
type Console struct {
	in          io.Reader
	out         io.Writer
	reader      *bufio.Reader
	styles      Styles
	interactive bool
	interrupt   func()
}

// New creates a Console on in and out. It is interactive only when both
// are terminals.
func New(in io.Reader, out io.Writer) *Console {
	c := NewPlain(in, out)
	c.interactive = isTerminal(in) && isTerminal(out)
	return c
}

// NewPlain creates a line-mode Console.
func NewPlain(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:     in,
		out:    out,
		reader: bufio.NewReader(in),
		styles: NewStyles(lipgloss.NewRenderer(out)),
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Interactive reports whether the console drives a live terminal view.
func (c *Console) Interactive() bool {
	return c.interactive
}

// OnInterrupt registers fn to run when the developer aborts a live view.
// It is usually the cancel func of the run context.
func (c *Console) OnInterrupt(fn func()) {
	c.interrupt = fn
}

func (c *Console) fireInterrupt() {
	if c.interrupt != nil {
		c.interrupt()
	}
}

// Info prints a dim status line.
func (c *Console) Info(msg string) {
	fmt.Fprintln(c.out, c.styles.Dim.Render(msg))
}

// Warn prints a highlighted warning line.
func (c *Console) Warn(msg string) {
	fmt.Fprintln(c.out, c.styles.Warn.Render(msg))
}

// Error prints an error line.
func (c *Console) Error(msg string) {
	fmt.Fprintln(c.out, c.styles.Error.Render(msg))
}

// Banner prints the boxed run header for mode.
func (c *Console) Banner(mode string) {
	line := "Git police: " + c.styles.Mode.Render(mode) + " mode analyzing..."
	fmt.Fprintln(c.out, c.styles.Banner.Render(line))
}

// StreamQuestion renders fragments in arrival order and returns their
// concatenation once the sequence ends.
func (c *Console) StreamQuestion(seq iter.Seq[string]) (string, error) {
	if !c.interactive {
		fmt.Fprintln(c.out, c.styles.Heading.Render("Question:"))
		var b strings.Builder
		for frag := range seq {
			b.WriteString(frag)
			io.WriteString(c.out, frag)
		}
		fmt.Fprintln(c.out)
		return b.String(), nil
	}

	p := c.program(newQuestionModel(c.styles))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for frag := range seq {
			p.Send(fragmentMsg(frag))
		}
		p.Send(streamDoneMsg{})
	}()

	final, err := p.Run()
	if err != nil {
		c.fireInterrupt()
		<-done
		return "", fmt.Errorf("question view: %w", err)
	}
	m := final.(questionModel)
	if m.interrupted {
		c.fireInterrupt()
		<-done
		return m.text, ErrInterrupted
	}
	<-done
	return m.text, nil
}

// PromptAnswer reads the developer's answer.
func (c *Console) PromptAnswer() (string, error) {
	if !c.interactive {
		fmt.Fprint(c.out, "\n"+c.styles.Heading.Render("Your answer:")+" ")
		line, err := c.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading answer: %w", err)
		}
		if errors.Is(err, io.EOF) && line == "" {
			return "", ErrNoAnswer
		}
		return strings.TrimSpace(line), nil
	}

	final, err := c.program(newAnswerModel(c.styles)).Run()
	if err != nil {
		return "", fmt.Errorf("answer prompt: %w", err)
	}
	m := final.(answerModel)
	if m.interrupted {
		c.fireInterrupt()
		return "", ErrInterrupted
	}
	return m.Value(), nil
}

// Judging shows label with a spinner while fn runs.
func (c *Console) Judging(label string, fn func()) error {
	if !c.interactive {
		c.Warn(label)
		fn()
		return nil
	}

	p := c.program(newJudgeModel(c.styles, label))
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
		p.Send(judgedMsg{})
	}()

	final, err := p.Run()
	if err != nil {
		<-done
		return fmt.Errorf("judge view: %w", err)
	}
	if final.(judgeModel).interrupted {
		c.fireInterrupt()
		<-done
		return ErrInterrupted
	}
	<-done
	return nil
}

// ShowVerdict prints the final verdict.
func (c *Console) ShowVerdict(v interrogate.Verdict) {
	fmt.Fprintln(c.out)
	if v.Passed() {
		fmt.Fprintln(c.out, c.styles.Pass.Render("VERDICT: PASS"))
		fmt.Fprintln(c.out, c.styles.Dim.Render("Commit allowed. Proceeding..."))
		return
	}
	fmt.Fprintln(c.out, c.styles.Fail.Render("VERDICT: FAIL"))
	if v.Outcome == interrogate.OutcomeError {
		fmt.Fprintln(c.out, c.styles.Dim.Render(v.Raw))
	}
	fmt.Fprintln(c.out, "Commit aborted")
}

func (c *Console) program(m tea.Model) *tea.Program {
	return tea.NewProgram(m, tea.WithInput(c.in), tea.WithOutput(c.out), tea.WithoutSignalHandler())
}
