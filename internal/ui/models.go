package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// fragmentMsg carries one streamed piece of the question.
type fragmentMsg string

// streamDoneMsg signals the question stream has ended.
type streamDoneMsg struct{}

// judgedMsg signals the judge call has returned.
type judgedMsg struct{}

// questionModel renders the question live as fragments arrive.
type questionModel struct {
	styles      Styles
	spinner     spinner.Model
	text        string
	width       int
	done        bool
	interrupted bool
}

func newQuestionModel(s Styles) questionModel {
	return questionModel{styles: s, spinner: s.newSpinner()}
}

func (m questionModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m questionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fragmentMsg:
		m.text += string(msg)
		return m, nil
	case streamDoneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.interrupted = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m questionModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Heading.Render("Question:"))
	b.WriteString("\n")

	style := m.styles.Question
	if m.width > 4 {
		style = style.Width(m.width - 2)
	}
	if m.text != "" {
		b.WriteString(style.Render(strings.TrimSpace(m.text)))
	}
	if !m.done && !m.interrupted {
		if m.text != "" {
			b.WriteString(" ")
		}
		b.WriteString(m.spinner.View())
	}
	b.WriteString("\n")
	return b.String()
}

// answerModel collects the developer's one-line answer.
type answerModel struct {
	styles      Styles
	input       textinput.Model
	submitted   bool
	interrupted bool
}

func newAnswerModel(s Styles) answerModel {
	ti := textinput.New()
	ti.Placeholder = "Explain why you made this change..."
	ti.Prompt = "> "
	ti.CharLimit = 2000
	ti.Width = 80
	ti.Focus()
	return answerModel{styles: s, input: ti}
}

func (m answerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m answerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			m.submitted = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.interrupted = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if w := msg.Width - 4; w > 10 && w < 120 {
			m.input.Width = w
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m answerModel) Value() string {
	return strings.TrimSpace(m.input.Value())
}

func (m answerModel) View() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(m.styles.Heading.Render("Your answer:"))
	b.WriteString("\n")
	if m.submitted || m.interrupted {
		b.WriteString(m.Value())
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("enter: submit  esc: abort commit"))
	b.WriteString("\n")
	return b.String()
}

// judgeModel shows a spinner while the judge call runs.
type judgeModel struct {
	styles      Styles
	spinner     spinner.Model
	label       string
	done        bool
	interrupted bool
}

func newJudgeModel(s Styles, label string) judgeModel {
	return judgeModel{styles: s, spinner: s.newSpinner(), label: label}
}

func (m judgeModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m judgeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case judgedMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.interrupted = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m judgeModel) View() string {
	if m.done || m.interrupted {
		return ""
	}
	return m.spinner.View() + " " + m.styles.Warn.Render(m.label) + "\n"
}
