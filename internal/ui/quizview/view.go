package quizview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	quizdto "recap/internal/modules/quiz/dto"
	"recap/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the minimal interface this view needs from the quiz use-case.
type Port interface {
	Submit(ctx context.Context, input quizdto.SubmitInput) (quizdto.SubmitOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// SubmittedMsg is sent when the graded quiz has been recorded (or failed to).
type SubmittedMsg struct {
	Result quizdto.SubmitOutput
	Err    error
}

// ─── model ───────────────────────────────────────────────────────────────────

type phase int

const (
	phasePrompt phase = iota
	phaseSkipReason
	phaseSkipNote
	phaseReveal
	phaseReflect
	phaseSubmitting
	phaseDone
)

var skipReasons = []struct {
	key    string
	reason string
	label  string
}{
	{"1", "time_pressure", "No time right now"},
	{"2", "already_know", "I already know this cold"},
	{"3", "unclear", "The question is unclear"},
	{"4", "other", "Other"},
}

// Model walks through one quiz question by question: think, reveal,
// self-grade, with an explicit reason required for every skip.
type Model struct {
	port    Port
	quiz    quizdto.QuizView
	input   textinput.Model
	answers []quizdto.Answer
	current int
	phase   phase
	grade   string
	result  quizdto.SubmitOutput
	err     error
	width   int
}

func New(port Port, quiz quizdto.QuizView) Model {
	input := textinput.New()
	input.CharLimit = 280
	input.Width = 60
	return Model{port: port, quiz: quiz, input: input}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case SubmittedMsg:
		m.phase = phaseDone
		m.result = msg.Result
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.phase {
	case phasePrompt:
		switch msg.String() {
		case "enter":
			m.phase = phaseReveal
		case "s":
			m.phase = phaseSkipReason
		case "q":
			return m, tea.Quit
		}

	case phaseSkipReason:
		if msg.String() == "esc" {
			m.phase = phasePrompt
			return m, nil
		}
		for _, candidate := range skipReasons {
			if msg.String() == candidate.key {
				m.answers = append(m.answers, quizdto.Answer{
					QuestionID: m.question().ID,
					Skipped:    true,
					SkipReason: candidate.reason,
				})
				if candidate.reason == "other" {
					m.phase = phaseSkipNote
					m.input.Placeholder = "why? (enter to confirm)"
					m.input.SetValue("")
					return m, m.input.Focus()
				}
				return m.advance()
			}
		}

	case phaseSkipNote:
		if msg.String() == "enter" {
			m.answers[len(m.answers)-1].SkipNote = strings.TrimSpace(m.input.Value())
			m.input.Blur()
			return m.advance()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case phaseReveal:
		switch msg.String() {
		case "c", "p", "w":
			m.grade = map[string]string{"c": "correct", "p": "partial", "w": "wrong"}[msg.String()]
			m.phase = phaseReflect
			m.input.Placeholder = "reflection, optional (enter to continue)"
			m.input.SetValue("")
			return m, m.input.Focus()
		}

	case phaseReflect:
		if msg.String() == "enter" {
			m.answers = append(m.answers, quizdto.Answer{
				QuestionID: m.question().ID,
				Grade:      m.grade,
				Reflection: strings.TrimSpace(m.input.Value()),
			})
			m.input.Blur()
			return m.advance()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case phaseDone:
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) advance() (tea.Model, tea.Cmd) {
	if m.current+1 < len(m.quiz.Questions) {
		m.current++
		m.phase = phasePrompt
		return m, nil
	}
	m.phase = phaseSubmitting
	return m, m.submitCmd()
}

func (m Model) View() string {
	switch m.phase {
	case phaseSubmitting:
		return theme.App.Render(theme.Muted.Render("Recording results…"))
	case phaseDone:
		return theme.App.Render(m.renderDone())
	default:
		return theme.App.Render(m.renderQuestion())
	}
}

// Answers exposes the collected answers, mainly for tests.
func (m Model) Answers() []quizdto.Answer {
	return append([]quizdto.Answer{}, m.answers...)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) question() quizdto.Question {
	return m.quiz.Questions[m.current]
}

func (m Model) renderQuestion() string {
	q := m.question()
	header := theme.Title.Render(fmt.Sprintf("Quiz %s", m.quiz.Tier)) +
		theme.Muted.Render(fmt.Sprintf("  question %d/%d  [%s]", m.current+1, len(m.quiz.Questions), q.Kind))
	card := theme.Card.Render(q.Prompt)

	var footer string
	switch m.phase {
	case phasePrompt:
		footer = theme.Muted.Render("think it through, then: enter reveal  s skip  q quit")
	case phaseSkipReason:
		var lines []string
		for _, candidate := range skipReasons {
			lines = append(lines, fmt.Sprintf("  %s  %s", theme.Hot.Render(candidate.key), candidate.label))
		}
		footer = "Why skip?\n" + strings.Join(lines, "\n") + "\n" + theme.Muted.Render("esc to go back")
	case phaseSkipNote:
		footer = m.input.View()
	case phaseReveal:
		context := q.Context
		if context == "" {
			context = "(no recorded context)"
		}
		reveal := theme.Card.Render(theme.Muted.Render("From your session notes:\n") + context)
		footer = reveal + "\n" +
			theme.Good.Render("c correct") + "  " +
			theme.Partial.Render("p partial") + "  " +
			theme.Bad.Render("w wrong")
	case phaseReflect:
		footer = m.input.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", card, "", footer)
}

func (m Model) renderDone() string {
	if m.err != nil {
		return theme.Bad.Render("Failed to record results: "+m.err.Error()) + "\n" +
			theme.Muted.Render("press any key to exit")
	}
	summary := fmt.Sprintf("%s  %s  %s  %s",
		theme.Good.Render(fmt.Sprintf("correct %d", m.result.Correct)),
		theme.Partial.Render(fmt.Sprintf("partial %d", m.result.Partial)),
		theme.Bad.Render(fmt.Sprintf("wrong %d", m.result.Wrong)),
		theme.Muted.Render(fmt.Sprintf("skipped %d", m.result.Skipped)))
	note := ""
	if m.result.AlreadyCompleted {
		note = "\n" + theme.Muted.Render("this quiz was already recorded, nothing double-counted")
	}
	return theme.Title.Render("Quiz complete") + "\n\n" + summary + note + "\n\n" +
		theme.Muted.Render("press any key to exit")
}

func (m Model) submitCmd() tea.Cmd {
	answers := append([]quizdto.Answer{}, m.answers...)
	return func() tea.Msg {
		result, err := m.port.Submit(context.Background(), quizdto.SubmitInput{
			InstanceID: m.quiz.InstanceID,
			Answers:    answers,
		})
		return SubmittedMsg{Result: result, Err: err}
	}
}
