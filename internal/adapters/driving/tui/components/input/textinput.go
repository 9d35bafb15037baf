// Package input provides the question input for the chat TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driving/tui/styles"
)

// maxQuestionLength bounds a single question.
const maxQuestionLength = 1000

// QuestionInput wraps a bubbles textinput and remembers submitted questions.
// Up and down arrows walk the history.
type QuestionInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int

	history []string
	// cursor indexes history while browsing; len(history) means a fresh line.
	cursor int
}

// NewQuestionInput creates a new question input component.
func NewQuestionInput(s *styles.Styles) *QuestionInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask about the hospital reviews..."
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = maxQuestionLength
	ti.Width = 60

	return &QuestionInput{
		textinput: ti,
		styles:    s,
		width:     60,
	}
}

// Init initialises the input.
func (q *QuestionInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (q *QuestionInput) Update(msg tea.Msg) (*QuestionInput, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // only history keys are intercepted
		switch key.Type {
		case tea.KeyUp:
			q.browse(-1)
			return q, nil
		case tea.KeyDown:
			q.browse(1)
			return q, nil
		}
	}

	var cmd tea.Cmd
	q.textinput, cmd = q.textinput.Update(msg)
	return q, cmd
}

func (q *QuestionInput) browse(step int) {
	if len(q.history) == 0 {
		return
	}
	q.cursor = max(0, min(len(q.history), q.cursor+step))
	if q.cursor == len(q.history) {
		q.textinput.SetValue("")
		return
	}
	q.textinput.SetValue(q.history[q.cursor])
	q.textinput.CursorEnd()
}

// Submit returns the trimmed question, records it in history and clears the input.
// Blank input returns "" and leaves history untouched.
func (q *QuestionInput) Submit() string {
	question := strings.TrimSpace(q.textinput.Value())
	q.textinput.Reset()
	if question == "" {
		q.cursor = len(q.history)
		return ""
	}
	if n := len(q.history); n == 0 || q.history[n-1] != question {
		q.history = append(q.history, question)
	}
	q.cursor = len(q.history)
	return question
}

// View renders the input.
func (q *QuestionInput) View() string {
	label := q.styles.User.Render("You ")
	field := q.styles.InputField.Render(q.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input value.
func (q *QuestionInput) Value() string {
	return q.textinput.Value()
}

// SetValue sets the input value.
func (q *QuestionInput) SetValue(value string) {
	q.textinput.SetValue(value)
}

// History returns the submitted questions, oldest first.
func (q *QuestionInput) History() []string {
	return q.history
}

// Focus sets focus on the input.
func (q *QuestionInput) Focus() tea.Cmd {
	return q.textinput.Focus()
}

// Blur removes focus from the input.
func (q *QuestionInput) Blur() {
	q.textinput.Blur()
}

// Focused returns whether the input is focused.
func (q *QuestionInput) Focused() bool {
	return q.textinput.Focused()
}

// SetWidth sets the width of the input.
func (q *QuestionInput) SetWidth(width int) {
	q.width = width
	// Account for label, border and padding
	q.textinput.Width = max(20, width-12)
}

// Width returns the current width.
func (q *QuestionInput) Width() int {
	return q.width
}
