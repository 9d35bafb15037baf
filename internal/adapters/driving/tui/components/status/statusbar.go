// Package status provides the status bar for the chat TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driving/tui/keymap"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driving/tui/styles"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

// State represents the current chat state for display.
type State string

const (
	StateReady    State = "ready"
	StateThinking State = "thinking"
	StateBuilding State = "building"
	StateError    State = "error"
)

// Bar displays chat state, index size and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	spinner string
	index   domain.IndexInfo
	build   domain.BuildStatus
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := max(1, s.width-lipgloss.Width(left)-lipgloss.Width(right))

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateThinking:
		return s.styles.Muted.Render(strings.TrimSpace(s.spinner + " Thinking..."))
	case StateBuilding:
		text := "Building index..."
		if s.build.BatchCount > 0 {
			text = fmt.Sprintf("Building index %d/%d", s.build.BatchesDone, s.build.BatchCount)
		}
		if s.build.Waiting {
			text += " (cooling down)"
		}
		return s.styles.Warning.Render(text)
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render("Error: " + s.message)
		}
		return s.styles.Error.Render("Error")
	case StateReady:
	}

	if s.message != "" {
		return s.styles.Normal.Render(s.message)
	}
	if s.index.State.Queryable() {
		return s.styles.Success.Render(fmt.Sprintf("%d reviews indexed", s.index.Documents))
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		hints = append(hints, hint(b))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

func hint(b key.Binding) string {
	h := b.Help()
	return fmt.Sprintf("%s: %s", h.Key, h.Desc)
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetSpinner sets the spinner frame shown while thinking.
func (s *Bar) SetSpinner(frame string) {
	s.spinner = frame
}

// SetIndex records the index snapshot. A running build switches the bar to
// StateBuilding, and a finished one returns it to StateReady.
func (s *Bar) SetIndex(info domain.IndexInfo, build domain.BuildStatus) {
	s.index = info
	s.build = build
	switch {
	case build.Running:
		s.state = StateBuilding
	case s.state == StateBuilding:
		s.state = StateReady
	}
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to the ready state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
