// Package chat provides the question and answer view for the TUI.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driving/tui/components/input"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driving/tui/components/status"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driving/tui/keymap"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driving/tui/messages"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driving/tui/styles"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driving"
)

const (
	// sourceExcerptRunes bounds each review excerpt shown under an answer.
	sourceExcerptRunes = 160

	// indexPollInterval is how often the status bar refreshes index state.
	indexPollInterval = time.Second

	// chromeHeight is the rows taken by header, input and status bar.
	chromeHeight = 7
)

// Turn is one question and its reply in the transcript.
type Turn struct {
	Question string
	Answer   *domain.Answer
	Err      error
	Pending  bool
	Elapsed  time.Duration
}

// Services are the driving ports the view calls.
type Services struct {
	// Answer generates replies. When nil, the view shows the closest reviews instead.
	Answer driving.AnswerService

	// Retrieval is required.
	Retrieval driving.RetrievalService

	// Index feeds the status bar. Optional.
	Index driving.IndexService
}

// View is the chat transcript, question input and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	statusbar *status.Bar
	viewport  viewport.Model
	spinner   spinner.Model

	services Services
	ctx      context.Context

	turns       []Turn
	showSources bool
	busy        bool

	width  int
	height int
	ready  bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, services Services) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Assistant

	return &View{
		styles:    s,
		keymap:    km,
		input:     input.NewQuestionInput(s),
		statusbar: status.NewBar(s, km),
		viewport:  viewport.New(80, 24-chromeHeight),
		spinner:   sp,
		services:  services,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the cursor blink and the index poll.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.refreshIndex())
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.IndexStatusUpdated:
		v.statusbar.SetIndex(msg.Info, msg.Build)
		return v, v.pollIndex()

	case messages.ErrorOccurred:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil

	case spinner.TickMsg:
		if !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		v.statusbar.SetSpinner(v.spinner.View())
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, v.keymap.Quit):
		return v, quit
	case keymap.Matches(k, v.keymap.ToggleSources):
		v.showSources = !v.showSources
		v.refreshTranscript(false)
		return v, nil
	case keymap.Matches(k, v.keymap.Clear):
		v.turns = v.turns[:0]
		v.refreshTranscript(true)
		return v, nil
	case keymap.Matches(k, v.keymap.ScrollUp):
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(tea.KeyMsg{Type: tea.KeyPgUp})
		return v, cmd
	case keymap.Matches(k, v.keymap.ScrollDown):
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(tea.KeyMsg{Type: tea.KeyPgDown})
		return v, cmd
	case keymap.Matches(k, v.keymap.Ask):
		return v.submit()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func quit() tea.Msg {
	return messages.Quit{}
}

// submit sends the typed question. One question is in flight at a time.
func (v *View) submit() (*View, tea.Cmd) {
	if v.busy {
		return v, nil
	}

	question := v.input.Submit()
	if question == "" {
		return v, nil
	}
	if IsQuitCommand(question) {
		return v, quit
	}

	v.turns = append(v.turns, Turn{Question: question, Pending: true})
	v.busy = true
	v.statusbar.SetMessage("")
	v.statusbar.SetState(status.StateThinking)
	v.refreshTranscript(true)

	return v, tea.Batch(v.ask(question), v.spinner.Tick)
}

// ask calls the answer service, or retrieval alone when no chat model is configured.
func (v *View) ask(question string) tea.Cmd {
	ctx := v.ctx
	services := v.services

	return func() tea.Msg {
		start := time.Now()
		var (
			answer *domain.Answer
			err    error
		)

		switch {
		case services.Answer != nil:
			answer, err = services.Answer.Answer(ctx, question)
		case services.Retrieval != nil:
			var sources []domain.ScoredDocument
			sources, err = services.Retrieval.Query(ctx, question, services.Retrieval.DefaultK())
			if err == nil {
				answer = &domain.Answer{Question: question, Sources: sources}
			}
		default:
			err = ErrNoServices
		}

		return messages.AnswerReceived{
			Question: question,
			Answer:   answer,
			Err:      err,
			Elapsed:  time.Since(start),
		}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.busy = false

	for i := len(v.turns) - 1; i >= 0; i-- {
		if v.turns[i].Pending && v.turns[i].Question == msg.Question {
			v.turns[i] = Turn{
				Question: msg.Question,
				Answer:   msg.Answer,
				Err:      msg.Err,
				Elapsed:  msg.Elapsed,
			}
			break
		}
	}

	if msg.Err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
	} else {
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage(fmt.Sprintf("Answered in %.1fs", msg.Elapsed.Seconds()))
	}
	v.refreshTranscript(true)
}

// refreshIndex reads the index state now.
func (v *View) refreshIndex() tea.Cmd {
	if v.services.Index == nil {
		return nil
	}
	index := v.services.Index
	ctx := v.ctx
	return func() tea.Msg {
		return messages.IndexStatusUpdated{Info: index.Info(ctx), Build: index.Status()}
	}
}

// pollIndex reads the index state after indexPollInterval.
func (v *View) pollIndex() tea.Cmd {
	if v.services.Index == nil {
		return nil
	}
	index := v.services.Index
	ctx := v.ctx
	return tea.Tick(indexPollInterval, func(time.Time) tea.Msg {
		return messages.IndexStatusUpdated{Info: index.Info(ctx), Build: index.Status()}
	})
}

func (v *View) refreshTranscript(bottom bool) {
	v.viewport.SetContent(v.renderTranscript())
	if bottom {
		v.viewport.GotoBottom()
	}
}

func (v *View) renderTranscript() string {
	if len(v.turns) == 0 {
		return v.styles.Muted.Render("Ask a question about patient experiences, for example:\n" +
			"  What did patients say about the discharge process?")
	}

	wrap := lipgloss.NewStyle().Width(max(20, v.width-2))
	blocks := make([]string, 0, len(v.turns))
	for i := range v.turns {
		blocks = append(blocks, wrap.Render(v.renderTurn(&v.turns[i])))
	}
	return strings.Join(blocks, "\n\n")
}

func (v *View) renderTurn(turn *Turn) string {
	var b strings.Builder
	b.WriteString(v.styles.User.Render("You: "))
	b.WriteString(turn.Question)
	b.WriteString("\n")
	b.WriteString(v.styles.Assistant.Render("Assistant: "))

	switch {
	case turn.Pending:
		b.WriteString(v.styles.Muted.Render("thinking..."))
		return b.String()
	case turn.Err != nil:
		b.WriteString(v.styles.Error.Render(FormatError(turn.Err)))
		return b.String()
	}

	answer := turn.Answer
	if answer == nil {
		answer = &domain.Answer{}
	}
	sources := answer.Sources
	showSources := v.showSources
	if answer.Text == "" {
		b.WriteString(v.styles.Muted.Render("No chat model configured. Closest reviews:"))
		showSources = true
	} else {
		b.WriteString(v.styles.Normal.Render(answer.Text))
	}

	if showSources {
		for i := range sources {
			b.WriteString("\n")
			b.WriteString(v.styles.Source.Render(fmt.Sprintf("[%d] (%.2f) %s",
				i+1, sources[i].Similarity, Excerpt(sources[i].Document.Text, sourceExcerptRunes))))
		}
	} else if len(sources) > 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  %d reviews used (tab to show)", len(sources))))
	}
	return b.String()
}

// Excerpt collapses whitespace and cuts text to n runes.
func Excerpt(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + "..."
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render("Hospital Review Assistant"),
		v.styles.Transcript.Render(v.viewport.View()),
		v.input.View(),
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.viewport.Width = width
	v.viewport.Height = max(3, height-chromeHeight)
	v.refreshTranscript(true)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Turns returns the transcript, oldest first.
func (v *View) Turns() []Turn {
	return v.turns
}

// Busy reports whether a question is awaiting its answer.
func (v *View) Busy() bool {
	return v.busy
}

// ShowSources reports whether review excerpts are expanded.
func (v *View) ShowSources() bool {
	return v.showSources
}

// Input returns the question input.
func (v *View) Input() *input.QuestionInput {
	return v.input
}

// StatusBar returns the status bar.
func (v *View) StatusBar() *status.Bar {
	return v.statusbar
}
