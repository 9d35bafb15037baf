package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driving/tui/components/status"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driving/tui/messages"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

// MockAnswerService implements driving.AnswerService for testing.
type MockAnswerService struct {
	AnswerFunc func(ctx context.Context, question string) (*domain.Answer, error)
}

func (m *MockAnswerService) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, question)
	}
	return &domain.Answer{Question: question, Text: "No complaints found."}, nil
}

// MockRetrievalService implements driving.RetrievalService for testing.
type MockRetrievalService struct {
	Results []domain.ScoredDocument
	Err     error
	GotK    int
}

func (m *MockRetrievalService) Query(_ context.Context, _ string, k int) ([]domain.ScoredDocument, error) {
	m.GotK = k
	return m.Results, m.Err
}

func (m *MockRetrievalService) DefaultK() int { return 3 }

// MockIndexService implements driving.IndexService for testing.
type MockIndexService struct {
	Information domain.IndexInfo
	BuildState  domain.BuildStatus
}

func (m *MockIndexService) Build(context.Context, bool) (*domain.BuildReport, error) {
	return &domain.BuildReport{}, nil
}

func (m *MockIndexService) Ensure(context.Context, bool) (*domain.BuildReport, error) {
	return nil, nil
}

func (m *MockIndexService) Open(context.Context) error            { return nil }
func (m *MockIndexService) Info(context.Context) domain.IndexInfo { return m.Information }
func (m *MockIndexService) Status() domain.BuildStatus            { return m.BuildState }

func testSources() []domain.ScoredDocument {
	return []domain.ScoredDocument{
		{Document: domain.EmbeddedDocument{ID: "a", Text: "The discharge process was seamless."}, Similarity: 0.91},
		{Document: domain.EmbeddedDocument{ID: "b", Text: "Parking was hard to find."}, Similarity: 0.40},
	}
}

func newReadyView(services Services) *View {
	v := NewView(nil, nil, services)
	v.SetDimensions(100, 30)
	return v
}

// askAndAnswer types a question, presses enter and feeds back the answer.
func askAndAnswer(t *testing.T, v *View, question string) {
	t.Helper()
	v.Input().SetValue(question)
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.True(t, v.Busy())

	v.Update(v.ask(question)())
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, Services{})

	require.NotNil(t, v)
	assert.False(t, v.Ready())
	assert.False(t, v.Busy())
	assert.Empty(t, v.Turns())
	assert.Equal(t, "Initialising...", v.View())
}

func TestView_WithContext(t *testing.T) {
	v := NewView(nil, nil, Services{})
	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, v, v.WithContext(ctx))
	assert.Equal(t, ctx, v.ctx)
}

func TestView_Init(t *testing.T) {
	assert.NotNil(t, NewView(nil, nil, Services{}).Init())
}

func TestView_WindowSize(t *testing.T) {
	v := NewView(nil, nil, Services{})

	v.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.True(t, v.Ready())
	assert.Equal(t, 120, v.StatusBar().Width())
	assert.Equal(t, 40-chromeHeight, v.viewport.Height)
	assert.Contains(t, v.View(), "Hospital Review Assistant")
}

func TestView_AskAndAnswer(t *testing.T) {
	answers := &MockAnswerService{
		AnswerFunc: func(_ context.Context, q string) (*domain.Answer, error) {
			return &domain.Answer{Question: q, Text: "Discharge was smooth.", Sources: testSources()}, nil
		},
	}
	v := newReadyView(Services{Answer: answers, Retrieval: &MockRetrievalService{}})

	askAndAnswer(t, v, "How was discharge?")

	require.Len(t, v.Turns(), 1)
	turn := v.Turns()[0]
	assert.False(t, turn.Pending)
	assert.NoError(t, turn.Err)
	assert.Equal(t, "Discharge was smooth.", turn.Answer.Text)
	assert.False(t, v.Busy())
	assert.Equal(t, status.StateReady, v.StatusBar().State())

	content := v.renderTranscript()
	assert.Contains(t, content, "How was discharge?")
	assert.Contains(t, content, "Discharge was smooth.")
	assert.Contains(t, content, "2 reviews used")
}

func TestView_PendingTurnRendered(t *testing.T) {
	v := newReadyView(Services{Answer: &MockAnswerService{}, Retrieval: &MockRetrievalService{}})
	v.Input().SetValue("Is the food good?")

	v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, v.Turns(), 1)
	assert.True(t, v.Turns()[0].Pending)
	assert.Equal(t, status.StateThinking, v.StatusBar().State())
	assert.Contains(t, v.renderTranscript(), "thinking...")
	assert.Equal(t, "", v.Input().Value())
}

func TestView_SecondSubmitWhileBusyIgnored(t *testing.T) {
	v := newReadyView(Services{Answer: &MockAnswerService{}, Retrieval: &MockRetrievalService{}})
	v.Input().SetValue("first")
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	v.Input().SetValue("second")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Len(t, v.Turns(), 1)
	assert.Equal(t, "second", v.Input().Value())
}

func TestView_BlankInputSkipped(t *testing.T) {
	v := newReadyView(Services{Answer: &MockAnswerService{}})
	v.Input().SetValue("   ")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Empty(t, v.Turns())
	assert.False(t, v.Busy())
}

func TestView_QuitWords(t *testing.T) {
	for _, word := range []string{"quit", "exit", "q", " QUIT "} {
		t.Run(word, func(t *testing.T) {
			v := newReadyView(Services{Answer: &MockAnswerService{}})
			v.Input().SetValue(word)

			_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

			require.NotNil(t, cmd)
			assert.Equal(t, messages.Quit{}, cmd())
			assert.Empty(t, v.Turns())
		})
	}
}

func TestView_QuitKey(t *testing.T) {
	v := newReadyView(Services{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.Quit{}, cmd())
}

func TestView_ErrorIsApologeticAndLoopContinues(t *testing.T) {
	calls := 0
	answers := &MockAnswerService{
		AnswerFunc: func(_ context.Context, q string) (*domain.Answer, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("gateway timeout")
			}
			return &domain.Answer{Question: q, Text: "Recovered."}, nil
		},
	}
	v := newReadyView(Services{Answer: answers, Retrieval: &MockRetrievalService{}})

	askAndAnswer(t, v, "first")
	assert.Equal(t, status.StateError, v.StatusBar().State())
	assert.Contains(t, v.renderTranscript(), "Sorry, I encountered an error: gateway timeout")

	askAndAnswer(t, v, "second")
	require.Len(t, v.Turns(), 2)
	assert.Equal(t, "Recovered.", v.Turns()[1].Answer.Text)
	assert.Equal(t, status.StateReady, v.StatusBar().State())
}

func TestView_RetrievalOnlyWithoutAnswerService(t *testing.T) {
	retrieval := &MockRetrievalService{Results: testSources()}
	v := newReadyView(Services{Retrieval: retrieval})

	askAndAnswer(t, v, "discharge")

	assert.Equal(t, 3, retrieval.GotK)
	content := v.renderTranscript()
	assert.Contains(t, content, "No chat model configured")
	assert.Contains(t, content, "[1] (0.91) The discharge process was seamless.")
}

func TestView_NoServices(t *testing.T) {
	v := newReadyView(Services{})

	askAndAnswer(t, v, "anything")

	assert.ErrorIs(t, v.Turns()[0].Err, ErrNoServices)
}

func TestView_ToggleSources(t *testing.T) {
	answers := &MockAnswerService{
		AnswerFunc: func(_ context.Context, q string) (*domain.Answer, error) {
			return &domain.Answer{Question: q, Text: "Mixed.", Sources: testSources()}, nil
		},
	}
	v := newReadyView(Services{Answer: answers, Retrieval: &MockRetrievalService{}})
	askAndAnswer(t, v, "parking?")
	assert.NotContains(t, v.renderTranscript(), "Parking was hard to find.")

	v.Update(tea.KeyMsg{Type: tea.KeyTab})

	assert.True(t, v.ShowSources())
	assert.Contains(t, v.renderTranscript(), "[2] (0.40) Parking was hard to find.")
}

func TestView_Clear(t *testing.T) {
	v := newReadyView(Services{Answer: &MockAnswerService{}, Retrieval: &MockRetrievalService{}})
	askAndAnswer(t, v, "one")

	v.Update(tea.KeyMsg{Type: tea.KeyCtrlL})

	assert.Empty(t, v.Turns())
	assert.Contains(t, v.renderTranscript(), "Ask a question")
}

func TestView_IndexStatus(t *testing.T) {
	index := &MockIndexService{Information: domain.IndexInfo{State: domain.IndexPersisted, Documents: 45}}
	v := newReadyView(Services{Retrieval: &MockRetrievalService{}, Index: index})

	msg := v.refreshIndex()()
	_, cmd := v.Update(msg)

	assert.NotNil(t, cmd, "polling continues")
	assert.Contains(t, v.StatusBar().View(), "45 reviews indexed")
}

func TestView_IndexPollDisabledWithoutService(t *testing.T) {
	v := newReadyView(Services{})

	assert.Nil(t, v.refreshIndex())
	assert.Nil(t, v.pollIndex())
}

func TestView_TypingGoesToInput(t *testing.T) {
	v := newReadyView(Services{})

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("jk q")})

	assert.Equal(t, "jk q", v.Input().Value())
}

func TestView_AnswerElapsedShown(t *testing.T) {
	v := newReadyView(Services{Answer: &MockAnswerService{}})
	v.turns = append(v.turns, Turn{Question: "q1", Pending: true})
	v.busy = true

	v.Update(messages.AnswerReceived{Question: "q1", Answer: &domain.Answer{Text: "ok"}, Elapsed: 1500 * time.Millisecond})

	assert.Equal(t, "Answered in 1.5s", v.StatusBar().Message())
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "Sorry, I encountered an error: boom", FormatError(errors.New("boom")))

	msg := FormatError(fmt.Errorf("query: %w", domain.ErrIndexUnavailable))
	assert.Contains(t, msg, "Sorry, I encountered an error:")
	assert.Contains(t, msg, "reviewrag build")
}

func TestIsQuitCommand(t *testing.T) {
	assert.True(t, IsQuitCommand("quit"))
	assert.True(t, IsQuitCommand("Exit"))
	assert.True(t, IsQuitCommand(" q "))
	assert.False(t, IsQuitCommand("quite"))
	assert.False(t, IsQuitCommand(""))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "a b", Excerpt("a\n  b", 10))
	assert.Equal(t, "abc...", Excerpt("abcdef", 3))
	assert.Equal(t, "héll...", Excerpt("héllo", 4))
}
