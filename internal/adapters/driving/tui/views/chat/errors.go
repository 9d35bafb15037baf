package chat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

// buildHint is appended when a question fails because no index is loaded.
const buildHint = "Build the index first with 'reviewrag build' or restart chat with --recreate-db."

// FormatError renders a per-question failure for the transcript.
func FormatError(err error) string {
	msg := "Sorry, I encountered an error: " + err.Error()
	if errors.Is(err, domain.ErrIndexUnavailable) && !strings.Contains(msg, "reviewrag build") {
		msg = fmt.Sprintf("%s\n%s", msg, buildHint)
	}
	return msg
}

// IsQuitCommand reports whether input asks to leave the chat loop.
func IsQuitCommand(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "quit", "exit", "q":
		return true
	default:
		return false
	}
}

// ErrNoServices is returned when neither answer nor retrieval is configured.
var ErrNoServices = errors.New("chat: no answer or retrieval service configured")
