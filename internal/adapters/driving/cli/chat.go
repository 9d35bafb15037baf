package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driving/mcp"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driving/tui/views/chat"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/logger"
)

// defaultShareAddr matches the address the hosted demo listens on.
const defaultShareAddr = "0.0.0.0:7860"

// excerptRunes bounds each review printed when no chat model is configured.
const excerptRunes = 160

var (
	chatRecreate bool
	chatShare    bool
	chatAddr     string
	chatWatch    bool
)

var exampleQuestions = []string{
	"Has anyone complained about communication with the hospital staff?",
	"What did patients say about the discharge process?",
	"Were there any positive experiences mentioned?",
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the review assistant",
	Long: `Start an interactive chat answered from the indexed hospital reviews.

The index is built first when none exists or when --recreate-db is set.
On a terminal the chat runs as a full-screen UI, otherwise it reads one
question per line from stdin. Type quit, exit or q to leave.

With --share the review tools are served over MCP streamable HTTP on --addr
instead of starting a local chat.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatRecreate, "recreate-db", false, "rebuild the index before chatting")
	chatCmd.Flags().BoolVar(&chatShare, "share", false, "serve the review tools over HTTP instead of a local chat")
	chatCmd.Flags().StringVar(&chatAddr, "addr", defaultShareAddr, "listen address for --share")
	chatCmd.Flags().BoolVar(&chatWatch, "watch", false, "rebuild the index when the review CSV changes")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return notConfigured("retrieval")
	}
	if indexService == nil {
		return notConfigured("index")
	}

	ctx := cmd.Context()
	report, err := indexService.Ensure(ctx, chatRecreate)
	if err != nil {
		return fmt.Errorf("preparing index: %w", err)
	}
	printBuildReport(cmd, report)

	if chatWatch {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := startWatcher(watchCtx); err != nil {
			return err
		}
	}

	if chatShare {
		return serveShared(cmd, chatAddr)
	}
	if isTerminal(cmd) {
		return runTUI(cmd)
	}
	return runLineChat(cmd)
}

func serveShared(cmd *cobra.Command, addr string) error {
	server, err := mcp.NewServer(mcpPorts())
	if err != nil {
		return err
	}
	cmd.Printf("Sharing review tools on http://%s\n", addr)
	return server.RunHTTP(cmd.Context(), addr)
}

// runLineChat reads one question per line until EOF or a quit word.
// Per-question failures are printed and the loop continues.
func runLineChat(cmd *cobra.Command) error {
	ctx := cmd.Context()
	rule := strings.Repeat("=", 80)

	cmd.Println(rule)
	cmd.Println("Hospital Review RAG Chatbot")
	cmd.Println(rule)
	cmd.Println("Try these example questions:")
	for i, q := range exampleQuestions {
		cmd.Printf("  %d. %s\n", i+1, q)
	}
	cmd.Println("\nType 'quit' to exit.")
	cmd.Println(rule)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("\nYou: ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if chat.IsQuitCommand(question) {
			break
		}

		text, err := reply(ctx, question)
		if err != nil {
			logger.Debug("Question failed: %v", err)
			cmd.Printf("\nAssistant: %s\n", chat.FormatError(err))
			continue
		}
		cmd.Printf("\nAssistant: %s\n", text)
	}
	cmd.Println("\nGoodbye!")

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

// reply answers question, or lists the closest reviews when no chat model is configured.
func reply(ctx context.Context, question string) (string, error) {
	if answerService != nil {
		answer, err := answerService.Answer(ctx, question)
		if err != nil {
			return "", err
		}
		return answer.Text, nil
	}

	docs, err := retrievalService.Query(ctx, question, retrievalService.DefaultK())
	if err != nil {
		return "", err
	}
	return formatSources(docs), nil
}

func formatSources(docs []domain.ScoredDocument) string {
	if len(docs) == 0 {
		return "No matching reviews found."
	}
	var b strings.Builder
	b.WriteString("No chat model configured. Closest reviews:")
	for i, d := range docs {
		fmt.Fprintf(&b, "\n  [%d] (%.2f) %s", i+1, d.Similarity, chat.Excerpt(d.Document.Text, excerptRunes))
	}
	return b.String()
}
