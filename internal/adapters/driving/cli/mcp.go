package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driving/mcp"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driving/watch"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/logger"
)

var mcpWatch bool

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes the search_reviews tool, the ask_reviews tool when a chat
model is configured, and the reviewrag://index/status resource. The index is
built first if none exists.

By default, the server communicates over stdio using JSON-RPC. Use --port to
start an HTTP server instead.

Examples:
  # Stdio mode (default, for desktop assistants)
  reviewrag mcp serve

  # HTTP mode, rebuilding when the CSV changes
  reviewrag mcp serve --port 8080 --watch

Desktop assistant configuration:
  {
    "mcpServers": {
      "reviewrag": {
        "command": "/path/to/reviewrag",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().BoolVar(&mcpWatch, "watch", false, "rebuild the index when the review CSV changes")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if indexService == nil {
		return notConfigured("index")
	}

	server, err := mcp.NewServer(mcpPorts())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if _, err := indexService.Ensure(ctx, false); err != nil {
		return fmt.Errorf("preparing index: %w", err)
	}

	if mcpWatch {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := startWatcher(watchCtx); err != nil {
			return err
		}
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		// stdout carries JSON-RPC in stdio mode, so only HTTP mode prints.
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}

func mcpPorts() *mcp.Ports {
	return &mcp.Ports{
		Retrieval: retrievalService,
		Answer:    answerService,
		Index:     indexService,
	}
}

// startWatcher rebuilds the index in the background whenever the review CSV
// changes. It stops when ctx is cancelled.
func startWatcher(ctx context.Context) error {
	if settingsService == nil {
		return notConfigured("settings")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return err
	}

	w, err := watch.New(settings.CSVPath, indexService)
	if err != nil {
		return err
	}

	go func() {
		if err := w.Run(ctx); err != nil {
			logger.Error("Watcher stopped: %v", err)
		}
	}()
	logger.Info("Watching %s for changes", w.Path())
	return nil
}
