// Command reviewrag answers questions about hospital reviews from a vector index.
//
// Usage:
//
//	reviewrag [flags] <command>
//
// Commands:
//
//	build       - Embed the review CSV and persist the index
//	chat        - Interactive chat over the index
//	evaluate    - Keyword hit-rate evaluation of retrieval
//	check-data  - Inspect the review CSV
//	doctor      - Check configuration, data, key and index
//	mcp serve   - Serve the review tools over MCP
//	settings    - Show current settings
//	version     - Show version information
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driving/cli"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	err := cli.Execute(ctx)
	stop()
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
