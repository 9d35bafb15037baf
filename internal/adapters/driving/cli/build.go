package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the vector index from the review CSV",
	Long: `Reads every review from the configured CSV, embeds them in batches and
persists the vector index. Any existing index is replaced.

Batches are sent one at a time with a cooldown between them to stay under
the embedding provider's rate limit. See ingest.batch_size and
ingest.batch_wait_seconds in config.toml.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return notConfigured("index")
	}

	report, err := indexService.Build(cmd.Context(), true)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	printBuildReport(cmd, report)
	return nil
}

func printBuildReport(cmd *cobra.Command, report *domain.BuildReport) {
	if report == nil {
		return
	}
	cmd.Printf("Indexed %d reviews in %d batches (%d waits) in %s\n",
		report.Records, report.Batches(), report.Waits, report.Duration.Round(time.Millisecond))
	if report.Path != "" {
		cmd.Printf("Index saved to %s\n", report.Path)
	}
}
