package cli

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

// previewRunes bounds each sample review printed by check-data.
const previewRunes = 100

var checkDataCmd = &cobra.Command{
	Use:         "check-data",
	Short:       "Check the review CSV before building",
	Long:        `Reports the row and column counts of the review CSV, missing values per column, and the first few reviews.`,
	Args:        cobra.NoArgs,
	Annotations: offline(),
	RunE:        runCheckData,
}

func init() {
	rootCmd.AddCommand(checkDataCmd)
}

func runCheckData(cmd *cobra.Command, _ []string) error {
	if dataCheckService == nil {
		return notConfigured("data check")
	}

	report, err := dataCheckService.Check(cmd.Context())
	if err != nil {
		return fmt.Errorf("data check failed: %w", err)
	}

	rule := strings.Repeat("=", 80)
	thin := strings.Repeat("-", 80)

	cmd.Println()
	cmd.Println(rule)
	cmd.Println("DATA INTEGRITY CHECK")
	cmd.Println(rule)
	cmd.Println()
	cmd.Printf("File exists: %s\n", report.Path)
	cmd.Printf("Total rows: %d\n", report.Rows)
	cmd.Printf("Total columns: %d\n", len(report.Columns))

	cmd.Println()
	cmd.Println("Column Information:")
	cmd.Println(thin)
	for _, col := range report.Stats {
		cmd.Printf("  %-20s: %5d non-null values (%d missing)\n", col.Name, col.NonNull, col.Missing)
	}

	if len(report.SampleReviews) > 0 {
		cmd.Println()
		cmd.Println("Sample Reviews:")
		cmd.Println(thin)
		for i, review := range report.SampleReviews {
			cmd.Printf("  %d. %s\n\n", i+1, preview(review, previewRunes))
		}
	}
	cmd.Println(rule)
	return nil
}

func preview(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + "..."
}
