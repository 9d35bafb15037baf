package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driven/config/file"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

var (
	evalTopK    int
	evalSamples string
	evalSweep   []int
	evalJSON    bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Measure retrieval quality with keyword hit rates",
	Long: `Runs each evaluation question against the index and scores the
retrieved reviews by the fraction of expected keywords they contain.

The index must already exist; evaluate never builds it. Without --samples
the four built-in questions are used. A samples file is YAML:

  samples:
    - question: What did patients say about parking?
      expected_keywords: [parking, lot]

--sweep evaluates at several top-k values and reports the mean hit rate for each.`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().IntVarP(&evalTopK, "top-k", "k", 0, "documents to retrieve per question (0 = configured top_k)")
	evaluateCmd.Flags().StringVar(&evalSamples, "samples", "", "YAML file of evaluation samples")
	evaluateCmd.Flags().IntSliceVar(&evalSweep, "sweep", nil, "comma-separated top-k values to sweep, e.g. 1,3,5,10")
	evaluateCmd.Flags().BoolVar(&evalJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	if evaluationService == nil {
		return notConfigured("evaluation")
	}

	topK, err := resolveTopK(evalTopK)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if indexService != nil {
		if err := indexService.Open(ctx); err != nil {
			return fmt.Errorf("loading index: %w", err)
		}
	}

	samples := domain.DefaultEvaluationSamples()
	if evalSamples != "" {
		loaded, err := file.LoadSamples(evalSamples)
		if err != nil {
			return err
		}
		samples = loaded
	}

	if len(evalSweep) > 0 {
		points, err := evaluationService.Sweep(ctx, samples, evalSweep)
		if err != nil {
			return fmt.Errorf("evaluation failed: %w", err)
		}
		if evalJSON {
			return outputJSON(cmd, points)
		}
		outputSweepTable(cmd, points)
		return nil
	}

	report, err := evaluationService.Evaluate(ctx, samples, topK)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	if evalJSON {
		return outputJSON(cmd, report)
	}
	outputEvaluationTable(cmd, report)
	return nil
}

// resolveTopK maps the --top-k flag to a k; zero means the configured value.
func resolveTopK(k int) (int, error) {
	switch {
	case k < 0:
		return 0, fmt.Errorf("%w: --top-k must not be negative, got %d", domain.ErrInvalidInput, k)
	case k > 0:
		return k, nil
	case retrievalService != nil:
		return retrievalService.DefaultK(), nil
	default:
		return domain.DefaultTopKRetrieval, nil
	}
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputEvaluationTable(cmd *cobra.Command, report *domain.EvaluationReport) {
	rule := strings.Repeat("=", 80)

	cmd.Println()
	cmd.Println(rule)
	cmd.Println("EVALUATION RESULTS")
	cmd.Println(rule)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "question\tkeywords\thit_rate\tdocuments_retrieved")
	for _, r := range report.Results {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\n", r.Question, strings.Join(r.Keywords, ", "), r.HitRate, r.DocumentsRetrieved)
	}
	w.Flush()

	cmd.Println()
	cmd.Println(rule)
	cmd.Println("SUMMARY STATISTICS")
	cmd.Println(rule)
	for _, row := range []struct {
		name  string
		value float64
	}{
		{"average_hit_rate", report.Summary.Mean},
		{"median_hit_rate", report.Summary.Median},
		{"min_hit_rate", report.Summary.Min},
		{"max_hit_rate", report.Summary.Max},
	} {
		cmd.Printf("%-20s: %.2f\n", row.name, row.value)
	}
	cmd.Println(rule)
	cmd.Printf("top_k=%d\n", report.K)
}

func outputSweepTable(cmd *cobra.Command, points []domain.SweepPoint) {
	rule := strings.Repeat("=", 80)

	cmd.Println()
	cmd.Println(rule)
	cmd.Println("HIT RATE BY TOP-K")
	cmd.Println(rule)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "top_k\tmean_hit_rate")
	for _, p := range points {
		fmt.Fprintf(w, "%d\t%.2f\n", p.K, p.MeanHitRate)
	}
	w.Flush()
	cmd.Println(rule)
}
