package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

var doctorOffline bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that reviewrag is ready to run",
	Long: `Checks the configuration, the review CSV, the API key, the persisted index
and, unless --offline is set, that the configured providers answer.

Each check prints PASS or FAIL. The command exits non-zero if any check fails.`,
	Args:        cobra.NoArgs,
	Annotations: offline(),
	RunE:        runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorOffline, "offline", false, "skip provider connectivity checks")
	rootCmd.AddCommand(doctorCmd)
}

type doctorCheck struct {
	cmd      *cobra.Command
	failures int
}

func (d *doctorCheck) pass(name, format string, args ...any) {
	d.cmd.Printf("[PASS] %-10s %s\n", name, fmt.Sprintf(format, args...))
}

func (d *doctorCheck) fail(name string, err error) {
	d.failures++
	d.cmd.Printf("[FAIL] %-10s %v\n", name, err)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings")
	}
	ctx := cmd.Context()
	d := &doctorCheck{cmd: cmd}

	settings, err := settingsService.Get()
	switch {
	case err != nil:
		d.fail("config", err)
		settings = settingsService.GetDefaults()
	case configPath == "":
		d.pass("config", "using defaults")
	default:
		if _, statErr := os.Stat(configPath); statErr != nil {
			d.pass("config", "no file at %s, using defaults", configPath)
		} else {
			d.pass("config", "%s", configPath)
		}
	}

	if info, err := os.Stat(settings.CSVPath); err != nil {
		d.fail("data", fmt.Errorf("%w: %s", domain.ErrSourceNotFound, settings.CSVPath))
	} else if info.IsDir() {
		d.fail("data", fmt.Errorf("%s is a directory", settings.CSVPath))
	} else {
		d.pass("data", "%s (%d bytes)", settings.CSVPath, info.Size())
	}

	apiKey := ""
	if settings.NeedsAPIKey() {
		key, err := settingsService.APIKey()
		if err != nil {
			d.fail("api key", err)
		} else {
			apiKey = key
			d.pass("api key", "%s is set (%s)", settings.APIKeyEnvVar, maskAPIKey(key))
		}
	} else {
		d.pass("api key", "not required")
	}

	switch {
	case indexService == nil:
		d.fail("index", notConfigured("index"))
	default:
		if err := indexService.Open(ctx); err != nil {
			d.fail("index", err)
		} else {
			info := indexService.Info(ctx)
			d.pass("index", "%d reviews at %s", info.Documents, info.Path)
		}
	}

	if !doctorOffline && aiValidator != nil {
		if settings.NeedsAPIKey() && apiKey == "" {
			d.fail("providers", errors.New("skipped, no API key"))
		} else {
			if err := aiValidator.ValidateEmbedding(ctx, settings.Embedding, apiKey); err != nil {
				d.fail("embedding", err)
			} else {
				d.pass("embedding", "%s %s reachable", settings.Embedding.Provider, settings.Embedding.Model)
			}
			switch err := aiValidator.ValidateLLM(ctx, settings.Chat, apiKey); {
			case settings.Chat.Provider == "":
				d.pass("chat", "disabled")
			case err != nil:
				d.fail("chat", err)
			default:
				d.pass("chat", "%s %s reachable", settings.Chat.Provider, settings.Chat.Model)
			}
		}
	}

	if d.failures > 0 {
		return fmt.Errorf("doctor found %d problem(s)", d.failures)
	}
	cmd.Println("All checks passed.")
	return nil
}
