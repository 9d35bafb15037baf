package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show current settings",
	Long: `Shows the settings in effect after applying config.toml over the defaults.

Edit config.toml in the configuration directory to change them. The API key
is read from the environment variable named by auth.api_key_env, or from a
.env file in the working directory.`,
	Args:        cobra.NoArgs,
	Annotations: offline(),
	RunE:        runSettingsShow,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return err
	}

	if configPath != "" {
		cmd.Printf("Config file: %s\n\n", configPath)
	}

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.RequestsPerMinute > 0 {
		cmd.Printf("  Requests per minute: %d\n", settings.Embedding.RequestsPerMinute)
	}
	cmd.Println()

	cmd.Println("[Chat]")
	if settings.Chat.Provider == "" {
		cmd.Println("  Provider: (disabled)")
	} else {
		cmd.Printf("  Provider: %s\n", settings.Chat.Provider.Description())
		cmd.Printf("  Model: %s\n", settings.Chat.Model)
		cmd.Printf("  Temperature: %.2f\n", settings.Chat.Temperature)
		if settings.Chat.BaseURL != "" {
			cmd.Printf("  Base URL: %s\n", settings.Chat.BaseURL)
		}
	}
	cmd.Println()

	cmd.Println("[Ingest]")
	cmd.Printf("  Batch size: %d\n", settings.Ingest.BatchSize)
	cmd.Printf("  Batch wait: %s\n", settings.Ingest.BatchWait)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K: %d\n", settings.TopKRetrieval)
	cmd.Println()

	cmd.Println("[Data]")
	cmd.Printf("  CSV: %s\n", settings.CSVPath)
	cmd.Printf("  Review column: %s\n", settings.ReviewColumn)
	cmd.Println()

	cmd.Println("[Index]")
	cmd.Printf("  Backend: %s\n", settings.IndexBackend)
	cmd.Printf("  Path: %s\n", settings.IndexPath)
	cmd.Println()

	cmd.Println("[Auth]")
	cmd.Printf("  Env var: %s\n", settings.APIKeyEnvVar)
	key, err := settingsService.APIKey()
	switch {
	case err == nil:
		cmd.Printf("  API Key: %s\n", maskAPIKey(key))
	case errors.Is(err, domain.ErrMissingCredential):
		cmd.Println("  API Key: (not set)")
	default:
		return err
	}
	return nil
}

// maskAPIKey masks an API key for display.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
