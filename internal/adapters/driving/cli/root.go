// Package cli implements the reviewrag command line.
//
// Commands read their services from package state. main installs a
// bootstrap function that builds them on first use, so commands that never
// talk to an AI provider do not need an API key.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driven"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driving"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/logger"
)

// annotationOffline marks commands that never call an AI provider.
const annotationOffline = "reviewrag/offline"

var version = "dev"

var (
	configDir string
	logLevel  string
)

// Services wired by main.
var (
	indexService      driving.IndexService
	retrievalService  driving.RetrievalService
	answerService     driving.AnswerService
	evaluationService driving.EvaluationService
	dataCheckService  driving.DataCheckService
	settingsService   driving.SettingsService
	aiValidator       driven.AIConfigValidator
	configPath        string
	closeServices     func()
)

// Services is the set of core services the commands run against.
// Fields left nil make the commands that need them fail with a
// "not configured" error.
type Services struct {
	Index      driving.IndexService
	Retrieval  driving.RetrievalService
	Answer     driving.AnswerService
	Evaluation driving.EvaluationService
	DataCheck  driving.DataCheckService
	Settings   driving.SettingsService
	Validator  driven.AIConfigValidator

	// ConfigPath is the config file the settings were read from.
	ConfigPath string

	// Close releases gateways and the index. May be nil.
	Close func()
}

// BootstrapConfig tells the bootstrap function what the command needs.
type BootstrapConfig struct {
	// ConfigDir overrides the default configuration directory.
	ConfigDir string

	// Gateways is false for commands that never embed or chat.
	Gateways bool
}

// BootstrapFunc builds the services for one command run.
type BootstrapFunc func(ctx context.Context, cfg BootstrapConfig) (*Services, error)

var bootstrap BootstrapFunc

var rootCmd = &cobra.Command{
	Use:   "reviewrag",
	Short: "Ask questions about hospital reviews",
	Long: `reviewrag indexes a CSV of hospital reviews into a vector store and
answers questions grounded on the closest reviews.

Build the index once with 'reviewrag build', then start 'reviewrag chat'.
Use 'reviewrag evaluate' to measure retrieval quality.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: preRun,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "configuration directory (default ~/.reviewrag)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "log level: DEBUG, INFO, WARNING or ERROR")
}

// SetServices installs the services the commands use.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	indexService = s.Index
	retrievalService = s.Retrieval
	answerService = s.Answer
	evaluationService = s.Evaluation
	dataCheckService = s.DataCheck
	settingsService = s.Settings
	aiValidator = s.Validator
	configPath = s.ConfigPath
	closeServices = s.Close
}

// SetBootstrap installs the function that builds services before a command runs.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Command output goes to stdout and logs to stderr.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return run(ctx)
}

// run executes the root command and releases the services it bootstrapped,
// also when the command fails. Cobra skips post-run hooks after an error.
func run(ctx context.Context) error {
	defer releaseServices()
	return rootCmd.ExecuteContext(ctx)
}

func releaseServices() {
	if closeServices != nil {
		closeServices()
		closeServices = nil
	}
}

func preRun(cmd *cobra.Command, _ []string) error {
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	if bootstrap == nil {
		return nil
	}
	services, err := bootstrap(cmd.Context(), BootstrapConfig{
		ConfigDir: configDir,
		Gateways:  needsGateways(cmd),
	})
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}

// needsGateways is false when cmd or one of its parents is marked offline.
func needsGateways(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationOffline] == "true" {
			return false
		}
	}
	return true
}

func offline() map[string]string {
	return map[string]string{annotationOffline: "true"}
}

func notConfigured(name string) error {
	return errors.New(name + " service not configured")
}
