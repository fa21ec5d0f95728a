// Package cli implements the documind command-line interface using
// cobra. Commands talk to the core through driving ports; services are
// injected once at startup via SetServices.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/documind-labs/documind-cli/internal/core/ports/driving"
	"github.com/documind-labs/documind-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Injected services. Nil checks in each command give a clear error when
// a command runs without its dependency configured.
var (
	ingestionService  driving.IngestionService
	retrievalService  driving.RetrievalService
	generationService driving.GenerationService
	documentService   driving.DocumentService
	settingsService   driving.SettingsService

	// defaultOwner is the namespace used when --owner is not given.
	defaultOwner = "default"
)

// verboseFlag enables debug logging to stderr.
var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "documind",
	Short: "Personal document Q&A from the command line",
	Long: `DocuMind ingests your documents into a per-user vector index and
answers questions about them using retrieval-augmented generation.

Typical workflow:
  documind settings embedding --provider ollama
  documind settings llm --provider ollama
  documind ingest notes.txt
  documind ask "what did I write about deadlines?"`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Services bundles everything the CLI needs from the core.
type Services struct {
	Ingestion  driving.IngestionService
	Retrieval  driving.RetrievalService
	Generation driving.GenerationService
	Document   driving.DocumentService
	Settings   driving.SettingsService

	// DefaultOwner is the namespace used when --owner is omitted.
	DefaultOwner string
}

// SetServices injects core services into the CLI commands.
// Must be called before Execute.
func SetServices(s Services) {
	ingestionService = s.Ingestion
	retrievalService = s.Retrieval
	generationService = s.Generation
	documentService = s.Document
	settingsService = s.Settings
	if s.DefaultOwner != "" {
		defaultOwner = s.DefaultOwner
	}
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// resolveOwner returns the owner namespace for a command, falling back
// to the configured default when the flag was left empty.
func resolveOwner(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return defaultOwner
}
