package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/documind-labs/documind-cli/internal/adapters/driven/ai"
	"github.com/documind-labs/documind-cli/internal/core/domain"
)

var (
	settingsProvider string
	settingsModel    string
	settingsAPIKey   string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, chunking and retrieval options.

Settings persist in ~/.documind/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding provider",
	Long: `Configure the provider used to embed document chunks and queries.

Examples:
  documind settings embedding --provider ollama --model nomic-embed-text
  documind settings embedding --provider openai --api-key sk-... --model text-embedding-3-small`,
	RunE: runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the LLM provider",
	Long: `Configure the provider used to generate answers.

Examples:
  documind settings llm --provider ollama --model llama3.2
  documind settings llm --provider openai --api-key sk-... --model gpt-4o-mini`,
	RunE: runSettingsLLM,
}

func init() {
	for _, c := range []*cobra.Command{settingsEmbeddingCmd, settingsLLMCmd} {
		c.Flags().StringVar(&settingsProvider, "provider", "", "provider name (ollama, openai)")
		c.Flags().StringVar(&settingsModel, "model", "", "model name (provider default when empty)")
		c.Flags().StringVar(&settingsAPIKey, "api-key", "", "API key (required for openai)")
	}

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	printProvider(cmd, settings.Embedding.Provider, settings.Embedding.Model,
		settings.Embedding.BaseURL, settings.Embedding.APIKey, settings.Embedding.IsConfigured())
	cmd.Println()

	cmd.Println("[LLM]")
	printProvider(cmd, settings.LLM.Provider, settings.LLM.Model,
		settings.LLM.BaseURL, settings.LLM.APIKey, settings.LLM.IsConfigured())
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Target size: %d characters\n", settings.Chunking.TargetSize)
	cmd.Printf("  Overlap:     %d characters\n", settings.Chunking.Overlap)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K (ask):    %d\n", settings.Retrieval.TopK)
	cmd.Printf("  Top K (search): %d\n", settings.Retrieval.SearchTopK)
	cmd.Println()

	cmd.Printf("Default owner: %s\n", settings.DefaultOwner)
	return nil
}

func printProvider(cmd *cobra.Command, provider domain.AIProvider, model, baseURL, apiKey string, configured bool) {
	cmd.Printf("  Provider: %s\n", provider.Description())
	if model != "" {
		cmd.Printf("  Model: %s\n", model)
	}
	if baseURL != "" {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}

	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if settingsProvider == "" {
		return errors.New("--provider is required")
	}

	provider := domain.AIProvider(strings.ToLower(settingsProvider))
	if err := settingsService.SetEmbeddingProvider(provider, settingsModel, settingsAPIKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	cmd.Printf("Embedding provider set to %s.\n", provider.Description())

	if settings, err := settingsService.Get(); err == nil {
		if err := ai.ValidateEmbeddingConfig(&settings.Embedding); err != nil {
			cmd.Printf("Warning: provider not reachable: %v\n", err)
		}
	}
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if settingsProvider == "" {
		return errors.New("--provider is required")
	}

	provider := domain.AIProvider(strings.ToLower(settingsProvider))
	if err := settingsService.SetLLMProvider(provider, settingsModel, settingsAPIKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	cmd.Printf("LLM provider set to %s.\n", provider.Description())

	if settings, err := settingsService.Get(); err == nil {
		if err := ai.ValidateLLMConfig(&settings.LLM); err != nil {
			cmd.Printf("Warning: provider not reachable: %v\n", err)
		}
	}
	return nil
}

// maskAPIKey hides all but the first and last few characters of a key.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
