package driving

import (
	"github.com/documind-labs/documind-cli/internal/core/domain"
)

// SettingsService reads and writes application settings.
type SettingsService interface {
	// Get returns the current settings, filling defaults for anything
	// not yet configured.
	Get() (*domain.AppSettings, error)

	// Save validates and persists the full settings set.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider switches the embedding provider, applying
	// provider-specific defaults for base URL and model.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider switches the answer-generation provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// GetDefaults returns the built-in defaults.
	GetDefaults() domain.AppSettings
}
