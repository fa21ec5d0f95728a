package services

import (
	"fmt"

	"github.com/documind-labs/documind-cli/internal/core/domain"
	"github.com/documind-labs/documind-cli/internal/core/ports/driven"
	"github.com/documind-labs/documind-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedDimensions = "embedding.dimensions"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyChunkTargetSize = "chunking.target_size"
	keyChunkOverlap    = "chunking.overlap"
	keyRetrievalTopK   = "retrieval.top_k"
	keySearchTopK      = "retrieval.search_top_k"
	keyDefaultOwner    = "general.default_owner"
)

// localBaseURL is where Ollama listens by default.
const localBaseURL = "http://localhost:11434"

// SettingsService exposes typed settings over the flat config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get assembles the current settings from stored keys, filling
// defaults for anything absent. Base URLs get no default; empty is
// what cloud providers want.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:   s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:      s.configStore.GetString(keyEmbedModel),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL),
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			Dimensions: s.configStore.GetInt(keyEmbedDimensions),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.configStore.GetString(keyLLMModel),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Chunking: domain.ChunkingSettings{
			TargetSize: s.getInt(keyChunkTargetSize, defaults.Chunking.TargetSize),
			Overlap:    s.getOverlap(defaults.Chunking.Overlap),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:       s.getInt(keyRetrievalTopK, defaults.Retrieval.TopK),
			SearchTopK: s.getInt(keySearchTopK, defaults.Retrieval.SearchTopK),
		},
		DefaultOwner: s.getString(keyDefaultOwner, defaults.DefaultOwner),
	}

	if err := validateChunking(settings.Chunking); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save validates the settings and writes every key. Credentials and
// dimensions are skipped when empty so a partial update cannot wipe a
// stored key.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings.Chunking.TargetSize > 0 {
		if err := validateChunking(settings.Chunking); err != nil {
			return err
		}
	}

	entries := []struct {
		key   string
		value any
		skip  bool
	}{
		{key: keyEmbedProvider, value: settings.Embedding.Provider.String()},
		{key: keyEmbedModel, value: settings.Embedding.Model},
		{key: keyEmbedBaseURL, value: settings.Embedding.BaseURL},
		{key: keyEmbedAPIKey, value: settings.Embedding.APIKey, skip: settings.Embedding.APIKey == ""},
		{key: keyEmbedDimensions, value: settings.Embedding.Dimensions, skip: settings.Embedding.Dimensions <= 0},
		{key: keyLLMProvider, value: settings.LLM.Provider.String()},
		{key: keyLLMModel, value: settings.LLM.Model},
		{key: keyLLMBaseURL, value: settings.LLM.BaseURL},
		{key: keyLLMAPIKey, value: settings.LLM.APIKey, skip: settings.LLM.APIKey == ""},
		{key: keyChunkTargetSize, value: settings.Chunking.TargetSize},
		{key: keyChunkOverlap, value: settings.Chunking.Overlap},
		{key: keyRetrievalTopK, value: settings.Retrieval.TopK},
		{key: keySearchTopK, value: settings.Retrieval.SearchTopK},
		{key: keyDefaultOwner, value: settings.DefaultOwner},
	}

	for _, e := range entries {
		if e.skip {
			continue
		}
		if err := s.configStore.Set(e.key, e.value); err != nil {
			return fmt.Errorf("save %s: %w", e.key, err)
		}
	}
	return nil
}

// SetEmbeddingProvider switches the embedding provider. Changing
// providers resets the stored dimensions, since vector widths differ
// between models.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = model
	settings.Embedding.APIKey = apiKey
	settings.Embedding.Dimensions = 0
	settings.Embedding.BaseURL = providerBaseURL(provider, settings.Embedding.BaseURL)

	return s.Save(settings)
}

// SetLLMProvider switches the answer-generation provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = model
	settings.LLM.APIKey = apiKey
	settings.LLM.BaseURL = providerBaseURL(provider, settings.LLM.BaseURL)

	return s.Save(settings)
}

// GetDefaults returns the built-in defaults.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// providerBaseURL keeps a local endpoint for Ollama and clears the
// base URL for cloud providers, which use their canonical endpoint.
func providerBaseURL(provider domain.AIProvider, current string) string {
	if provider != domain.AIProviderOllama {
		return ""
	}
	if current == "" {
		return localBaseURL
	}
	return current
}

func validateChunking(c domain.ChunkingSettings) error {
	if c.Overlap >= c.TargetSize {
		return fmt.Errorf("%w: chunking overlap %d must be less than target size %d",
			domain.ErrInvalidInput, c.Overlap, c.TargetSize)
	}
	return nil
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if val := s.configStore.GetInt(key); val != 0 {
		return val
	}
	return defaultVal
}

// getOverlap treats an explicitly stored zero as a valid value rather
// than an absent one; zero overlap is a legitimate chunking choice.
func (s *SettingsService) getOverlap(defaultVal int) int {
	if _, exists := s.configStore.Get(keyChunkOverlap); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(keyChunkOverlap)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
