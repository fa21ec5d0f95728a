// Package ai assembles embedding and LLM adapters from stored
// settings, hiding the per-provider constructors from the rest of
// the application.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/documind-labs/documind-cli/internal/adapters/driven/embedding"
	ollamaembed "github.com/documind-labs/documind-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/documind-labs/documind-cli/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/documind-labs/documind-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/documind-labs/documind-cli/internal/adapters/driven/llm/openai"
	"github.com/documind-labs/documind-cli/internal/core/domain"
	"github.com/documind-labs/documind-cli/internal/core/ports/driven"
)

// pingTimeout bounds connectivity checks against a provider.
const pingTimeout = 5 * time.Second

// CreateEmbeddingService creates the embedding service described by
// settings, wrapped so that provider construction and connectivity
// checks are deferred until the first embed call. Returns nil if the
// provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama, domain.AIProviderOpenAI:
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}

	cfg := *settings
	factory := func(ctx context.Context) (driven.EmbeddingService, error) {
		svc, err := createEmbeddingService(&cfg)
		if err != nil {
			return nil, err
		}

		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := svc.Ping(pingCtx); err != nil {
			svc.Close()
			return nil, fmt.Errorf("service unreachable: %w", err)
		}
		return svc, nil
	}

	return embedding.NewLazy(factory, embeddingDimensions(&cfg), embeddingModel(&cfg)), nil
}

// CreateAndValidateLLMService builds the LLM adapter and pings it
// before handing it out, so callers that need a working provider up
// front get the failure immediately.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'documind settings' to configure",
			domain.ErrLLMUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'documind settings' to configure",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig builds a throwaway adapter from the given
// settings and pings it. The settings command uses it to check
// credentials on configuration.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := createEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMConfig is the LLM counterpart of ValidateEmbeddingConfig.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateLLMService picks the LLM adapter for the configured provider.
// Unconfigured settings yield a nil service and no error.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// createEmbeddingService constructs the raw provider adapter without
// lazy wrapping.
func createEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// embeddingDimensions resolves the vector size advertised before the
// provider adapter is constructed.
func embeddingDimensions(settings *domain.EmbeddingSettings) int {
	if settings.Dimensions > 0 {
		return settings.Dimensions
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		if d := openaiembed.ModelDimensions(embeddingModel(settings)); d > 0 {
			return d
		}
		return openaiembed.ModelDimensions(openaiembed.DefaultModel)
	default:
		return ollamaembed.DefaultDimensions
	}
}

// embeddingModel resolves the model name advertised before the
// provider adapter is constructed.
func embeddingModel(settings *domain.EmbeddingSettings) string {
	if settings.Model != "" {
		return settings.Model
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return openaiembed.DefaultModel
	default:
		return ollamaembed.DefaultModel
	}
}
