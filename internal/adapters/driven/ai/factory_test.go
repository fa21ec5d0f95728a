package ai

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/documind-labs/documind-cli/internal/core/domain"
)

// deadURL returns an address nothing listens on.
func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()
	return url
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.EmbeddingSettings
		wantNil  bool
	}{
		{name: "nil settings", settings: nil, wantNil: true},
		{name: "unconfigured", settings: &domain.EmbeddingSettings{}, wantNil: true},
		{
			name: "openai without api key",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				Model:    "text-embedding-3-small",
			},
			wantNil: true,
		},
		{
			name: "ollama",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "nomic-embed-text",
			},
		},
		{
			name: "openai",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "text-embedding-3-small",
			},
		},
		{
			name: "unknown provider treated as unconfigured",
			settings: &domain.EmbeddingSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)
			require.NoError(t, err)

			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			svc.Close()
		})
	}
}

func TestCreateEmbeddingService_AdvertisesMetadata(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.EmbeddingSettings
		wantModel string
		wantDims  int
	}{
		{
			name:      "ollama defaults",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderOllama},
			wantModel: "nomic-embed-text",
			wantDims:  768,
		},
		{
			name: "openai defaults",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
			},
			wantModel: "text-embedding-3-small",
			wantDims:  1536,
		},
		{
			name: "openai large model",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "text-embedding-3-large",
			},
			wantModel: "text-embedding-3-large",
			wantDims:  3072,
		},
		{
			name: "explicit dimensions win",
			settings: &domain.EmbeddingSettings{
				Provider:   domain.AIProviderOllama,
				Model:      "mxbai-embed-large",
				Dimensions: 1024,
			},
			wantModel: "mxbai-embed-large",
			wantDims:  1024,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)
			require.NoError(t, err)
			require.NotNil(t, svc)
			defer svc.Close()

			assert.Equal(t, tt.wantModel, svc.ModelName())
			assert.Equal(t, tt.wantDims, svc.Dimensions())
		})
	}
}

func TestCreateEmbeddingService_UnreachableProviderFailsOnFirstUse(t *testing.T) {
	svc, err := CreateEmbeddingService(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  deadURL(t),
		Model:    "nomic-embed-text",
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
	defer svc.Close()

	// Construction succeeds; connectivity failures surface on the first
	// embed, which forces initialization.
	_, err = svc.Embed(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantNil  bool
	}{
		{name: "nil settings", settings: nil, wantNil: true},
		{name: "unconfigured", settings: &domain.LLMSettings{}, wantNil: true},
		{
			name: "ollama",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "llama3.2",
			},
		},
		{
			name: "openai",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "gpt-4o-mini",
			},
		},
		{
			name: "unknown provider treated as unconfigured",
			settings: &domain.LLMSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)
			require.NoError(t, err)

			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			svc.Close()
		})
	}
}

func TestCreateAndValidateLLMService_Unreachable(t *testing.T) {
	svc, err := CreateAndValidateLLMService(&domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  deadURL(t),
		Model:    "llama3.2",
	})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.Nil(t, svc)
}

func TestCreateAndValidateLLMService_NotConfigured(t *testing.T) {
	svc, err := CreateAndValidateLLMService(&domain.LLMSettings{})
	assert.NoError(t, err)
	assert.Nil(t, svc)
}

func TestValidateEmbeddingConfig(t *testing.T) {
	assert.NoError(t, ValidateEmbeddingConfig(nil))
	assert.NoError(t, ValidateEmbeddingConfig(&domain.EmbeddingSettings{}))

	err := ValidateEmbeddingConfig(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  deadURL(t),
		Model:    "nomic-embed-text",
	})
	assert.Error(t, err)
}

func TestValidateLLMConfig(t *testing.T) {
	assert.NoError(t, ValidateLLMConfig(nil))
	assert.NoError(t, ValidateLLMConfig(&domain.LLMSettings{}))

	err := ValidateLLMConfig(&domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  deadURL(t),
		Model:    "llama3.2",
	})
	assert.Error(t, err)
}
