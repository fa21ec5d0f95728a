package domain

const unknownDescription = "Unknown"

// AIProvider names a backend capable of embeddings or chat
// completions.
type AIProvider string

const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid reports whether the provider is one this build supports.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey reports whether the provider needs a credential.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

func (p AIProvider) String() string {
	return string(p)
}

// Description renders the provider for user-facing output.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings selects and configures the embedding backend.
type EmbeddingSettings struct {
	Provider AIProvider
	Model    string

	// BaseURL is the API endpoint, used by Ollama and API-compatible
	// gateways.
	BaseURL string

	// APIKey authenticates cloud providers.
	APIKey string

	// Dimensions is the embedding vector size, fixed per deployment.
	Dimensions int
}

// IsConfigured reports whether embeddings can be produced with these
// settings: a supported provider, with a key when the provider wants
// one.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings selects and configures the answer-generation backend.
type LLMSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string
}

// IsConfigured reports whether answers can be generated with these
// settings.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings controls how documents split into chunks. Sizes are
// measured in characters, not tokens.
type ChunkingSettings struct {
	// TargetSize is the maximum span length.
	TargetSize int

	// Overlap is the exact overlap between consecutive spans. Must be
	// strictly less than TargetSize.
	Overlap int
}

// RetrievalSettings controls query-time result counts.
type RetrievalSettings struct {
	// TopK is the default passage count for answer generation.
	TopK int

	// SearchTopK is the default result count for search.
	SearchTopK int
}

// AppSettings is everything the config file stores.
type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Chunking  ChunkingSettings
	Retrieval RetrievalSettings

	// DefaultOwner is the namespace used when no owner is given.
	DefaultOwner string
}

// DefaultAppSettings returns the built-in defaults. The AI providers
// stay unconfigured; users set them up explicitly before ingesting or
// querying.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunking: ChunkingSettings{
			TargetSize: 800,
			Overlap:    200,
		},
		Retrieval: RetrievalSettings{
			TopK:       5,
			SearchTopK: 10,
		},
		DefaultOwner: "default",
	}
}
