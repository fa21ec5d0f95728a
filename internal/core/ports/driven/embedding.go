package driven

import "context"

// EmbeddingService turns text into fixed-width vectors. It only
// produces vectors; storing and searching them is VectorIndex's job.
// Backed by Ollama or OpenAI adapters, possibly behind a lazy wrapper
// that defers model loading to first use.
type EmbeddingService interface {
	// Embed returns the vector for one text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch embeds several texts in one backend call. The result
	// is order-preserving: result[i] belongs to texts[i]. Ingestion
	// depends on this to embed a whole document at once.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the vector width. It is fixed for the process
	// lifetime and must agree with the index it feeds.
	Dimensions() int

	// ModelName names the model producing the vectors.
	ModelName() string

	// Ping checks reachability without running inference.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
