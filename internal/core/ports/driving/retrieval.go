package driving

import (
	"context"

	"github.com/documind-labs/documind-cli/internal/core/domain"
)

// RetrievalService finds passages relevant to a query within one
// owner's namespace. An empty result is a valid outcome, not an error.
type RetrievalService interface {
	// Retrieve returns up to opts.TopK passages ordered nearest first,
	// without deduplication. Feeds answer generation.
	Retrieve(ctx context.Context, query, owner string, opts domain.RetrieveOptions) ([]domain.Passage, error)

	// SearchDocuments returns up to opts.TopK deduplicated passages
	// ordered by descending score. Feeds user-facing search.
	SearchDocuments(ctx context.Context, query, owner string, opts domain.RetrieveOptions) ([]domain.Passage, error)
}
