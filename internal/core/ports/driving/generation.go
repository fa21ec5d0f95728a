package driving

import (
	"context"

	"github.com/documind-labs/documind-cli/internal/core/domain"
)

// GenerationService produces answers grounded in retrieved passages.
type GenerationService interface {
	// Stream yields the answer incrementally. The consumer may render
	// tokens as they arrive; the stream always ends with either a done
	// event or a terminal error event before the channel closes.
	Stream(ctx context.Context, query string, passages []domain.Passage) <-chan domain.StreamEvent

	// Generate accumulates the stream into a complete answer.
	Generate(ctx context.Context, query string, passages []domain.Passage) (string, error)
}
