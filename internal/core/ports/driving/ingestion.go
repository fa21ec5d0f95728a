package driving

import (
	"context"

	"github.com/documind-labs/documind-cli/internal/core/domain"
)

// IngestionService turns extracted document text into indexed chunks.
type IngestionService interface {
	// Ingest chunks, embeds and stores a document under the owner's
	// namespace, then records it in the registry. The index write is
	// all-or-nothing: a failure leaves no partial chunk set visible.
	// Failures are reported as typed errors wrapped in
	// domain.ErrIngestionFailed; retrying is the caller's decision.
	Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error)
}
