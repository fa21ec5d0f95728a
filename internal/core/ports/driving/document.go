package driving

import (
	"context"

	"github.com/documind-labs/documind-cli/internal/core/domain"
)

// DocumentService manages the per-owner document registry.
type DocumentService interface {
	// List returns all documents registered for an owner.
	List(ctx context.Context, owner string) ([]domain.Document, error)

	// Get retrieves one document record.
	Get(ctx context.Context, owner, docID string) (*domain.Document, error)

	// Delete removes a document's registry record and every chunk it
	// owns from the vector index.
	Delete(ctx context.Context, owner, docID string) error
}
