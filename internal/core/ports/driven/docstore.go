package driven

import (
	"context"

	"github.com/documind-labs/documind-cli/internal/core/domain"
)

// DocumentStore persists the per-owner document registry.
// The vector index holds the chunks; this store records which
// documents exist so callers can list and delete them.
type DocumentStore interface {
	// SaveDocument stores a document record.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document owned by owner.
	// Returns domain.ErrNotFound when absent.
	GetDocument(ctx context.Context, owner, docID string) (*domain.Document, error)

	// ListDocuments returns all documents for an owner, newest first.
	ListDocuments(ctx context.Context, owner string) ([]domain.Document, error)

	// DeleteDocument removes a document record.
	// Returns domain.ErrNotFound when absent.
	DeleteDocument(ctx context.Context, owner, docID string) error
}
