package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/documind-labs/documind-cli/internal/core/domain"
	"github.com/documind-labs/documind-cli/internal/core/ports/driven"
	"github.com/documind-labs/documind-cli/internal/core/ports/driving"
	"github.com/documind-labs/documind-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages the per-owner document registry.
type DocumentService struct {
	docStore    driven.DocumentStore
	vectorIndex driven.VectorIndex
}

// NewDocumentService creates a new document service.
func NewDocumentService(docStore driven.DocumentStore, vectorIndex driven.VectorIndex) *DocumentService {
	return &DocumentService{
		docStore:    docStore,
		vectorIndex: vectorIndex,
	}
}

// List returns all documents registered for an owner, newest first.
func (s *DocumentService) List(ctx context.Context, owner string) ([]domain.Document, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, fmt.Errorf("owner is required: %w", domain.ErrInvalidInput)
	}
	return s.docStore.ListDocuments(ctx, owner)
}

// Get retrieves one document record.
func (s *DocumentService) Get(ctx context.Context, owner, docID string) (*domain.Document, error) {
	if strings.TrimSpace(owner) == "" || strings.TrimSpace(docID) == "" {
		return nil, fmt.Errorf("owner and document id are required: %w", domain.ErrInvalidInput)
	}
	return s.docStore.GetDocument(ctx, owner, docID)
}

// Delete removes a document's registry record and all of its chunks
// from the owner's vector namespace. The registry record goes first so
// a later index failure cannot resurrect the document in listings.
func (s *DocumentService) Delete(ctx context.Context, owner, docID string) error {
	if strings.TrimSpace(owner) == "" || strings.TrimSpace(docID) == "" {
		return fmt.Errorf("owner and document id are required: %w", domain.ErrInvalidInput)
	}

	if err := s.docStore.DeleteDocument(ctx, owner, docID); err != nil {
		return err
	}

	filter := &driven.VectorFilter{DocIDs: []string{docID}}
	if err := s.vectorIndex.Delete(ctx, owner, filter); err != nil {
		return fmt.Errorf("delete indexed chunks for %s: %w", docID, err)
	}

	logger.Info("Deleted document %s for owner %s", docID, owner)
	return nil
}
