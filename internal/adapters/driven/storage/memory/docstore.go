// Package memory provides an in-memory document registry, used by
// tests and ephemeral sessions; the sqlite adapter provides the
// persistent equivalent.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/documind-labs/documind-cli/internal/core/domain"
	"github.com/documind-labs/documind-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]map[string]domain.Document
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]map[string]domain.Document),
	}
}

// SaveDocument stores or updates a document record.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned, ok := s.documents[doc.Owner]
	if !ok {
		owned = make(map[string]domain.Document)
		s.documents[doc.Owner] = owned
	}
	owned[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document owned by owner.
func (s *DocumentStore) GetDocument(_ context.Context, owner, docID string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[owner][docID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns all documents for an owner, newest first.
func (s *DocumentStore) ListDocuments(_ context.Context, owner string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.Document, 0, len(s.documents[owner]))
	for _, doc := range s.documents[owner] {
		docs = append(docs, doc)
	}

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].UploadedAt.Equal(docs[j].UploadedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})

	return docs, nil
}

// DeleteDocument removes a document record.
func (s *DocumentStore) DeleteDocument(_ context.Context, owner, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := s.documents[owner]
	if _, ok := owned[docID]; !ok {
		return domain.ErrNotFound
	}
	delete(owned, docID)
	return nil
}
