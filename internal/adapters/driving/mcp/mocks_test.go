package mcp

import (
	"context"

	"github.com/documind-labs/documind-cli/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	passages  []domain.Passage
	err       error
	lastOwner string
	lastOpts  domain.RetrieveOptions
}

func (m *mockRetrievalService) Retrieve(
	_ context.Context, _, owner string, opts domain.RetrieveOptions,
) ([]domain.Passage, error) {
	m.lastOwner = owner
	m.lastOpts = opts
	return m.passages, m.err
}

func (m *mockRetrievalService) SearchDocuments(
	_ context.Context, _, owner string, opts domain.RetrieveOptions,
) ([]domain.Passage, error) {
	m.lastOwner = owner
	m.lastOpts = opts
	return m.passages, m.err
}

// mockGenerationService is a mock implementation of driving.GenerationService.
type mockGenerationService struct {
	answer       string
	err          error
	lastQuery    string
	lastPassages []domain.Passage
}

func (m *mockGenerationService) Stream(
	_ context.Context, query string, passages []domain.Passage,
) <-chan domain.StreamEvent {
	m.lastQuery = query
	m.lastPassages = passages

	events := make(chan domain.StreamEvent, 2)
	if m.err != nil {
		events <- domain.ErrorEvent(m.err)
	} else {
		events <- domain.TokenEvent(m.answer)
		events <- domain.DoneEvent()
	}
	close(events)
	return events
}

func (m *mockGenerationService) Generate(
	_ context.Context, query string, passages []domain.Passage,
) (string, error) {
	m.lastQuery = query
	m.lastPassages = passages
	return m.answer, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	err       error
	lastOwner string
}

func (m *mockDocumentService) List(_ context.Context, owner string) ([]domain.Document, error) {
	m.lastOwner = owner
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, owner, _ string) (*domain.Document, error) {
	m.lastOwner = owner
	return m.document, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, owner, _ string) error {
	m.lastOwner = owner
	return m.err
}
