package cli

import (
	"context"
	"time"

	"github.com/documind-labs/documind-cli/internal/core/domain"
)

// --- mock services wired in by setupTestServices ---

type mockIngestionService struct {
	result   *domain.IngestResult
	err      error
	requests []domain.IngestRequest
}

func (m *mockIngestionService) Ingest(_ context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.IngestResult{DocID: "doc-test", ChunksCreated: 2}, nil
}

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

type mockGenerationService struct {
	tokens []string
	err    error
}

func (m *mockGenerationService) Stream(
	_ context.Context, _ string, _ []domain.Passage,
) <-chan domain.StreamEvent {
	events := make(chan domain.StreamEvent, len(m.tokens)+1)
	for _, token := range m.tokens {
		events <- domain.TokenEvent(token)
	}
	if m.err != nil {
		events <- domain.ErrorEvent(m.err)
	} else {
		events <- domain.DoneEvent()
	}
	close(events)
	return events
}

func (m *mockGenerationService) Generate(
	_ context.Context, _ string, _ []domain.Passage,
) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	answer := ""
	for _, token := range m.tokens {
		answer += token
	}
	return answer, nil
}

type mockDocumentService struct {
	documents  []domain.Document
	document   *domain.Document
	err        error
	lastOwner  string
	deletedIDs []string
}

func (m *mockDocumentService) List(_ context.Context, owner string) ([]domain.Document, error) {
	m.lastOwner = owner
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, owner, _ string) (*domain.Document, error) {
	m.lastOwner = owner
	if m.err != nil {
		return nil, m.err
	}
	return m.document, nil
}

func (m *mockDocumentService) Delete(_ context.Context, owner, docID string) error {
	m.lastOwner = owner
	m.deletedIDs = append(m.deletedIDs, docID)
	return m.err
}

type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.settings != nil {
		return m.settings, nil
	}
	defaults := domain.DefaultAppSettings()
	return &defaults, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }

func (m *mockSettingsService) SetEmbeddingProvider(_ domain.AIProvider, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) SetLLMProvider(_ domain.AIProvider, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// testPassages is a small result set shared by search and ask tests.
var testPassages = []domain.Passage{
	{
		Content:  "Rotate credentials every ninety days.",
		DocID:    "doc-1",
		ChunkID:  "doc-1_chunk_0",
		Score:    0.92,
		Metadata: map[string]string{domain.MetaFilename: "security.md"},
	},
	{
		Content:  "Backups run nightly at two in the morning.",
		DocID:    "doc-2",
		ChunkID:  "doc-2_chunk_3",
		Score:    0.61,
		Metadata: map[string]string{domain.MetaFilename: "ops.txt"},
	},
}

// testDocument is a registry record used by documents tests.
var testDocument = domain.Document{
	ID:         "doc-1",
	Owner:      "default",
	Filename:   "security.md",
	FileSize:   1024,
	ChunkCount: 4,
	UploadedAt: time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC),
}

// setupTestServices installs mock services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	oldIngestion := ingestionService
	oldRetrieval := retrievalService
	oldGeneration := generationService
	oldDocument := documentService
	oldSettings := settingsService
	oldOwner := defaultOwner

	ingestionService = &mockIngestionService{}
	retrievalService = &mockRetrievalService{passages: testPassages}
	generationService = &mockGenerationService{tokens: []string{"Rotate ", "credentials."}}
	documentService = &mockDocumentService{documents: []domain.Document{testDocument}, document: &testDocument}
	settingsService = &mockSettingsService{}
	defaultOwner = "default"

	return func() {
		ingestionService = oldIngestion
		retrievalService = oldRetrieval
		generationService = oldGeneration
		documentService = oldDocument
		settingsService = oldSettings
		defaultOwner = oldOwner
	}
}
