package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/documind-labs/documind-cli/internal/core/domain"
	"github.com/documind-labs/documind-cli/internal/core/ports/driven"
)

// --- Mock implementations shared across service tests ---

// mockSplitter implements TextSplitter for testing.
type mockSplitter struct {
	spans []string
}

func (m *mockSplitter) Split(_ string) []string {
	return m.spans
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding  []float32
	embedErr   error
	batchErr   error
	embedCalls []string
	batchCalls [][]string
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.embedCalls = append(m.embedCalls, text)
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls = append(m.batchCalls, texts)
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = m.embedding
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int { return len(m.embedding) }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	hits        []driven.VectorHit
	queryErr    error
	addErr      error
	deleteErr   error
	added       []driven.VectorEntry
	addedOwner  string
	deleteCalls []*driven.VectorFilter
	lastK       int
	lastFilter  *driven.VectorFilter
}

func (m *mockVectorIndex) Add(_ context.Context, owner string, entries []driven.VectorEntry) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.addedOwner = owner
	m.added = append(m.added, entries...)
	return nil
}

func (m *mockVectorIndex) Query(
	_ context.Context, _ string, _ []float32, k int, filter *driven.VectorFilter,
) ([]driven.VectorHit, error) {
	m.lastK = k
	m.lastFilter = filter
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Delete(_ context.Context, _ string, filter *driven.VectorFilter) error {
	m.deleteCalls = append(m.deleteCalls, filter)
	return m.deleteErr
}

func (m *mockVectorIndex) Count(_ context.Context, _ string) (int, error) {
	return len(m.added), nil
}

func (m *mockVectorIndex) Close() error { return nil }

// mockDocumentStore implements driven.DocumentStore for testing.
type mockDocumentStore struct {
	mu        sync.Mutex
	docs      map[string]*domain.Document
	saveErr   error
	deleteErr error
}

func newMockDocumentStore() *mockDocumentStore {
	return &mockDocumentStore{docs: make(map[string]*domain.Document)}
}

func docKey(owner, docID string) string {
	return fmt.Sprintf("%s/%s", owner, docID)
}

func (m *mockDocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[docKey(doc.Owner, doc.ID)] = doc
	return nil
}

func (m *mockDocumentStore) GetDocument(_ context.Context, owner, docID string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[docKey(owner, docID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (m *mockDocumentStore) ListDocuments(_ context.Context, owner string) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var docs []domain.Document
	for _, doc := range m.docs {
		if doc.Owner == owner {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

func (m *mockDocumentStore) DeleteDocument(_ context.Context, owner, docID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := docKey(owner, docID)
	if _, ok := m.docs[key]; !ok {
		return domain.ErrNotFound
	}
	delete(m.docs, key)
	return nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	tokens       []string
	streamErr    error
	lastMessages []driven.ChatMessage
}

func (m *mockLLMService) ChatStream(
	_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions,
) <-chan domain.StreamEvent {
	m.lastMessages = messages

	events := make(chan domain.StreamEvent, len(m.tokens)+1)
	for _, token := range m.tokens {
		events <- domain.TokenEvent(token)
	}
	if m.streamErr != nil {
		events <- domain.ErrorEvent(m.streamErr)
	} else {
		events <- domain.DoneEvent()
	}
	close(events)
	return events
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

// mockConfigStore implements driven.ConfigStore backed by a map.
type mockConfigStore struct {
	data   map[string]any
	setErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{data: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	val, ok := m.data[key]
	return val, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if s, ok := m.data[key].(string); ok {
		return s
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

func (m *mockConfigStore) GetBool(key string) bool {
	b, _ := m.data[key].(bool)
	return b
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }

func (m *mockConfigStore) Load() error { return nil }

func (m *mockConfigStore) Path() string { return "/tmp/mock-config.toml" }
