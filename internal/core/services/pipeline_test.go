package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memstorage "github.com/documind-labs/documind-cli/internal/adapters/driven/storage/memory"
	memvector "github.com/documind-labs/documind-cli/internal/adapters/driven/vector/memory"
	"github.com/documind-labs/documind-cli/internal/chunker"
	"github.com/documind-labs/documind-cli/internal/core/domain"
)

// vocabEmbedder maps text to word-count vectors over a fixed
// vocabulary, giving deterministic embeddings where shared words mean
// nearby vectors.
type vocabEmbedder struct {
	vocab []string
}

func (e *vocabEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, len(e.vocab))
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?")
		for i, v := range e.vocab {
			if word == v {
				vec[i]++
			}
		}
	}
	return vec, nil
}

func (e *vocabEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (e *vocabEmbedder) Dimensions() int            { return len(e.vocab) }
func (e *vocabEmbedder) ModelName() string          { return "vocab-test" }
func (e *vocabEmbedder) Ping(context.Context) error { return nil }
func (e *vocabEmbedder) Close() error               { return nil }

// TestPipeline_IngestRetrieveDelete runs the full flow against the
// in-memory adapters: ingest for two owners, retrieve with namespace
// isolation, then delete and verify the index and registry agree.
func TestPipeline_IngestRetrieveDelete(t *testing.T) {
	ctx := context.Background()

	embedder := &vocabEmbedder{vocab: []string{
		"deploy", "pipeline", "containers", "staging",
		"budget", "travel", "hiring", "review",
	}}
	vectorIndex := memvector.NewVectorIndex()
	docStore := memstorage.NewDocumentStore()

	splitter := chunker.New(chunker.WithTargetSize(200), chunker.WithOverlap(20))
	ingestion := NewIngestionService(splitter, embedder, vectorIndex, docStore)
	retrieval := NewRetrievalService(embedder, vectorIndex, domain.RetrievalSettings{TopK: 5, SearchTopK: 10})
	documents := NewDocumentService(docStore, vectorIndex)

	deployResult, err := ingestion.Ingest(ctx, domain.IngestRequest{
		Text:     "The deploy pipeline builds containers and ships them to staging.",
		Owner:    "alice",
		Filename: "deploy.md",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, deployResult.ChunksCreated)

	_, err = ingestion.Ingest(ctx, domain.IngestRequest{
		Text:     "Quarterly budget review covers travel costs and hiring plans.",
		Owner:    "alice",
		Filename: "budget.md",
	})
	require.NoError(t, err)

	_, err = ingestion.Ingest(ctx, domain.IngestRequest{
		Text:     "Bob keeps his own budget review notes here.",
		Owner:    "bob",
		Filename: "private.md",
	})
	require.NoError(t, err)

	t.Run("retrieve ranks by relevance", func(t *testing.T) {
		passages, err := retrieval.Retrieve(ctx, "deploy containers to staging", "alice", domain.RetrieveOptions{})
		require.NoError(t, err)
		require.NotEmpty(t, passages)

		assert.Equal(t, deployResult.DocID, passages[0].DocID)
		assert.Equal(t, "deploy.md", passages[0].Filename())
		assert.Greater(t, passages[0].Score, 0.0)
	})

	t.Run("owners are isolated", func(t *testing.T) {
		passages, err := retrieval.Retrieve(ctx, "budget review", "bob", domain.RetrieveOptions{})
		require.NoError(t, err)
		require.Len(t, passages, 1)
		assert.Equal(t, "private.md", passages[0].Filename())
	})

	t.Run("registry lists ingested documents", func(t *testing.T) {
		docs, err := documents.List(ctx, "alice")
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("delete removes registry row and vectors", func(t *testing.T) {
		require.NoError(t, documents.Delete(ctx, "alice", deployResult.DocID))

		_, err := documents.Get(ctx, "alice", deployResult.DocID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		passages, err := retrieval.Retrieve(ctx, "deploy containers to staging", "alice", domain.RetrieveOptions{})
		require.NoError(t, err)
		for _, p := range passages {
			assert.NotEqual(t, deployResult.DocID, p.DocID)
		}

		count, err := vectorIndex.Count(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}
