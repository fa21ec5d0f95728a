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

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// searchOverfetchCap bounds how many candidates a deduplicating search
// pulls from the index regardless of the requested result count.
const searchOverfetchCap = 50

// RetrievalService runs semantic search over one owner's namespace.
type RetrievalService struct {
	embeddingService driven.EmbeddingService
	vectorIndex      driven.VectorIndex
	retrieveTopK     int
	searchTopK       int
}

// NewRetrievalService creates a new retrieval service. The defaults
// apply when callers pass a non-positive TopK.
func NewRetrievalService(
	embeddingService driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	defaults domain.RetrievalSettings,
) *RetrievalService {
	return &RetrievalService{
		embeddingService: embeddingService,
		vectorIndex:      vectorIndex,
		retrieveTopK:     defaults.TopK,
		searchTopK:       defaults.SearchTopK,
	}
}

// Retrieve returns the nearest passages for a query, ordered nearest
// first. No deduplication is applied; this feeds answer generation
// where repeated context is acceptable.
func (s *RetrievalService) Retrieve(
	ctx context.Context, query, owner string, opts domain.RetrieveOptions,
) ([]domain.Passage, error) {
	topK := opts.TopK
	if topK <= 0 {
		topK = s.retrieveTopK
	}

	logger.Section("Retrieval")
	logger.Debug("Query: %q, owner=%s, topK=%d", query, owner, topK)

	return s.search(ctx, query, owner, topK, opts.DocIDs)
}

// SearchDocuments returns deduplicated passages ordered by descending
// score. It over-fetches from the index so that near-duplicate chunks
// do not crowd out distinct results.
func (s *RetrievalService) SearchDocuments(
	ctx context.Context, query, owner string, opts domain.RetrieveOptions,
) ([]domain.Passage, error) {
	topK := opts.TopK
	if topK <= 0 {
		topK = s.searchTopK
	}

	logger.Section("Search")
	logger.Debug("Query: %q, owner=%s, topK=%d", query, owner, topK)

	fetchK := topK * 2
	if fetchK > searchOverfetchCap {
		fetchK = searchOverfetchCap
	}

	passages, err := s.search(ctx, query, owner, fetchK, opts.DocIDs)
	if err != nil {
		return nil, err
	}

	deduplicated := deduplicatePassages(passages, defaultSimilarityThreshold)
	logger.Debug("Deduplication: %d -> %d passages", len(passages), len(deduplicated))

	if len(deduplicated) > topK {
		deduplicated = deduplicated[:topK]
	}

	logger.Info("Search results: %d", len(deduplicated))
	return deduplicated, nil
}

// search embeds the query, runs the index lookup and converts hits to
// scored passages. Distances map to scores as max(0, 1-distance), so a
// score of 1 is an exact match and 0 is unrelated.
func (s *RetrievalService) search(
	ctx context.Context, query, owner string, k int, docIDs []string,
) ([]domain.Passage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(owner) == "" {
		return nil, fmt.Errorf("owner is required: %w", domain.ErrInvalidInput)
	}

	embedding, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(embedding))

	var filter *driven.VectorFilter
	if len(docIDs) > 0 {
		filter = &driven.VectorFilter{DocIDs: docIDs}
		logger.Debug("Document filter: %v", docIDs)
	}

	hits, err := s.vectorIndex.Query(ctx, owner, embedding, k, filter)
	if err != nil {
		logger.Warn("Vector query failed: %v", err)
		return nil, fmt.Errorf("vector query: %w", err)
	}
	logger.Debug("Vector query: %d hits", len(hits))

	passages := make([]domain.Passage, len(hits))
	for i, hit := range hits {
		score := 1.0 - hit.Distance
		if score < 0 {
			score = 0
		}

		chunkID := hit.Metadata[domain.MetaChunkID]
		if chunkID == "" {
			chunkID = hit.ID
		}

		passages[i] = domain.Passage{
			Content:  hit.Content,
			DocID:    hit.Metadata[domain.MetaDocID],
			ChunkID:  chunkID,
			Score:    score,
			Metadata: hit.Metadata,
		}
	}

	return passages, nil
}
