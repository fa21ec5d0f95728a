package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/documind-labs/documind-cli/internal/core/domain"
	"github.com/documind-labs/documind-cli/internal/core/ports/driven"
	"github.com/documind-labs/documind-cli/internal/core/ports/driving"
	"github.com/documind-labs/documind-cli/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// TextSplitter splits document text into ordered spans.
type TextSplitter interface {
	Split(text string) []string
}

// IngestionService chunks, embeds and indexes document text.
type IngestionService struct {
	splitter         TextSplitter
	embeddingService driven.EmbeddingService
	vectorIndex      driven.VectorIndex
	docStore         driven.DocumentStore
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(
	splitter TextSplitter,
	embeddingService driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	docStore driven.DocumentStore,
) *IngestionService {
	return &IngestionService{
		splitter:         splitter,
		embeddingService: embeddingService,
		vectorIndex:      vectorIndex,
		docStore:         docStore,
	}
}

// Ingest runs the full pipeline for one document: split the text into
// chunks, embed every chunk, store the vectors under the owner's
// namespace, then record the document in the registry. The vector
// write is atomic; any failure surfaces wrapped in
// domain.ErrIngestionFailed and leaves no chunks indexed.
func (s *IngestionService) Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	logger.Section("Ingestion")

	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrIngestionFailed, domain.ErrEmptyContent)
	}
	if strings.TrimSpace(req.Owner) == "" {
		return nil, fmt.Errorf("%w: owner is required: %w", domain.ErrIngestionFailed, domain.ErrInvalidInput)
	}

	docID := req.DocID
	if docID == "" {
		docID = uuid.New().String()
	}
	logger.Debug("Document: id=%s, owner=%s, filename=%q", docID, req.Owner, req.Filename)

	spans := s.splitter.Split(req.Text)
	if len(spans) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrIngestionFailed, domain.ErrNoChunksProduced)
	}
	logger.Debug("Split into %d chunks", len(spans))

	chunks := buildChunks(docID, req, spans)

	contents := make([]string, len(chunks))
	for i, chunk := range chunks {
		contents[i] = chunk.Content
	}

	embeddings, err := s.embeddingService.EmbedBatch(ctx, contents)
	if err != nil {
		logger.Warn("Chunk embedding failed: %v", err)
		return nil, fmt.Errorf("%w: embed chunks: %w", domain.ErrIngestionFailed, err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("%w: embedding count mismatch: got %d for %d chunks",
			domain.ErrIngestionFailed, len(embeddings), len(chunks))
	}

	entries := make([]driven.VectorEntry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = driven.VectorEntry{
			ID:        chunk.ID,
			Embedding: embeddings[i],
			Content:   chunk.Content,
			Metadata:  chunk.Metadata,
		}
	}

	if err := s.vectorIndex.Add(ctx, req.Owner, entries); err != nil {
		logger.Warn("Vector index write failed: %v", err)
		return nil, fmt.Errorf("%w: index chunks: %w", domain.ErrIngestionFailed, err)
	}

	if s.docStore != nil {
		doc := &domain.Document{
			ID:         docID,
			Owner:      req.Owner,
			Filename:   req.Filename,
			FileSize:   req.FileSize,
			ChunkCount: len(chunks),
			UploadedAt: time.Now().UTC(),
		}
		if err := s.docStore.SaveDocument(ctx, doc); err != nil {
			// Vectors are already indexed; roll them back so a registry
			// failure does not leave orphaned chunks behind.
			if delErr := s.vectorIndex.Delete(ctx, req.Owner, &driven.VectorFilter{DocIDs: []string{docID}}); delErr != nil {
				logger.Warn("Rollback of indexed chunks failed: %v", delErr)
			}
			return nil, fmt.Errorf("%w: save document record: %w", domain.ErrIngestionFailed, err)
		}
	}

	logger.Info("Ingested document %s: %d chunks", docID, len(chunks))

	return &domain.IngestResult{
		DocID:         docID,
		ChunksCreated: len(chunks),
	}, nil
}

// reservedMetaKeys are the pipeline-owned metadata keys; caller values
// under these keys are discarded even when the pipeline leaves the
// slot empty.
var reservedMetaKeys = map[string]bool{
	domain.MetaDocID:      true,
	domain.MetaChunkID:    true,
	domain.MetaChunkIndex: true,
	domain.MetaOwner:      true,
	domain.MetaFilename:   true,
}

// buildChunks assembles chunk records with their metadata. Reserved
// keys always win over caller-supplied metadata.
func buildChunks(docID string, req domain.IngestRequest, spans []string) []domain.Chunk {
	chunks := make([]domain.Chunk, len(spans))

	for i, span := range spans {
		chunkID := fmt.Sprintf("%s_chunk_%d", docID, i)

		metadata := make(map[string]string, len(req.Metadata)+5)
		for k, v := range req.Metadata {
			if reservedMetaKeys[k] {
				continue
			}
			metadata[k] = v
		}
		metadata[domain.MetaDocID] = docID
		metadata[domain.MetaChunkID] = chunkID
		metadata[domain.MetaChunkIndex] = strconv.Itoa(i)
		metadata[domain.MetaOwner] = req.Owner
		if req.Filename != "" {
			metadata[domain.MetaFilename] = req.Filename
		}

		chunks[i] = domain.Chunk{
			ID:       chunkID,
			DocID:    docID,
			Owner:    req.Owner,
			Index:    i,
			Content:  span,
			Metadata: metadata,
		}
	}

	return chunks
}
