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

// Ensure GenerationService implements the interface.
var _ driving.GenerationService = (*GenerationService)(nil)

// systemPrompt constrains the model to the retrieved context.
const systemPrompt = `You are a helpful AI assistant that answers questions based on the provided context from documents.
Use only the information from the context to answer the question. If the context doesn't contain enough information,
say so clearly. Be concise and accurate.`

// GenerationService produces grounded answers from retrieved passages.
type GenerationService struct {
	llmService driven.LLMService
}

// NewGenerationService creates a new generation service. The LLM
// service may be nil; streams then fail with domain.ErrLLMUnavailable.
func NewGenerationService(llmService driven.LLMService) *GenerationService {
	return &GenerationService{llmService: llmService}
}

// Stream yields answer tokens as the model produces them. The channel
// always delivers a terminal event (done or error) before closing, so
// consumers can range over it without further coordination. Failures
// inside generation surface as in-stream error events rather than an
// up-front error return.
func (s *GenerationService) Stream(
	ctx context.Context, query string, passages []domain.Passage,
) <-chan domain.StreamEvent {
	if s.llmService == nil {
		return terminalError(domain.ErrLLMUnavailable)
	}
	if strings.TrimSpace(query) == "" {
		return terminalError(fmt.Errorf("query is required: %w", domain.ErrInvalidInput))
	}
	if len(passages) == 0 {
		return terminalError(fmt.Errorf("no relevant documents found for the query: %w", domain.ErrNotFound))
	}

	logger.Section("Generation")
	logger.Debug("Query: %q, context passages: %d", query, len(passages))

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: systemPrompt},
		{Role: driven.RoleUser, Content: buildUserPrompt(query, passages)},
	}

	return s.llmService.ChatStream(ctx, messages, driven.ChatOptions{})
}

// Generate accumulates the stream into a complete answer.
func (s *GenerationService) Generate(
	ctx context.Context, query string, passages []domain.Passage,
) (string, error) {
	var answer strings.Builder

	for event := range s.Stream(ctx, query, passages) {
		if event.Err != nil {
			return "", fmt.Errorf("generate answer: %w", event.Err)
		}
		answer.WriteString(event.Token)
	}

	return answer.String(), nil
}

// buildContext formats the passages into a numbered context block.
func buildContext(passages []domain.Passage) string {
	parts := make([]string, len(passages))
	for i, passage := range passages {
		parts[i] = fmt.Sprintf("[Document %d - %s]\n%s\n", i+1, passage.Filename(), passage.Content)
	}
	return strings.Join(parts, "\n")
}

// buildUserPrompt assembles the retrieval context and question.
func buildUserPrompt(query string, passages []domain.Passage) string {
	return fmt.Sprintf("Context from documents:\n%s\n\nQuestion: %s\n\nAnswer:", buildContext(passages), query)
}

// terminalError returns a closed-after-one-event stream carrying err.
func terminalError(err error) <-chan domain.StreamEvent {
	events := make(chan domain.StreamEvent, 1)
	events <- domain.ErrorEvent(err)
	close(events)
	return events
}
