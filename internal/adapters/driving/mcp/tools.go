package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/documind-labs/documind-cli/internal/core/domain"
)

// SearchInput is the input schema for the search_documents tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query to find relevant passages"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of passages to return"`
}

// SearchOutput is the output schema for the search_documents tool.
type SearchOutput struct {
	Results []PassageOutput `json:"results"`
	Count   int             `json:"count"`
}

// PassageOutput represents a single retrieved passage.
type PassageOutput struct {
	DocID    string  `json:"doc_id"`
	ChunkID  string  `json:"chunk_id"`
	Filename string  `json:"filename"`
	Score    float64 `json:"score"`
	Content  string  `json:"content"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the documents"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of passages to ground the answer on"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string          `json:"answer"`
	Sources []PassageOutput `json:"sources"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_documents",
		Description: "Search the user's documents for passages relevant to a query",
	}, s.handleSearch)

	if s.ports.Generation != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a question using only the user's documents",
		}, s.handleAsk)
	}
}

// handleSearch handles the search_documents tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	passages, err := s.ports.Retrieval.SearchDocuments(ctx, input.Query, s.ports.Owner,
		domain.RetrieveOptions{TopK: input.TopK})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: toPassageOutputs(passages),
		Count:   len(passages),
	}
	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	passages, err := s.ports.Retrieval.Retrieve(ctx, input.Question, s.ports.Owner,
		domain.RetrieveOptions{TopK: input.TopK})
	if err != nil {
		return nil, AskOutput{}, fmt.Errorf("retrieval failed: %w", err)
	}

	answer, err := s.ports.Generation.Generate(ctx, input.Question, passages)
	if err != nil {
		// No relevant documents is an answerable condition, not a
		// protocol failure.
		if errors.Is(err, domain.ErrNotFound) {
			return nil, AskOutput{
				Answer:  "No relevant documents found for the query.",
				Sources: []PassageOutput{},
			}, nil
		}
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:  answer,
		Sources: toPassageOutputs(passages),
	}, nil
}

func toPassageOutputs(passages []domain.Passage) []PassageOutput {
	outputs := make([]PassageOutput, len(passages))
	for i, p := range passages {
		outputs[i] = PassageOutput{
			DocID:    p.DocID,
			ChunkID:  p.ChunkID,
			Filename: p.Filename(),
			Score:    p.Score,
			Content:  p.Content,
		}
	}
	return outputs
}
