package mcp

import (
	"github.com/documind-labs/documind-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval finds relevant passages.
	Retrieval driving.RetrievalService

	// Generation produces grounded answers for the ask tool.
	Generation driving.GenerationService

	// Document exposes the document registry.
	Document driving.DocumentService

	// Owner is the namespace this server serves. One MCP server
	// instance is bound to exactly one owner.
	Owner string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	// Generation and Document are optional; the matching tools and
	// resources degrade when absent.
	return nil
}
