// Package mcp provides an MCP (Model Context Protocol) server adapter
// for DocuMind. It lets AI assistants search and question a user's
// document corpus.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
