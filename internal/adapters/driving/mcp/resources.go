package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme prefixes every DocuMind resource URI.
const uriScheme = "documind://"

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "List of the user's ingested documents",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)
}

// docInfo is the JSON shape of one registry entry in the documents
// resource.
type docInfo struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunk_count"`
	UploadedAt string `json:"uploaded_at"`
}

// handleDocumentsResource serves the owner's registry as JSON. Without
// a document port the resource is an empty list rather than an error,
// so clients can always read it.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return jsonResource(req.Params.URI, "[]"), nil
	}

	docs, err := s.ports.Document.List(ctx, s.ports.Owner)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	infos := make([]docInfo, len(docs))
	for i, doc := range docs {
		infos[i] = docInfo{
			ID:         doc.ID,
			Filename:   doc.Filename,
			ChunkCount: doc.ChunkCount,
			UploadedAt: doc.UploadedAt.Format(time.RFC3339),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

func jsonResource(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}
