package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/documind-labs/documind-cli/internal/core/domain"
)

func readResourceRequest(uri string) *sdk.ReadResourceRequest {
	req := &sdk.ReadResourceRequest{}
	req.Params = &sdk.ReadResourceParams{URI: uri}
	return req
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists documents as JSON", func(t *testing.T) {
		mockDocs := &mockDocumentService{
			documents: []domain.Document{
				{
					ID:         "doc-1",
					Owner:      "alice",
					Filename:   "notes.txt",
					ChunkCount: 4,
					UploadedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
				},
			},
		}

		ports := &Ports{
			Retrieval: &mockRetrievalService{},
			Document:  mockDocs,
			Owner:     "alice",
		}
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, readResourceRequest(uriScheme+"documents"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"doc-1"`)
		assert.Contains(t, result.Contents[0].Text, `"notes.txt"`)
		assert.Contains(t, result.Contents[0].Text, `"chunk_count": 4`)
		assert.Equal(t, "alice", mockDocs.lastOwner)
	})

	t.Run("nil document service returns empty list", func(t *testing.T) {
		ports := &Ports{Retrieval: &mockRetrievalService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, readResourceRequest(uriScheme+"documents"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("list failure surfaces", func(t *testing.T) {
		ports := &Ports{
			Retrieval: &mockRetrievalService{},
			Document:  &mockDocumentService{err: errors.New("db closed")},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleDocumentsResource(ctx, readResourceRequest(uriScheme+"documents"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "db closed")
	})
}
