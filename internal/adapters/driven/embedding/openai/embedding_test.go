package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *EmbeddingService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewEmbeddingService(Config{
		APIKey:  "sk-test",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return svc
}

func TestNewEmbeddingService_RequiresAPIKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestNewEmbeddingService_ResolvesDimensions(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want int
	}{
		{"default model", Config{APIKey: "sk-test"}, 1536},
		{"large model", Config{APIKey: "sk-test", Model: "text-embedding-3-large"}, 3072},
		{"unknown model falls back", Config{APIKey: "sk-test", Model: "future-model"}, 1536},
		{"explicit override wins", Config{APIKey: "sk-test", Dimensions: 256}, 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewEmbeddingService(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, svc.Dimensions())
		})
	}
}

func TestModelDimensions(t *testing.T) {
	assert.Equal(t, 1536, ModelDimensions("text-embedding-3-small"))
	assert.Equal(t, 3072, ModelDimensions("text-embedding-3-large"))
	assert.Equal(t, 0, ModelDimensions("unknown"))
}

func TestEmbedBatch_OrdersByResponseIndex(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-3-small", req.Model)
		assert.Equal(t, []string{"first", "second"}, req.Input)

		// Data deliberately out of order; the index field is binding.
		fmt.Fprint(w, `{"data":[
			{"embedding":[0,1],"index":1},
			{"embedding":[1,0],"index":0}
		]}`)
	})

	embeddings, err := svc.EmbedBatch(context.Background(), []string{"first", "second"})

	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Equal(t, []float32{1, 0}, embeddings[0])
	assert.Equal(t, []float32{0, 1}, embeddings[1])
}

func TestEmbed_APIErrorSurfaces(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"invalid api key","type":"auth"}}`)
	})

	_, err := svc.Embed(context.Background(), "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestEmbedBatch_EmptyInput(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty input")
	})

	embeddings, err := svc.EmbedBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, embeddings)
}

func TestPing_SendsAPIKey(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, svc.Ping(context.Background()))
}

func TestPing_BadStatusFails(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	})

	err := svc.Ping(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
