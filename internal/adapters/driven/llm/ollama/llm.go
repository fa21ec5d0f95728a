// Package ollama provides a streaming LLM service adapter using Ollama.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/documind-labs/documind-cli/internal/core/domain"
	"github.com/documind-labs/documind-cli/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the Ollama LLM service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the LLM model to use (default: llama3.2).
	Model string

	// Timeout bounds connection and ping requests (default: 30s).
	// Streaming responses are bounded by the caller's context instead.
	Timeout time.Duration
}

// LLMService provides streaming completions using a local Ollama server.
type LLMService struct {
	pingClient   *http.Client
	streamClient *http.Client
	baseURL      string
	model        string
}

// chatRequest is the Ollama /api/chat request format.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *chatOptions  `json:"options,omitempty"`
}

// chatMessage is the Ollama chat message format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatOptions carries sampling parameters.
type chatOptions struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// chatChunk is one NDJSON line of a streaming chat response.
type chatChunk struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

// NewLLMService creates a new Ollama LLM service.
func NewLLMService(cfg Config) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &LLMService{
		pingClient:   &http.Client{Timeout: cfg.Timeout},
		streamClient: &http.Client{},
		baseURL:      cfg.BaseURL,
		model:        cfg.Model,
	}
}

// ChatStream conducts a conversation and streams the reply token by
// token. Ollama emits newline-delimited JSON objects; the final one
// carries done=true. The returned channel always ends with a done or
// error event before closing.
func (s *LLMService) ChatStream(
	ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions,
) <-chan domain.StreamEvent {
	events := make(chan domain.StreamEvent)

	go func() {
		defer close(events)

		resp, err := s.startStream(ctx, messages, opts)
		if err != nil {
			events <- domain.ErrorEvent(fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err))
			return
		}
		defer resp.Body.Close()

		s.consumeStream(ctx, resp.Body, events)
	}()

	return events
}

// startStream sends the streaming chat request.
func (s *LLMService) startStream(
	ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions,
) (*http.Response, error) {
	chatMessages := make([]chatMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = chatMessage{Role: msg.Role, Content: msg.Content}
	}

	reqBody := chatRequest{
		Model:    s.model,
		Messages: chatMessages,
		Stream:   true,
	}
	if opts.MaxTokens > 0 || opts.Temperature > 0 {
		reqBody.Options = &chatOptions{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
		}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/api/chat",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
		}
		return nil, fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	return resp, nil
}

// consumeStream parses NDJSON lines and forwards token events until
// the stream finishes or fails.
func (s *LLMService) consumeStream(ctx context.Context, body io.Reader, events chan<- domain.StreamEvent) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var chunk chatChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			events <- domain.ErrorEvent(fmt.Errorf("decode stream chunk: %w", err))
			return
		}

		if chunk.Error != "" {
			events <- domain.ErrorEvent(fmt.Errorf("ollama error: %s", chunk.Error))
			return
		}

		if chunk.Message.Content != "" {
			select {
			case events <- domain.TokenEvent(chunk.Message.Content):
			case <-ctx.Done():
				events <- domain.ErrorEvent(ctx.Err())
				return
			}
		}

		if chunk.Done {
			events <- domain.DoneEvent()
			return
		}
	}

	if err := scanner.Err(); err != nil {
		events <- domain.ErrorEvent(fmt.Errorf("read stream: %w", err))
		return
	}

	// The stream closed without a done marker; treat the answer as
	// incomplete.
	events <- domain.ErrorEvent(fmt.Errorf("stream ended unexpectedly: %w", domain.ErrBackendUnavailable))
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /api/tags endpoint.
// This is a lightweight check that validates connectivity without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := s.pingClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("ollama: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("ollama: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	// HTTP clients don't need explicit cleanup
	return nil
}
