// Package openai provides a streaming LLM service adapter using OpenAI API.
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/documind-labs/documind-cli/internal/core/domain"
	"github.com/documind-labs/documind-cli/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL  = "https://api.openai.com/v1"
	DefaultModel    = "gpt-4o-mini"
	DefaultTimeout  = 30 * time.Second
	sseDataPrefix   = "data: "
	sseDoneSentinel = "[DONE]"
)

// Config holds configuration for the OpenAI LLM service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the LLM model to use (default: gpt-4o-mini).
	Model string

	// Timeout bounds connection and ping requests (default: 30s).
	// Streaming responses are bounded by the caller's context instead,
	// since a healthy stream can legitimately run for minutes.
	Timeout time.Duration
}

// LLMService provides streaming completions using the OpenAI API.
type LLMService struct {
	// pingClient carries the configured timeout; streamClient must not
	// have one or long generations would be cut off mid-answer.
	pingClient   *http.Client
	streamClient *http.Client
	baseURL      string
	apiKey       string
	model        string
}

// chatRequest is the OpenAI /chat/completions request format.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream"`
}

// chatMessage is the OpenAI chat message format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// streamChunk is one SSE payload from a streaming completion.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewLLMService creates a new OpenAI LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
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
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
	}, nil
}

// ChatStream conducts a conversation and streams the reply token by
// token. The returned channel always ends with a done or error event
// before closing. Cancelling ctx aborts the request.
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

// startStream sends the streaming completion request and validates the
// response status.
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
	if opts.MaxTokens > 0 {
		reqBody.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		reqBody.Temperature = opts.Temperature
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("openai error (status %d): failed to read response", resp.StatusCode)
		}
		return nil, fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}

	return resp, nil
}

// consumeStream parses SSE lines and forwards token events until the
// stream finishes or fails.
func (s *LLMService) consumeStream(ctx context.Context, body io.Reader, events chan<- domain.StreamEvent) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, sseDataPrefix) {
			continue
		}

		payload := strings.TrimPrefix(line, sseDataPrefix)
		if payload == sseDoneSentinel {
			events <- domain.DoneEvent()
			return
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			events <- domain.ErrorEvent(fmt.Errorf("decode stream chunk: %w", err))
			return
		}

		if chunk.Error != nil {
			events <- domain.ErrorEvent(fmt.Errorf("openai error: %s", chunk.Error.Message))
			return
		}

		for _, choice := range chunk.Choices {
			if choice.Delta.Content != "" {
				select {
				case events <- domain.TokenEvent(choice.Delta.Content):
				case <-ctx.Done():
					events <- domain.ErrorEvent(ctx.Err())
					return
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		events <- domain.ErrorEvent(fmt.Errorf("read stream: %w", err))
		return
	}

	// Stream ended without the [DONE] sentinel: the connection dropped
	// mid-answer and the caller must not treat the output as complete.
	events <- domain.ErrorEvent(fmt.Errorf("stream ended unexpectedly: %w", domain.ErrBackendUnavailable))
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /models endpoint.
// This is a lightweight check that validates the API key without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("openai: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.pingClient.Do(req)
	if err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("openai: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("openai: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	// HTTP clients don't need explicit cleanup
	return nil
}
