package driven

import (
	"context"

	"github.com/documind-labs/documind-cli/internal/core/domain"
)

// LLMService streams chat completions from a language model backend
// (Ollama or OpenAI).
type LLMService interface {
	// ChatStream conducts a conversation and streams the reply. Events
	// arrive in backend order; failure surfaces as a terminal error
	// event on the returned channel, never as a silently truncated
	// stream. The channel closes after the terminal event. Cancelling
	// ctx aborts the underlying request.
	ChatStream(ctx context.Context, messages []ChatMessage, opts ChatOptions) <-chan domain.StreamEvent

	// ModelName names the model producing the completions.
	ModelName() string

	// Ping checks reachability without running inference.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	// Role is RoleSystem, RoleUser or RoleAssistant.
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions tunes a completion request. Zero values defer to the
// backend's defaults.
type ChatOptions struct {
	// MaxTokens caps the reply length.
	MaxTokens int

	// Temperature controls sampling randomness; 0 is deterministic.
	Temperature float64
}
