package interfaces

import (
	"context"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// ChatOptions carries per-call generation settings. The pipeline uses two
// call shapes with different temperatures: structured-JSON extraction runs
// cold, free-text synthesis runs warmer. A nil options pointer falls back to
// the provider's configured default.
type ChatOptions struct {
	Temperature float32
}

// LLMService defines the interface for chat completions against a language
// model. Implementations use cloud APIs (Anthropic Claude, Google Gemini);
// the pipeline treats the capability as opaque text-in/text-out.
type LLMService interface {
	// Chat generates a completion response based on the conversation history.
	// The messages slice should contain the full context in chronological
	// order including any system prompt.
	Chat(ctx context.Context, messages []Message, opts *ChatOptions) (string, error)

	// HealthCheck verifies the LLM service is operational and can handle requests.
	HealthCheck(ctx context.Context) error

	// Close releases resources and performs cleanup operations.
	Close() error
}
