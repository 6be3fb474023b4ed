// Package llm contains the model-provider clients used by the chat router.
package llm

import (
	"context"
)

// Role represents the originator of a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single message in a conversation history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// GenerationConfig holds the parameters controlling a completion request.
type GenerationConfig struct {
	// The model to use for the generation (e.g. "gpt-3.5-turbo").
	Model string
	// Controls randomness. A pointer distinguishes 0.0 from unset.
	Temperature *float32
	// Maximum number of tokens to generate.
	MaxTokens int
}

// GenerationResult holds the complete output of a model call.
type GenerationResult struct {
	Content string
}

// Client is the interface every model provider implements. One blocking call
// per user message; the router composes its reply from the complete result.
type Client interface {
	Generate(ctx context.Context, messages []Message, config *GenerationConfig) (*GenerationResult, error)
}
