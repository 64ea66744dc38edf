// Package llm defines the completion provider interface and the message
// types the conversation engine exchanges with it.
package llm

import "context"

// Role is the role of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the input to a single inference call.
type CompletionRequest struct {
	// Model overrides the provider's default model when non-empty.
	Model string
	// Messages is the full ordered turn list, system turn first.
	Messages []Message
	// Temperature is the sampling temperature.
	Temperature float64
	// MaxTokens caps the generated reply length. Zero means provider default.
	MaxTokens int
}

// CompletionResponse is the output from the model.
type CompletionResponse struct {
	// Content is the assistant's reply text.
	Content string
	// FinishReason explains why the model stopped ("stop", "length", ...).
	FinishReason string
	// Usage holds token count information when the API reports it.
	Usage TokenUsage
}

// TokenUsage reports token consumption.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Provider is the interface all completion backends implement.
type Provider interface {
	// Complete sends the turn list to the model and returns the next
	// assistant reply.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
