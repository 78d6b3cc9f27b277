package domain

import "context"

// TextGenerator abstracts any chat-completion provider.
type TextGenerator interface {
	// Complete sends the messages to the model and returns the full reply.
	// Implementations do not retry.
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

type CompletionRequest struct {
	Model           string
	Messages        []ChatMessage
	MaxOutputTokens int
	Temperature     float64
}

type Completion struct {
	Text  string
	Usage Usage
}

// Usage is passed through from the provider as reported.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	UserRole      Role = "user"
	AssistantRole Role = "assistant"
	SystemRole    Role = "system"
)
