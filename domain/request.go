package domain

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	MaxFieldLength = 4000

	DefaultChatModel   = "gpt-3.5-turbo"
	DefaultVoiceID     = "JBFqnCBsd6RMkjVDRZzb"
	DefaultVoiceModel  = "eleven_multilingual_v2"
	DefaultAudioFormat = "mp3_44100_128"
)

// ErrFieldTooLong is returned by CheckFields for oversized payload fields.
// An empty message is left to the endpoint validator.
var ErrFieldTooLong = errors.New("field exceeds maximum length")

// ChatRequest is the payload of the chat, summarize and details endpoints.
type ChatRequest struct {
	Message string  `json:"message"`
	Context *string `json:"context"`
	Model   string  `json:"model"`
}

// NewChatRequest returns a request with the defaults applied, ready to be
// decoded into.
func NewChatRequest() ChatRequest {
	return ChatRequest{Model: DefaultChatModel}
}

// CheckFields enforces the payload field constraints.
func (r ChatRequest) CheckFields() error {
	if err := checkMessage(r.Message); err != nil {
		return err
	}
	if r.Context != nil && utf8.RuneCountInString(*r.Context) > MaxFieldLength {
		return fmt.Errorf("context: %w", ErrFieldTooLong)
	}
	return nil
}

// ContextText returns the context, or "" when absent.
func (r ChatRequest) ContextText() string {
	if r.Context == nil {
		return ""
	}
	return *r.Context
}

// ListenRequest is the payload of the listen endpoint.
type ListenRequest struct {
	Message string `json:"message"`
	VoiceID string `json:"voice_id"`
	ModelID string `json:"model_id"`
}

func NewListenRequest() ListenRequest {
	return ListenRequest{VoiceID: DefaultVoiceID, ModelID: DefaultVoiceModel}
}

func (r ListenRequest) CheckFields() error {
	return checkMessage(r.Message)
}

func checkMessage(msg string) error {
	if utf8.RuneCountInString(msg) > MaxFieldLength {
		return fmt.Errorf("message: %w", ErrFieldTooLong)
	}
	return nil
}
