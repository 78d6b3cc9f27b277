package domain

import "context"

// SpeechSynthesizer abstracts any text-to-speech provider.
type SpeechSynthesizer interface {
	// StreamSpeech starts synthesis and returns the audio as a channel of
	// chunks in provider order. The channel is closed when the audio ends.
	// A failure after the first byte arrives as a final chunk with Err set.
	// Cancelling ctx stops the producer and releases the connection.
	StreamSpeech(ctx context.Context, req SpeechRequest) (<-chan AudioChunk, error)
}

type SpeechRequest struct {
	Text         string
	VoiceID      string
	ModelID      string
	OutputFormat string
}

type AudioChunk struct {
	Data []byte
	Err  error
}
