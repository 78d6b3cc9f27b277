package usecase

import (
	"context"
	"io"
	"sync"

	"github.com/satriahrh/widget-gateway/domain"
)

// AudioStream is the single-use audio of one listen request. Chunks come out
// of Next in the order the synthesizer produced them.
type AudioStream struct {
	chunks <-chan domain.AudioChunk
	cancel context.CancelFunc

	first   []byte
	done    bool
	closing sync.Once
}

func newAudioStream(chunks <-chan domain.AudioChunk, cancel context.CancelFunc) *AudioStream {
	return &AudioStream{chunks: chunks, cancel: cancel}
}

// prime waits for the first chunk so that a failure before any audio exists
// can still be answered with an error response.
func (a *AudioStream) prime() error {
	first, err := a.Next()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	a.first = first
	return nil
}

// Next returns the next chunk, io.EOF once the audio is complete, or the
// synthesizer's error if it failed mid-stream.
func (a *AudioStream) Next() ([]byte, error) {
	if a.first != nil {
		b := a.first
		a.first = nil
		return b, nil
	}
	if a.done {
		return nil, io.EOF
	}
	for {
		chunk, ok := <-a.chunks
		if !ok {
			a.done = true
			return nil, io.EOF
		}
		if chunk.Err != nil {
			a.done = true
			return nil, chunk.Err
		}
		if len(chunk.Data) > 0 {
			return chunk.Data, nil
		}
	}
}

// Close stops the synthesizer. It is safe to call more than once.
func (a *AudioStream) Close() {
	a.closing.Do(a.cancel)
}
