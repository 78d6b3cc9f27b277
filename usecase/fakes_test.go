package usecase

import (
	"context"
	"sync"

	"github.com/satriahrh/widget-gateway/domain"
)

type fakeText struct {
	mu   sync.Mutex
	reqs []domain.CompletionRequest
	out  domain.Completion
	err  error
}

func (f *fakeText) Complete(_ context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return f.out, f.err
}

func (f *fakeText) calls() []domain.CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.CompletionRequest(nil), f.reqs...)
}

// fakeSpeech yields chunks one at a time and then, if set, tailErr.
type fakeSpeech struct {
	mu      sync.Mutex
	reqs    []domain.SpeechRequest
	chunks  [][]byte
	err     error
	tailErr error
	stopped chan struct{}
}

func (f *fakeSpeech) StreamSpeech(ctx context.Context, req domain.SpeechRequest) (<-chan domain.AudioChunk, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	out := make(chan domain.AudioChunk)
	go func() {
		defer close(out)
		if f.stopped != nil {
			defer close(f.stopped)
		}
		for _, c := range f.chunks {
			select {
			case out <- domain.AudioChunk{Data: c}:
			case <-ctx.Done():
				return
			}
		}
		if f.tailErr != nil {
			select {
			case out <- domain.AudioChunk{Err: f.tailErr}:
			case <-ctx.Done():
			}
		}
	}()
	return out, nil
}

func (f *fakeSpeech) calls() []domain.SpeechRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.SpeechRequest(nil), f.reqs...)
}
