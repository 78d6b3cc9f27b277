package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/satriahrh/widget-gateway/domain"
	"github.com/satriahrh/widget-gateway/utils/log"
	"go.uber.org/zap"
)

const (
	defaultElevenLabsBaseURL = "https://api.elevenlabs.io"
	chunkSize                = 4096
)

type elevenLabsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id,omitempty"`
}

// ElevenLabs is a domain.SpeechSynthesizer backed by the ElevenLabs
// streaming text-to-speech endpoint.
type ElevenLabs struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type Option func(*ElevenLabs)

func WithBaseURL(baseURL string) Option {
	return func(e *ElevenLabs) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			e.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the HTTP client. Its Timeout bounds the whole
// stream, so prefer transport-level timeouts for long audio.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(e *ElevenLabs) {
		if httpClient != nil {
			e.httpClient = httpClient
		}
	}
}

func NewElevenLabs(apiKey string, opts ...Option) (*ElevenLabs, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("elevenlabs: api_key must not be empty")
	}
	e := &ElevenLabs{
		apiKey:  apiKey,
		baseURL: defaultElevenLabsBaseURL,
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ResponseHeaderTimeout: 60 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *ElevenLabs) streamURL(voiceID, outputFormat string) string {
	u := e.baseURL + "/v1/text-to-speech/" + url.PathEscape(voiceID) + "/stream"
	if outputFormat != "" {
		u += "?output_format=" + url.QueryEscape(outputFormat)
	}
	return u
}

func (e *ElevenLabs) StreamSpeech(ctx context.Context, req domain.SpeechRequest) (<-chan domain.AudioChunk, error) {
	if req.VoiceID == "" {
		return nil, errors.New("elevenlabs: voice id must not be empty")
	}

	body, err := json.Marshal(elevenLabsRequest{Text: req.Text, ModelID: req.ModelID})
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.streamURL(req.VoiceID, req.OutputFormat), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")
	httpReq.Header.Set("xi-api-key", e.apiKey)

	res, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: request failed: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		defer func() { _ = res.Body.Close() }()
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("elevenlabs: status %d: %s", res.StatusCode, strings.TrimSpace(string(buf)))
	}

	out := make(chan domain.AudioChunk)
	go pump(ctx, res.Body, out)
	return out, nil
}

// pump forwards the body in order until EOF, a read error, or cancellation,
// then closes both the body and out.
func pump(ctx context.Context, body io.ReadCloser, out chan<- domain.AudioChunk) {
	defer close(out)
	defer func() { _ = body.Close() }()

	sent := 0
	for {
		buf := make([]byte, chunkSize)
		n, err := body.Read(buf)
		if n > 0 {
			select {
			case out <- domain.AudioChunk{Data: buf[:n]}:
				sent += n
			case <-ctx.Done():
				log.WithCtx(ctx).Debug("Speech stream cancelled", zap.Int("bytes_sent", sent))
				return
			}
		}
		if err == io.EOF {
			log.WithCtx(ctx).Debug("Speech stream complete", zap.Int("bytes_sent", sent))
			return
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			select {
			case out <- domain.AudioChunk{Err: fmt.Errorf("elevenlabs: reading audio: %w", err)}:
			case <-ctx.Done():
			}
			return
		}
	}
}
