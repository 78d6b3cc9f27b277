package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/satriahrh/widget-gateway/domain"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

type openAIRequest struct {
	Model       string               `json:"model"`
	Messages    []domain.ChatMessage `json:"messages"`
	MaxTokens   int                  `json:"max_tokens,omitempty"`
	Temperature float64              `json:"temperature"`
}

type openAIResponse struct {
	Choices []struct {
		Message domain.ChatMessage `json:"message"`
	} `json:"choices"`
	Usage domain.Usage `json:"usage"`
}

type openAIErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// StatusError captures a non-2xx response. Its text carries the provider's
// own error message, type and code.
type StatusError struct {
	StatusCode int
	Message    string
	Type       string
	Code       string
}

func (e *StatusError) Error() string {
	if e.Type == "" && e.Code == "" {
		return fmt.Sprintf("openai: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("openai: status %d: %s (type=%s, code=%s)", e.StatusCode, e.Message, e.Type, e.Code)
}

func (e *StatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// OpenAIClient is a domain.TextGenerator backed by the Chat Completions API.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type Option func(*OpenAIClient)

func WithBaseURL(baseURL string) Option {
	return func(c *OpenAIClient) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *OpenAIClient) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func NewOpenAIClient(apiKey string, opts ...Option) (*OpenAIClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai: api_key must not be empty")
	}
	c := &OpenAIClient{
		apiKey:     apiKey,
		baseURL:    defaultOpenAIBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func chatURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	if strings.HasSuffix(base, "/v1") {
		return base + "/chat/completions"
	}
	return base + "/v1/chat/completions"
}

func (c *OpenAIClient) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	if req.Model == "" {
		return domain.Completion{}, errors.New("openai: model must not be empty")
	}

	body, err := json.Marshal(openAIRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxOutputTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return domain.Completion{}, fmt.Errorf("openai: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, chatURL(c.baseURL), bytes.NewReader(body))
	if err != nil {
		return domain.Completion{}, fmt.Errorf("openai: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.Completion{}, fmt.Errorf("openai: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return domain.Completion{}, newStatusError(res)
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return domain.Completion{}, fmt.Errorf("openai: read response body: %w", err)
	}
	var payload openAIResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.Completion{}, fmt.Errorf("openai: decode response: %w", err)
	}
	if len(payload.Choices) == 0 {
		return domain.Completion{}, errors.New("openai: no choices in response")
	}

	return domain.Completion{
		Text:  payload.Choices[0].Message.Content,
		Usage: payload.Usage,
	}, nil
}

func newStatusError(res *http.Response) *StatusError {
	buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	se := &StatusError{StatusCode: res.StatusCode, Message: strings.TrimSpace(string(buf))}

	var body openAIErrorBody
	if err := json.Unmarshal(buf, &body); err == nil && body.Error.Message != "" {
		se.Message = body.Error.Message
		se.Type = body.Error.Type
		if body.Error.Code != nil {
			se.Code = fmt.Sprint(body.Error.Code)
		}
	}
	return se
}
