package usecase

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name        string
		description string
		endpoint    Endpoint
		status      int
		code        ErrorCode
		message     string
	}{
		{
			name:        "invalid api key",
			description: "openai: status 401: Incorrect API key provided (type=invalid_request_error, code=invalid_api_key)",
			endpoint:    EndpointChat,
			status:      http.StatusInternalServerError,
			code:        ErrorAuth,
			message:     "API configuration error",
		},
		{
			name:        "authentication wins over rate",
			description: "Authentication failed while checking rate",
			endpoint:    EndpointChat,
			status:      http.StatusInternalServerError,
			code:        ErrorAuth,
		},
		{
			name:        "rate limit",
			description: "openai: status 429: Rate limit reached for requests",
			endpoint:    EndpointSummarize,
			status:      http.StatusTooManyRequests,
			code:        ErrorRateLimit,
			message:     "Rate limit exceeded. Please try again later.",
		},
		{
			name:        "quota",
			description: "You exceeded your current QUOTA",
			endpoint:    EndpointDetails,
			status:      http.StatusTooManyRequests,
			code:        ErrorRateLimit,
		},
		{
			name:        "model not found",
			description: "model not found",
			endpoint:    EndpointDetails,
			status:      http.StatusBadRequest,
			code:        ErrorModel,
			message:     "Invalid model specified",
		},
		{
			name:        "context length mentions model first",
			description: "This model's maximum context length is 4097 tokens",
			endpoint:    EndpointChat,
			status:      http.StatusBadRequest,
			code:        ErrorModel,
		},
		{
			name:        "maximum context length",
			description: "Request exceeds maximum context length",
			endpoint:    EndpointChat,
			status:      http.StatusBadRequest,
			code:        ErrorTokenLimit,
			message:     "Content too long. Please try with shorter text.",
		},
		{
			name:        "token",
			description: "too many TOKENS in prompt",
			endpoint:    EndpointSummarize,
			status:      http.StatusBadRequest,
			code:        ErrorTokenLimit,
		},
		{
			name:        "chat fallback",
			description: "connection reset by peer",
			endpoint:    EndpointChat,
			status:      http.StatusInternalServerError,
			code:        "CHAT_ERROR",
			message:     "Failed to process chat request",
		},
		{
			name:        "details fallback",
			description: "EOF",
			endpoint:    EndpointDetails,
			status:      http.StatusInternalServerError,
			code:        "DETAILS_ERROR",
			message:     "Failed to process details request",
		},
		{
			name:        "summarize fallback",
			description: "",
			endpoint:    EndpointSummarize,
			status:      http.StatusInternalServerError,
			code:        "SUMMARIZE_ERROR",
			message:     "Failed to process summarize request",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.description, tc.endpoint)
			require.Equal(t, tc.status, got.Status)
			require.Equal(t, tc.code, got.Code)
			if tc.message != "" {
				require.Equal(t, tc.message, got.Message)
			}
		})
	}
}

func TestClassify_IsDeterministic(t *testing.T) {
	first := Classify("rate limit and model trouble", EndpointChat)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Classify("rate limit and model trouble", EndpointChat))
	}
	require.Equal(t, ErrorRateLimit, first.Code)
}

func TestClassifyListen(t *testing.T) {
	cases := []struct {
		name        string
		description string
		status      int
		code        ErrorCode
		message     string
	}{
		{
			name:        "elevenlabs failure",
			description: "elevenlabs: status 401: invalid api_key",
			status:      http.StatusInternalServerError,
			code:        ErrorTTS,
			message:     "Audio generation service unavailable",
		},
		{
			name:        "voice failure",
			description: "google tts: voice synthesis: rpc error",
			status:      http.StatusInternalServerError,
			code:        ErrorTTS,
		},
		{
			name:        "openai rate limit",
			description: "openai: status 429: Rate limit reached",
			status:      http.StatusTooManyRequests,
			code:        ErrorRateLimit,
		},
		{
			name:        "openai auth",
			description: "OpenAI: status 401: invalid authentication",
			status:      http.StatusInternalServerError,
			code:        ErrorAuth,
		},
		{
			name:        "openai unclassified",
			description: "openai: request failed: connection refused",
			status:      http.StatusInternalServerError,
			code:        "LISTEN_ERROR",
			message:     "Failed to process listen request",
		},
		{
			name:        "unknown provider",
			description: "something broke",
			status:      http.StatusInternalServerError,
			code:        "LISTEN_ERROR",
			message:     "Failed to generate audio",
		},
		{
			name:        "speech checked before text",
			description: "openai voice rate",
			status:      http.StatusInternalServerError,
			code:        ErrorTTS,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyListen(tc.description)
			require.Equal(t, tc.status, got.Status)
			require.Equal(t, tc.code, got.Code)
			if tc.message != "" {
				require.Equal(t, tc.message, got.Message)
			}
		})
	}
}

func TestFallbackCode(t *testing.T) {
	require.Equal(t, ErrorCode("CHAT_ERROR"), FallbackCode(EndpointChat))
	require.Equal(t, ErrorCode("SUMMARIZE_ERROR"), FallbackCode(EndpointSummarize))
	require.Equal(t, ErrorCode("DETAILS_ERROR"), FallbackCode(EndpointDetails))
	require.Equal(t, ErrorCode("LISTEN_ERROR"), FallbackCode(EndpointListen))
}
