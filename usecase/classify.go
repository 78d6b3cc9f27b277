package usecase

import (
	"net/http"
	"strings"
)

// Endpoint names the operation that owns a request. It selects validation
// thresholds and the fallback error code.
type Endpoint string

const (
	EndpointChat      Endpoint = "chat"
	EndpointSummarize Endpoint = "summarize"
	EndpointDetails   Endpoint = "details"
	EndpointListen    Endpoint = "listen"
)

func (ep Endpoint) upper() string {
	return strings.ToUpper(string(ep))
}

// Classification is the externally visible mapping of a provider failure.
type Classification struct {
	Status  int
	Code    ErrorCode
	Message string
}

func (c Classification) toError(err error) *Error {
	return newError(c.Status, c.Code, c.Message, err)
}

// Classify maps a text-generation failure description to a category. Rules
// are checked in order and the first match wins; matching is case-insensitive.
func Classify(description string, ep Endpoint) Classification {
	d := strings.ToLower(description)
	switch {
	case strings.Contains(d, "api_key") || strings.Contains(d, "authentication"):
		return Classification{http.StatusInternalServerError, ErrorAuth, "API configuration error"}
	case strings.Contains(d, "rate") || strings.Contains(d, "quota"):
		return Classification{http.StatusTooManyRequests, ErrorRateLimit, "Rate limit exceeded. Please try again later."}
	case strings.Contains(d, "model"):
		return Classification{http.StatusBadRequest, ErrorModel, "Invalid model specified"}
	case strings.Contains(d, "maximum context length") || strings.Contains(d, "token"):
		return Classification{http.StatusBadRequest, ErrorTokenLimit, "Content too long. Please try with shorter text."}
	default:
		return Classification{
			Status:  http.StatusInternalServerError,
			Code:    FallbackCode(ep),
			Message: "Failed to process " + strings.ReplaceAll(string(ep), "_", " ") + " request",
		}
	}
}

// ClassifyListen maps a failure of either listen stage. Speech failures are
// recognised first; text-generation failures go through Classify.
func ClassifyListen(description string) Classification {
	d := strings.ToLower(description)
	switch {
	case strings.Contains(d, "elevenlabs") || strings.Contains(d, "voice"):
		return Classification{http.StatusInternalServerError, ErrorTTS, "Audio generation service unavailable"}
	case strings.Contains(d, "openai"):
		return Classify(description, EndpointListen)
	default:
		return Classification{http.StatusInternalServerError, FallbackCode(EndpointListen), "Failed to generate audio"}
	}
}
