package usecase

import (
	"net/http"
	"strings"
	"unicode/utf8"
)

type validationRule struct {
	minLength    int
	emptyMessage string
	shortMessage string
}

var validationRules = map[Endpoint]validationRule{
	EndpointChat: {
		emptyMessage: "Message cannot be empty",
	},
	EndpointSummarize: {
		minLength:    50,
		emptyMessage: "Content to summarize cannot be empty",
		shortMessage: "Content too short to summarize effectively",
	},
	EndpointDetails: {
		minLength:    100,
		emptyMessage: "Content to analyze cannot be empty",
		shortMessage: "Content too short for detailed analysis",
	},
	EndpointListen: {
		minLength:    50,
		emptyMessage: "Content for audio generation cannot be empty",
		shortMessage: "Content too short for audio generation",
	},
}

// MinLength returns the minimum message length of an endpoint, 0 if none.
func MinLength(ep Endpoint) int {
	return validationRules[ep].minLength
}

// Validate checks a message before any provider call. A blank message fails
// first; the minimum length is measured on the untrimmed message.
func Validate(ep Endpoint, message string) *Error {
	rule := validationRules[ep]
	if strings.TrimSpace(message) == "" {
		msg := rule.emptyMessage
		if msg == "" {
			msg = "Message cannot be empty"
		}
		return newError(http.StatusBadRequest, ErrorValidation, msg, nil)
	}
	if rule.minLength > 0 && utf8.RuneCountInString(message) < rule.minLength {
		return newError(http.StatusBadRequest, ErrorContentTooShort, rule.shortMessage, nil)
	}
	return nil
}
