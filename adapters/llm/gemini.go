package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/satriahrh/widget-gateway/domain"
)

// GeminiClient is a domain.TextGenerator backed by the Gemini API. The
// request model is passed through, so callers should send Gemini model names.
type GeminiClient struct {
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: api_key must not be empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1beta"},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

func (g *GeminiClient) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	contents, system := toGeminiContents(req.Messages)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens:   int32(req.MaxOutputTokens),
	}

	resp, err := g.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return domain.Completion{}, fmt.Errorf("gemini: content call: %w", err)
	}

	return domain.Completion{
		Text:  resp.Text(),
		Usage: usageFromGemini(resp.UsageMetadata),
	}, nil
}

// toGeminiContents folds system messages into a single system instruction and
// maps the rest onto user and model turns.
func toGeminiContents(messages []domain.ChatMessage) ([]*genai.Content, *genai.Content) {
	var (
		contents []*genai.Content
		system   []string
	)
	for _, msg := range messages {
		switch msg.Role {
		case domain.SystemRole:
			system = append(system, msg.Content)
		case domain.AssistantRole:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}
	if len(system) == 0 {
		return contents, nil
	}
	return contents, &genai.Content{Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}}}
}

func usageFromGemini(meta *genai.GenerateContentResponseUsageMetadata) domain.Usage {
	if meta == nil {
		return domain.Usage{}
	}
	return domain.Usage{
		PromptTokens:     int(meta.PromptTokenCount),
		CompletionTokens: int(meta.CandidatesTokenCount),
		TotalTokens:      int(meta.TotalTokenCount),
	}
}
