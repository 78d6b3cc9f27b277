package tts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"

	"github.com/satriahrh/widget-gateway/domain"
)

type GoogleTTS struct {
	client *texttospeech.Client
}

func NewGoogleTTS(ctx context.Context, apiKey string) (*GoogleTTS, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google tts: api_key must not be empty")
	}
	client, err := texttospeech.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("google tts: creating client: %w", err)
	}
	return &GoogleTTS{client: client}, nil
}

// StreamSpeech synthesizes in one call and yields the audio as a single chunk.
// The voice id is a Google voice name such as "en-US-Neural2-D".
func (g *GoogleTTS) StreamSpeech(ctx context.Context, req domain.SpeechRequest) (<-chan domain.AudioChunk, error) {
	resp, err := g.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: req.Text},
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
		Voice: voiceSelection(req.VoiceID),
	})
	if err != nil {
		return nil, fmt.Errorf("google tts: voice synthesis: %w", err)
	}

	out := make(chan domain.AudioChunk, 1)
	out <- domain.AudioChunk{Data: resp.GetAudioContent()}
	close(out)
	return out, nil
}

func (g *GoogleTTS) Close() error {
	return g.client.Close()
}

// voiceSelection derives the language from a voice name like
// "en-US-Neural2-D". Ids that are not Google voice names fall back to the
// default en-US voice.
func voiceSelection(voice string) *texttospeechpb.VoiceSelectionParams {
	parts := strings.SplitN(voice, "-", 3)
	if len(parts) < 3 {
		return &texttospeechpb.VoiceSelectionParams{LanguageCode: "en-US"}
	}
	return &texttospeechpb.VoiceSelectionParams{
		LanguageCode: parts[0] + "-" + parts[1],
		Name:         voice,
	}
}
