// Package config loads the gateway configuration from an optional TOML file
// and the environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	TextProviderOpenAI = "openai"
	TextProviderGemini = "gemini"

	SpeechProviderElevenLabs = "elevenlabs"
	SpeechProviderGoogle     = "google"

	Version = "1.0.0"
)

var ErrMissingCredential = errors.New("missing provider credential")

type ServerConfig struct {
	Port            string        `toml:"port"`
	BodyLimit       string        `toml:"body_limit"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

type TextConfig struct {
	Provider           string        `toml:"provider"`
	OpenAIAPIKey       string        `toml:"openai_api_key"`
	OpenAIBaseURL      string        `toml:"openai_base_url"`
	GeminiAPIKey       string        `toml:"gemini_api_key"`
	DefaultModel       string        `toml:"default_model"`
	ListenSummaryModel string        `toml:"listen_summary_model"`
	Timeout            time.Duration `toml:"timeout"`
}

type SpeechConfig struct {
	Provider          string        `toml:"provider"`
	ElevenLabsAPIKey  string        `toml:"elevenlabs_api_key"`
	ElevenLabsBaseURL string        `toml:"elevenlabs_base_url"`
	GoogleAPIKey      string        `toml:"google_api_key"`
	Timeout           time.Duration `toml:"timeout"`
}

type Config struct {
	Server ServerConfig `toml:"server"`
	Text   TextConfig   `toml:"text"`
	Speech SpeechConfig `toml:"speech"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8000",
			BodyLimit:       "1M",
			ShutdownTimeout: 10 * time.Second,
		},
		Text: TextConfig{
			Provider:           TextProviderOpenAI,
			DefaultModel:       "gpt-3.5-turbo",
			ListenSummaryModel: "gpt-3.5-turbo",
			Timeout:            60 * time.Second,
		},
		Speech: SpeechConfig{
			Provider: SpeechProviderElevenLabs,
			Timeout:  60 * time.Second,
		},
	}
}

// Load reads the TOML file at path, if path is not empty, on top of the
// defaults and then applies environment overrides. It does not validate.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parse %s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str("PORT", &cfg.Server.Port)
	str("BODY_LIMIT", &cfg.Server.BodyLimit)
	str("TEXT_PROVIDER", &cfg.Text.Provider)
	str("OPENAI_API_KEY", &cfg.Text.OpenAIAPIKey)
	str("OPENAI_BASE_URL", &cfg.Text.OpenAIBaseURL)
	str("GEMINI_API_KEY", &cfg.Text.GeminiAPIKey)
	str("DEFAULT_MODEL", &cfg.Text.DefaultModel)
	str("LISTEN_SUMMARY_MODEL", &cfg.Text.ListenSummaryModel)
	str("SPEECH_PROVIDER", &cfg.Speech.Provider)
	str("ELEVENLABS_API_KEY", &cfg.Speech.ElevenLabsAPIKey)
	str("ELEVENLABS_BASE_URL", &cfg.Speech.ElevenLabsBaseURL)
	str("GOOGLE_TTS_API_KEY", &cfg.Speech.GoogleAPIKey)

	if err := dur("SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout); err != nil {
		return err
	}
	if err := dur("PROVIDER_TIMEOUT", &cfg.Text.Timeout); err != nil {
		return err
	}
	return dur("PROVIDER_TIMEOUT", &cfg.Speech.Timeout)
}

// Validate reports the first missing credential of the selected providers or
// an unknown provider name.
func (c Config) Validate() error {
	switch c.Text.Provider {
	case TextProviderOpenAI:
		if c.Text.OpenAIAPIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY must be set", ErrMissingCredential)
		}
	case TextProviderGemini:
		if c.Text.GeminiAPIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY must be set", ErrMissingCredential)
		}
	default:
		return fmt.Errorf("unknown text provider %q", c.Text.Provider)
	}

	switch c.Speech.Provider {
	case SpeechProviderElevenLabs:
		if c.Speech.ElevenLabsAPIKey == "" {
			return fmt.Errorf("%w: ELEVENLABS_API_KEY must be set", ErrMissingCredential)
		}
	case SpeechProviderGoogle:
		if c.Speech.GoogleAPIKey == "" {
			return fmt.Errorf("%w: GOOGLE_TTS_API_KEY must be set", ErrMissingCredential)
		}
	default:
		return fmt.Errorf("unknown speech provider %q", c.Speech.Provider)
	}
	return nil
}
