package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mapLookup(env map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, "8000", cfg.Server.Port)
	require.Equal(t, "1M", cfg.Server.BodyLimit)
	require.Equal(t, TextProviderOpenAI, cfg.Text.Provider)
	require.Equal(t, SpeechProviderElevenLabs, cfg.Speech.Provider)
	require.Equal(t, "gpt-3.5-turbo", cfg.Text.DefaultModel)
	require.Equal(t, "gpt-3.5-turbo", cfg.Text.ListenSummaryModel)
	require.Equal(t, 60*time.Second, cfg.Text.Timeout)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = "9090"

[text]
provider = "gemini"
gemini_api_key = "g-key"
default_model = "gemini-2.0-flash"

[speech]
provider = "google"
google_api_key = "tts-key"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, "1M", cfg.Server.BodyLimit)
	require.Equal(t, TextProviderGemini, cfg.Text.Provider)
	require.Equal(t, "g-key", cfg.Text.GeminiAPIKey)
	require.Equal(t, "gemini-2.0-flash", cfg.Text.DefaultModel)
	require.Equal(t, "gpt-3.5-turbo", cfg.Text.ListenSummaryModel)
	require.Equal(t, SpeechProviderGoogle, cfg.Speech.Provider)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoad_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport = "), 0o600))
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse config file")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := applyEnv(&cfg, mapLookup(map[string]string{
		"PORT":                "7000",
		"OPENAI_API_KEY":      " sk-env ",
		"ELEVENLABS_API_KEY":  "xi-env",
		"ELEVENLABS_BASE_URL": "http://localhost:9999",
		"DEFAULT_MODEL":       "",
		"SHUTDOWN_TIMEOUT":    "3s",
		"PROVIDER_TIMEOUT":    "90s",
	}))
	require.NoError(t, err)

	require.Equal(t, "7000", cfg.Server.Port)
	require.Equal(t, "sk-env", cfg.Text.OpenAIAPIKey)
	require.Equal(t, "xi-env", cfg.Speech.ElevenLabsAPIKey)
	require.Equal(t, "http://localhost:9999", cfg.Speech.ElevenLabsBaseURL)
	require.Equal(t, "gpt-3.5-turbo", cfg.Text.DefaultModel)
	require.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal(t, 90*time.Second, cfg.Text.Timeout)
	require.Equal(t, 90*time.Second, cfg.Speech.Timeout)
}

func TestApplyEnv_BadDuration(t *testing.T) {
	cfg := Default()
	err := applyEnv(&cfg, mapLookup(map[string]string{"SHUTDOWN_TIMEOUT": "soon"}))
	require.Error(t, err)
	require.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := Default()
		cfg.Text.OpenAIAPIKey = "sk"
		cfg.Speech.ElevenLabsAPIKey = "xi"
		return cfg
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		missing bool
		wantErr bool
	}{
		{name: "complete", mutate: func(*Config) {}},
		{name: "no openai key", mutate: func(c *Config) { c.Text.OpenAIAPIKey = "" }, missing: true, wantErr: true},
		{name: "no elevenlabs key", mutate: func(c *Config) { c.Speech.ElevenLabsAPIKey = "" }, missing: true, wantErr: true},
		{name: "gemini without key", mutate: func(c *Config) { c.Text.Provider = TextProviderGemini }, missing: true, wantErr: true},
		{name: "google without key", mutate: func(c *Config) { c.Speech.Provider = SpeechProviderGoogle }, missing: true, wantErr: true},
		{name: "unknown text provider", mutate: func(c *Config) { c.Text.Provider = "llama" }, wantErr: true},
		{name: "unknown speech provider", mutate: func(c *Config) { c.Speech.Provider = "polly" }, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Equal(t, tc.missing, errors.Is(err, ErrMissingCredential))
		})
	}
}
