package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/satriahrh/widget-gateway/adapters/http"
	"github.com/satriahrh/widget-gateway/adapters/llm"
	"github.com/satriahrh/widget-gateway/adapters/tts"
	"github.com/satriahrh/widget-gateway/config"
	"github.com/satriahrh/widget-gateway/domain"
	"github.com/satriahrh/widget-gateway/usecase"
	"github.com/satriahrh/widget-gateway/utils/log"
)

func main() {
	_ = gotenv.Load()
	defer log.Sync()

	logger := log.With(zap.String("service", "widget-gateway"))

	cfg, err := config.Load(os.Getenv("GATEWAY_CONFIG"))
	if err != nil {
		logger.Fatal("Loading configuration", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	text, err := newTextGenerator(ctx, cfg.Text)
	if err != nil {
		logger.Fatal("Creating text provider", zap.Error(err))
	}
	speech, err := newSpeechSynthesizer(ctx, cfg.Speech)
	if err != nil {
		logger.Fatal("Creating speech provider", zap.Error(err))
	}

	svc, err := usecase.NewGatewayService(text, speech, usecase.WithListenSummaryModel(cfg.Text.ListenSummaryModel))
	if err != nil {
		logger.Fatal("Creating gateway service", zap.Error(err))
	}

	handler, err := http.NewHandler(svc,
		http.WithDefaultModel(cfg.Text.DefaultModel),
		http.WithHealthCheck(cfg.Validate),
		http.WithVersion(config.Version),
	)
	if err != nil {
		logger.Fatal("Creating HTTP handler", zap.Error(err))
	}

	e := http.NewServer(handler, http.ServerConfig{BodyLimit: cfg.Server.BodyLimit})

	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server",
			zap.String("addr", addr),
			zap.String("text_provider", cfg.Text.Provider),
			zap.String("speech_provider", cfg.Speech.Provider))
		logger.Info("Available endpoints",
			zap.Strings("routes", []string{
				"GET  /health",
				"POST /api/chat",
				"POST /api/summarize",
				"POST /api/details",
				"POST /api/listen",
			}))
		if err := e.Start(addr); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logger.Fatal("Server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newTextGenerator(ctx context.Context, cfg config.TextConfig) (domain.TextGenerator, error) {
	switch cfg.Provider {
	case config.TextProviderOpenAI:
		return llm.NewOpenAIClient(cfg.OpenAIAPIKey,
			llm.WithBaseURL(cfg.OpenAIBaseURL),
			llm.WithHTTPClient(&nethttp.Client{Timeout: cfg.Timeout}),
		)
	case config.TextProviderGemini:
		return llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
	default:
		return nil, fmt.Errorf("unknown text provider %q", cfg.Provider)
	}
}

func newSpeechSynthesizer(ctx context.Context, cfg config.SpeechConfig) (domain.SpeechSynthesizer, error) {
	switch cfg.Provider {
	case config.SpeechProviderElevenLabs:
		return tts.NewElevenLabs(cfg.ElevenLabsAPIKey,
			tts.WithBaseURL(cfg.ElevenLabsBaseURL),
			tts.WithHTTPClient(&nethttp.Client{
				Transport: &nethttp.Transport{
					Proxy:                 nethttp.ProxyFromEnvironment,
					ResponseHeaderTimeout: cfg.Timeout,
				},
			}),
		)
	case config.SpeechProviderGoogle:
		return tts.NewGoogleTTS(ctx, cfg.GoogleAPIKey)
	default:
		return nil, fmt.Errorf("unknown speech provider %q", cfg.Provider)
	}
}
