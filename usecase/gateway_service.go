package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/satriahrh/widget-gateway/domain"
	"github.com/satriahrh/widget-gateway/utils/log"
	"go.uber.org/zap"
)

const (
	TypeSummary          = "summary"
	TypeDetailedAnalysis = "detailed_analysis"

	DefaultListenSummaryModel = "gpt-3.5-turbo"
)

// GatewayService runs the validate, prompt, invoke, classify pipeline of each
// endpoint. It holds no per-request state and is safe for concurrent use.
type GatewayService struct {
	text         domain.TextGenerator
	speech       domain.SpeechSynthesizer
	summaryModel string
}

type Option func(*GatewayService)

// WithListenSummaryModel fixes the model used to summarize before speech.
func WithListenSummaryModel(model string) Option {
	return func(s *GatewayService) {
		if model != "" {
			s.summaryModel = model
		}
	}
}

func NewGatewayService(text domain.TextGenerator, speech domain.SpeechSynthesizer, opts ...Option) (*GatewayService, error) {
	if text == nil {
		return nil, errors.New("usecase: text generator must not be nil")
	}
	if speech == nil {
		return nil, errors.New("usecase: speech synthesizer must not be nil")
	}
	s := &GatewayService{text: text, speech: speech, summaryModel: DefaultListenSummaryModel}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type ChatResult struct {
	Message string
	Model   string
	Usage   domain.Usage
}

type AnalysisResult struct {
	Message string
	Type    string
}

func (s *GatewayService) Chat(ctx context.Context, req domain.ChatRequest) (ChatResult, error) {
	start := time.Now()
	logger := log.WithCtx(ctx)
	logger.Info("Chat request",
		zap.String("model", req.Model),
		zap.Int("message_length", len([]rune(req.Message))),
		zap.Bool("has_context", req.ContextText() != ""))

	if verr := Validate(EndpointChat, req.Message); verr != nil {
		logger.Warn("Chat request rejected", zap.String("code", string(verr.Code)))
		return ChatResult{}, verr
	}

	messages := BuildMessages(IntentChat, req.Message, req.ContextText())
	logger.Info("Sending request to text provider", zap.String("model", req.Model), zap.Int("messages", len(messages)))

	out, err := s.complete(ctx, IntentChat, req.Model, messages)
	if err != nil {
		return ChatResult{}, s.fail(ctx, EndpointChat, start, err)
	}

	logger.Info("Chat request successful",
		zap.Duration("processing_time", time.Since(start)),
		zap.Int("total_tokens", out.Usage.TotalTokens),
		zap.Int("response_length", len([]rune(out.Text))))

	return ChatResult{Message: out.Text, Model: req.Model, Usage: out.Usage}, nil
}

func (s *GatewayService) Summarize(ctx context.Context, req domain.ChatRequest) (AnalysisResult, error) {
	start := time.Now()
	logger := log.WithCtx(ctx)
	logger.Info("Summarize request", zap.String("model", req.Model), zap.Int("content_length", len([]rune(req.Message))))

	if verr := Validate(EndpointSummarize, req.Message); verr != nil {
		logger.Warn("Summarize request rejected", zap.String("code", string(verr.Code)))
		return AnalysisResult{}, verr
	}

	out, err := s.complete(ctx, IntentSummarize, req.Model, BuildMessages(IntentSummarize, req.Message, ""))
	if err != nil {
		return AnalysisResult{}, s.fail(ctx, EndpointSummarize, start, err)
	}

	bullets := CountBullets(out.Text)
	logger.Info("Summarize request successful",
		zap.Duration("processing_time", time.Since(start)),
		zap.Int("total_tokens", out.Usage.TotalTokens),
		zap.Int("bullet_points", bullets))
	if bullets != 3 {
		logger.Warn("Summary doesn't contain exactly 3 bullet points", zap.Int("found", bullets))
	}

	return AnalysisResult{Message: out.Text, Type: TypeSummary}, nil
}

func (s *GatewayService) Details(ctx context.Context, req domain.ChatRequest) (AnalysisResult, error) {
	start := time.Now()
	logger := log.WithCtx(ctx)
	logger.Info("Details request", zap.String("model", req.Model), zap.Int("content_length", len([]rune(req.Message))))

	if verr := Validate(EndpointDetails, req.Message); verr != nil {
		logger.Warn("Details request rejected", zap.String("code", string(verr.Code)))
		return AnalysisResult{}, verr
	}

	out, err := s.complete(ctx, IntentDetailedAnalysis, req.Model, BuildMessages(IntentDetailedAnalysis, req.Message, ""))
	if err != nil {
		return AnalysisResult{}, s.fail(ctx, EndpointDetails, start, err)
	}

	sections := CountSections(out.Text)
	logger.Info("Details request successful",
		zap.Duration("processing_time", time.Since(start)),
		zap.Int("total_tokens", out.Usage.TotalTokens),
		zap.Int("sections", sections),
		zap.Int("response_length", len([]rune(out.Text))))
	if sections < ExpectedSections() {
		logger.Warn("Analysis may be incomplete", zap.Int("expected", ExpectedSections()), zap.Int("found", sections))
	}

	return AnalysisResult{Message: out.Text, Type: TypeDetailedAnalysis}, nil
}

// Listen summarizes the message and starts speech synthesis of the summary.
// The summary is fully generated before synthesis begins. The returned stream
// has already received its first chunk, so failures before any audio is
// produced are reported here and classified. The caller must Close it.
func (s *GatewayService) Listen(ctx context.Context, req domain.ListenRequest) (*AudioStream, error) {
	start := time.Now()
	logger := log.WithCtx(ctx)
	logger.Info("Listen request",
		zap.Int("content_length", len([]rune(req.Message))),
		zap.String("voice", req.VoiceID),
		zap.String("model", req.ModelID))

	if verr := Validate(EndpointListen, req.Message); verr != nil {
		logger.Warn("Listen request rejected", zap.String("code", string(verr.Code)))
		return nil, verr
	}

	logger.Info("Generating summary for speech", zap.String("model", s.summaryModel))
	summary, err := s.complete(ctx, IntentPreSpeechSummary, s.summaryModel, BuildMessages(IntentPreSpeechSummary, req.Message, ""))
	if err != nil {
		return nil, s.failListen(ctx, start, err)
	}
	logger.Info("Summary generated",
		zap.Duration("processing_time", time.Since(start)),
		zap.Int("total_tokens", summary.Usage.TotalTokens),
		zap.Int("summary_length", len([]rune(summary.Text))))

	logger.Info("Converting summary to audio", zap.String("voice", req.VoiceID))
	streamCtx, cancel := context.WithCancel(ctx)
	chunks, err := s.speech.StreamSpeech(streamCtx, domain.SpeechRequest{
		Text:         summary.Text,
		VoiceID:      req.VoiceID,
		ModelID:      req.ModelID,
		OutputFormat: domain.DefaultAudioFormat,
	})
	if err != nil {
		cancel()
		return nil, s.failListen(ctx, start, err)
	}

	stream := newAudioStream(chunks, cancel)
	if err := stream.prime(); err != nil {
		stream.Close()
		return nil, s.failListen(ctx, start, err)
	}

	logger.Info("Listen request streaming", zap.Duration("processing_time", time.Since(start)))
	return stream, nil
}

func (s *GatewayService) complete(ctx context.Context, intent Intent, model string, messages []domain.ChatMessage) (domain.Completion, error) {
	tuning := TuningFor(intent)
	return s.text.Complete(ctx, domain.CompletionRequest{
		Model:           model,
		Messages:        messages,
		MaxOutputTokens: tuning.MaxOutputTokens,
		Temperature:     tuning.Temperature,
	})
}

func (s *GatewayService) fail(ctx context.Context, ep Endpoint, start time.Time, err error) *Error {
	c := Classify(err.Error(), ep)
	logClassification(ctx, ep, start, c, err)
	return c.toError(err)
}

func (s *GatewayService) failListen(ctx context.Context, start time.Time, err error) *Error {
	c := ClassifyListen(err.Error())
	logClassification(ctx, EndpointListen, start, c, err)
	return c.toError(err)
}

// logClassification logs a provider failure once, at the severity of its
// classification.
func logClassification(ctx context.Context, ep Endpoint, start time.Time, c Classification, err error) {
	logger := log.WithCtx(ctx).With(
		zap.String("endpoint", string(ep)),
		zap.String("code", string(c.Code)),
		zap.Duration("processing_time", time.Since(start)),
		zap.Error(err),
	)
	switch c.Code {
	case ErrorAuth:
		logger.Error("Authentication error - check API key configuration")
	case ErrorRateLimit:
		logger.Warn("Rate limit exceeded")
	case ErrorTokenLimit:
		logger.Warn("Token limit exceeded")
	case ErrorModel:
		logger.Error("Invalid model specified")
	case ErrorTTS:
		logger.Error("Audio generation failed")
	default:
		logger.Error("Unexpected provider error")
	}
}
