package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/widget-gateway/domain"
	"github.com/satriahrh/widget-gateway/usecase"
	"github.com/satriahrh/widget-gateway/utils/log"
)

const (
	HealthVersion = "1.0.0"

	audioContentType        = "audio/mpeg"
	audioContentDisposition = "inline; filename=summary_audio.mp3"
)

// Gateway is the pipeline behind the HTTP endpoints.
type Gateway interface {
	Chat(ctx context.Context, req domain.ChatRequest) (usecase.ChatResult, error)
	Summarize(ctx context.Context, req domain.ChatRequest) (usecase.AnalysisResult, error)
	Details(ctx context.Context, req domain.ChatRequest) (usecase.AnalysisResult, error)
	Listen(ctx context.Context, req domain.ListenRequest) (*usecase.AudioStream, error)
}

type Handler struct {
	gateway      Gateway
	defaultModel string
	healthCheck  func() error
	version      string
}

type HandlerOption func(*Handler)

// WithDefaultModel sets the model used when a request does not name one.
func WithDefaultModel(model string) HandlerOption {
	return func(h *Handler) {
		if model != "" {
			h.defaultModel = model
		}
	}
}

// WithHealthCheck sets the configuration check reported by /health.
func WithHealthCheck(check func() error) HandlerOption {
	return func(h *Handler) {
		h.healthCheck = check
	}
}

func WithVersion(version string) HandlerOption {
	return func(h *Handler) {
		if version != "" {
			h.version = version
		}
	}
}

func NewHandler(gateway Gateway, opts ...HandlerOption) (*Handler, error) {
	if gateway == nil {
		return nil, errors.New("http: gateway must not be nil")
	}
	h := &Handler{
		gateway:      gateway,
		defaultModel: domain.DefaultChatModel,
		version:      HealthVersion,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type chatData struct {
	Message string       `json:"message"`
	Model   string       `json:"model"`
	Usage   domain.Usage `json:"usage"`
}

type analysisData struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// HealthCheck never fails; a broken configuration is reported as unhealthy.
func (h *Handler) HealthCheck(c echo.Context) error {
	status := "healthy"
	if h.healthCheck != nil {
		if err := h.healthCheck(); err != nil {
			log.WithCtx(c.Request().Context()).Error("Health check failed", zap.Error(err))
			status = "unhealthy"
		}
	}
	return c.JSON(http.StatusOK, healthResponse{Status: status, Version: h.version})
}

func (h *Handler) Chat(c echo.Context) error {
	req, err := h.bindChatRequest(c)
	if err != nil {
		return err
	}
	out, err := h.gateway.Chat(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataEnvelope{Data: chatData{Message: out.Message, Model: out.Model, Usage: out.Usage}})
}

func (h *Handler) Summarize(c echo.Context) error {
	req, err := h.bindChatRequest(c)
	if err != nil {
		return err
	}
	out, err := h.gateway.Summarize(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataEnvelope{Data: analysisData{Message: out.Message, Type: out.Type}})
}

func (h *Handler) Details(c echo.Context) error {
	req, err := h.bindChatRequest(c)
	if err != nil {
		return err
	}
	out, err := h.gateway.Details(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataEnvelope{Data: analysisData{Message: out.Message, Type: out.Type}})
}

// Listen streams the synthesized summary as it arrives. Errors before the
// first audio byte become an error envelope; after that the body is cut short.
func (h *Handler) Listen(c echo.Context) error {
	req := domain.NewListenRequest()
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if err := req.CheckFields(); err != nil {
		return usecase.InvalidPayload(err)
	}

	ctx := c.Request().Context()
	stream, err := h.gateway.Listen(ctx, req)
	if err != nil {
		return err
	}
	defer stream.Close()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, audioContentType)
	res.Header().Set(echo.HeaderContentDisposition, audioContentDisposition)
	res.Header().Set("Cache-Control", "no-cache")
	res.WriteHeader(http.StatusOK)

	written := 0
	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			log.WithCtx(ctx).Info("Audio stream finished", zap.Int("bytes", written))
			return nil
		}
		if err != nil {
			log.WithCtx(ctx).Error("Error during audio streaming", zap.Int("bytes", written), zap.Error(err))
			return nil
		}
		n, err := res.Write(chunk)
		written += n
		if err != nil {
			log.WithCtx(ctx).Warn("Client went away during audio streaming", zap.Int("bytes", written), zap.Error(err))
			return nil
		}
		res.Flush()
	}
}

func (h *Handler) bindChatRequest(c echo.Context) (domain.ChatRequest, error) {
	req := domain.NewChatRequest()
	req.Model = h.defaultModel
	if err := bindBody(c, &req); err != nil {
		return domain.ChatRequest{}, err
	}
	if err := req.CheckFields(); err != nil {
		return domain.ChatRequest{}, usecase.InvalidPayload(err)
	}
	return req, nil
}

func bindBody(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		log.WithCtx(c.Request().Context()).Warn("Request payload rejected", zap.Error(err))
		return usecase.InvalidPayload(err)
	}
	return nil
}
