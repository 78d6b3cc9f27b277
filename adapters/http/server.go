package http

import (
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/satriahrh/widget-gateway/utils/log"
)

type ServerConfig struct {
	BodyLimit string
}

// NewServer wires middleware and routes around h.
func NewServer(h *Handler, cfg ServerConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: newRequestID,
		RequestIDHandler: func(c echo.Context, id string) {
			c.SetRequest(c.Request().WithContext(log.WithRequestID(c.Request().Context(), id)))
		},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger := log.With(
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("path", v.URIPath),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			switch {
			case v.Error == nil:
				logger.Info("Request completed")
			case v.Status < http.StatusInternalServerError:
				logger.Warn("Request rejected", zap.Error(v.Error))
			default:
				logger.Error("Request failed", zap.Error(v.Error))
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())

	// The widget is embedded on arbitrary sites.
	e.Use(allowRequestedMethod(corsMethods))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:                             []string{"*"},
		AllowMethods:                             corsMethods,
		AllowCredentials:                         true,
		UnsafeWildcardOriginWithAllowCredentials: true,
		MaxAge:                                   86400,
	}))

	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	e.GET("/health", h.HealthCheck)

	api := e.Group("/api")
	api.POST("/chat", h.Chat)
	api.POST("/summarize", h.Summarize)
	api.POST("/details", h.Details)
	api.POST("/listen", h.Listen)

	return e
}

var corsMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

// allowRequestedMethod adds the requested method to an accepted preflight
// response so that any method is allowed.
func allowRequestedMethod(methods []string) echo.MiddlewareFunc {
	listed := strings.Join(methods, ",")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			method := strings.ToUpper(strings.TrimSpace(req.Header.Get(echo.HeaderAccessControlRequestMethod)))
			if req.Method != http.MethodOptions || method == "" || slices.Contains(methods, method) {
				return next(c)
			}
			res := c.Response()
			res.Before(func() {
				if res.Header().Get(echo.HeaderAccessControlAllowMethods) != "" {
					res.Header().Set(echo.HeaderAccessControlAllowMethods, listed+","+method)
				}
			})
			return next(c)
		}
	}
}

func newRequestID() string {
	return uuid.NewString()[:8]
}
