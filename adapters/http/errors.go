package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/widget-gateway/usecase"
	"github.com/satriahrh/widget-gateway/utils/log"
)

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type dataEnvelope struct {
	Data any `json:"data"`
}

// ErrorHandler renders every error as an error envelope. Classified failures
// keep their status and code; provider details are never rendered.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := toEnvelope(err)
	if status >= http.StatusInternalServerError {
		log.WithCtx(c.Request().Context()).Error("Request error", zap.Int("status", status), zap.String("code", body.Code), zap.Error(err))
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, errorEnvelope{Error: body})
	}
	if writeErr != nil {
		log.WithCtx(c.Request().Context()).Warn("Writing error response", zap.Error(writeErr))
	}
}

func toEnvelope(err error) (int, errorBody) {
	var uerr *usecase.Error
	if errors.As(err, &uerr) {
		return uerr.Status, errorBody{Message: uerr.Message, Code: string(uerr.Code)}
	}

	var herr *echo.HTTPError
	if errors.As(err, &herr) {
		return herr.Code, errorBody{Message: httpErrorMessage(herr), Code: httpErrorCode(herr.Code)}
	}

	return http.StatusInternalServerError, errorBody{Message: "Internal server error", Code: "INTERNAL_ERROR"}
}

func httpErrorMessage(herr *echo.HTTPError) string {
	if msg, ok := herr.Message.(string); ok && msg != "" {
		return msg
	}
	return http.StatusText(herr.Code)
}

func httpErrorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(usecase.ErrorValidation)
	case http.StatusTooManyRequests:
		return string(usecase.ErrorRateLimit)
	}
	text := http.StatusText(status)
	if text == "" {
		return "HTTP_ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
