// Package httpapi defines the uniform {error, result} response envelope and
// the echo error handler that renders every failure into it.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/physiocare/physiocare/internal/platform/apperr"
)

// Envelope is the uniform response body. Error and Result are mutually
// exclusive; Fields carries per-field messages on validation failures.
type Envelope struct {
	Error  *string           `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
	Result interface{}       `json:"result"`
}

// Result writes a success envelope with the given status.
func Result(c echo.Context, status int, result interface{}) error {
	return c.JSON(status, Envelope{Result: result})
}

// Fail writes an error envelope with the given status.
func Fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, Envelope{Error: &msg})
}

// FailFields writes a validation-error envelope carrying the field map.
func FailFields(c echo.Context, status int, fields map[string]string) error {
	msg := "validation failed"
	return c.JSON(status, Envelope{Error: &msg, Fields: fields})
}

// ErrorHandler returns an echo.HTTPErrorHandler that renders every error the
// framework sees (handler returns, middleware rejections, routing misses)
// into the envelope. Domain errors are translated by kind: FieldErrors → 400
// with the field map, ErrNotFound → 404, anything else → 500 with the
// error's detail included so the cause is never hidden from the caller.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		msg := err.Error()
		var fields map[string]string

		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			status = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		case apperr.AsFieldErrors(err) != nil:
			status = http.StatusBadRequest
			fields = apperr.AsFieldErrors(err)
			msg = "validation failed"
		case errors.Is(err, apperr.ErrNotFound):
			status = http.StatusNotFound
		}

		if status >= http.StatusInternalServerError {
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).
				Str("request_id", rid).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, Envelope{Error: &msg, Fields: fields})
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("write error response")
		}
	}
}
