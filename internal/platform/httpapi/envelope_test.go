package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/physiocare/physiocare/internal/platform/apperr"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestResult_Envelope(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Result(c, http.StatusOK, map[string]string{"token": "abc"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env := decodeEnvelope(t, rec)
	if env.Error != nil {
		t.Errorf("expected nil error, got %v", *env.Error)
	}
	if env.Result == nil {
		t.Error("expected result to be set")
	}
}

func runErrorHandler(t *testing.T, err error) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	logger := zerolog.New(os.Stderr)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(logger)(err, c)
	return rec, decodeEnvelope(t, rec)
}

func TestErrorHandler_HTTPError(t *testing.T) {
	rec, env := runErrorHandler(t, echo.NewHTTPError(http.StatusForbidden, "access not permitted"))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if env.Error == nil || *env.Error != "access not permitted" {
		t.Errorf("unexpected error message: %v", env.Error)
	}
	if env.Result != nil {
		t.Error("expected nil result")
	}
}

func TestErrorHandler_FieldErrors(t *testing.T) {
	fields := apperr.FieldErrors{"insuranceNumber": "Insurance number must be unique."}
	rec, env := runErrorHandler(t, fmt.Errorf("create patient: %w", fields))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if env.Fields["insuranceNumber"] != "Insurance number must be unique." {
		t.Errorf("expected field message, got %v", env.Fields)
	}
}

func TestErrorHandler_NotFound(t *testing.T) {
	rec, _ := runErrorHandler(t, fmt.Errorf("patient: %w", apperr.ErrNotFound))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestErrorHandler_InternalIncludesDetail(t *testing.T) {
	rec, env := runErrorHandler(t, errors.New("pool exhausted"))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if env.Error == nil || *env.Error != "pool exhausted" {
		t.Errorf("expected diagnostic detail, got %v", env.Error)
	}
}
