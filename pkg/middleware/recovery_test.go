package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecovery_ConvertsPanicToEnvelope(t *testing.T) {
	h := Recovery(discardLogger(), "development")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t,
		`{"ok":false,"error":{"code":"INTERNAL_ERROR","message":"Internal Server Error"}}`,
		rec.Body.String())
}

func TestRecovery_NoSecondWriteAfterResponseStarted(t *testing.T) {
	h := Recovery(discardLogger(), "development")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"partial":`))
		panic("late failure")
	}))

	// A raw, unwrapped writer: Recovery must supply its own wrapping rather
	// than depend on an earlier middleware having done it.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"partial":`, rec.Body.String())
}

func TestRecovery_StackLoggedOutsideProductionOnly(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	var dev bytes.Buffer
	h := Recovery(slog.New(slog.NewJSONHandler(&dev, nil)), "development")(panicking)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, dev.String(), "stack")

	var prod bytes.Buffer
	h = Recovery(slog.New(slog.NewJSONHandler(&prod, nil)), "production")(panicking)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, prod.String(), "panic recovered")
	assert.NotContains(t, prod.String(), "stack")
}

func TestRecovery_PassthroughWithoutPanic(t *testing.T) {
	h := Recovery(discardLogger(), "development")(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
