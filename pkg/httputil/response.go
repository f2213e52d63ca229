package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	apperrors "github.com/shoply/shoply-api/pkg/errors"
	"github.com/shoply/shoply-api/pkg/logger"
	"github.com/shoply/shoply-api/pkg/validator"
)

// detailedErrors controls whether internal error chains appear in the
// operational log. On by default; the app disables it in production so
// internal identifiers stay out of shipped logs.
var detailedErrors atomic.Bool

func init() { detailedErrors.Store(true) }

// SetDetailedErrors toggles internal error detail in logs. Called once at
// startup from the configured environment.
func SetDetailedErrors(enabled bool) { detailedErrors.Store(enabled) }

// ErrorBody is the machine-readable error object nested in every error
// envelope.
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Path    string            `json:"path,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorEnvelope is the uniform error response shape:
// {"ok":false,"error":{"code":...,"message":...}}. Success shapes are
// route-specific and are not unified behind a single envelope.
type ErrorEnvelope struct {
	OK    bool      `json:"ok"`
	Error ErrorBody `json:"error"`
}

// statusWriter is satisfied by chi's WrapResponseWriter. It lets the error
// translator detect that a handler already started writing the response.
type statusWriter interface {
	Status() int
	BytesWritten() int
}

// WriteJSON writes a JSON response with the given status code.
// Headers are already sent if encoding fails, so the error is dropped.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteErrorBody writes an error envelope with the given status.
func WriteErrorBody(w http.ResponseWriter, status int, body ErrorBody) {
	WriteJSON(w, status, ErrorEnvelope{OK: false, Error: body})
}

// WriteError is the terminal error translator: every handler failure funnels
// through here. Status defaults to 500 unless the error carries one; the code
// defaults to INTERNAL_ERROR for 500s and UNKNOWN_ERROR otherwise; the message
// defaults to "Internal Server Error". If the response has already been
// partially transmitted the translator does not attempt a second write.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	status := http.StatusInternalServerError
	code := ""
	message := ""

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status != 0 {
			status = appErr.Status
		}
		code = appErr.Code
		message = appErr.Message
	} else {
		status = apperrors.HTTPStatus(err)
	}

	if code == "" {
		if status == http.StatusInternalServerError {
			code = "INTERNAL_ERROR"
		} else {
			code = "UNKNOWN_ERROR"
		}
	}
	if message == "" {
		message = "Internal Server Error"
	}

	if status == http.StatusInternalServerError {
		attrs := []any{
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		}
		if detailedErrors.Load() {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		l.ErrorContext(r.Context(), "internal error", attrs...)
	}

	// Double-send guard: if the handler already wrote part of the response,
	// a second WriteHeader would be a framework fault. Log and stop.
	if sw, ok := w.(statusWriter); ok && (sw.Status() != 0 || sw.BytesWritten() > 0) {
		l.WarnContext(r.Context(), "error after response started, skipping error body",
			slog.String("code", code),
			slog.Int("sent_status", sw.Status()),
		)
		return
	}

	WriteErrorBody(w, status, ErrorBody{Code: code, Message: message})
}

// WriteValidationError writes a validation failure as a 400 envelope with
// field-level messages when available.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteErrorBody(w, http.StatusBadRequest, ErrorBody{
			Code:    "VALIDATION_ERROR",
			Message: "request validation failed",
			Fields:  valErr.Fields(),
		})
		return
	}

	WriteErrorBody(w, http.StatusBadRequest, ErrorBody{
		Code:    "INVALID_INPUT",
		Message: err.Error(),
	})
}
