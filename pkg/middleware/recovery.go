package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Recovery converts panics into a 500 error envelope instead of crashing the
// server. It wraps the response writer itself, so it can tell whether the
// handler already started writing no matter where it sits in the chain; a
// panic after a partial write is logged and the connection is left to the
// server to tear down, never written to a second time. Stack traces are
// logged only outside production.
func Recovery(l *slog.Logger, environment string) func(http.Handler) http.Handler {
	logStack := environment != "production"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww, ok := w.(chimiddleware.WrapResponseWriter)
			if !ok {
				ww = chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			}

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				attrs := []any{
					slog.Any("panic", rec),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				}
				if logStack {
					attrs = append(attrs, slog.String("stack", string(debug.Stack())))
				}
				l.ErrorContext(r.Context(), "panic recovered", attrs...)

				if ww.Status() != 0 || ww.BytesWritten() > 0 {
					return
				}

				ww.Header().Set("Content-Type", "application/json")
				ww.WriteHeader(http.StatusInternalServerError)
				_, _ = ww.Write([]byte(`{"ok":false,"error":{"code":"INTERNAL_ERROR","message":"Internal Server Error"}}`))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
