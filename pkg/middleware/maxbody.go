package middleware

import "net/http"

// MaxBody caps the size of request bodies. Reads past the limit fail inside
// the JSON decoder, which surfaces as a 400 from the validation layer rather
// than an unbounded read. GETs pass through untouched.
func MaxBody(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
