package middleware

import (
	"net/http"
)

// CORSConfig holds configuration for the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins is the list of allowed origins. The storefront normally
	// supplies exactly one. If it contains "*", all origins are allowed
	// (only sensible in development, and incompatible with credentials).
	AllowedOrigins []string

	// AllowCredentials indicates whether cookies and Authorization headers
	// may be sent cross-origin.
	AllowCredentials bool

	// Environment controls wildcard behavior: wildcard origins are only
	// honored in "development" or when AllowedOrigins explicitly contains "*".
	Environment string
}

// CORS returns middleware that sets Cross-Origin Resource Sharing headers.
// Non-wildcard mode echoes the request Origin back only when it is in the
// allowed list, and adds Vary: Origin for caches.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	allowWildcard := cfg.Environment == "development" && len(cfg.AllowedOrigins) == 0
	originSet := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			allowWildcard = true
		}
		originSet[o] = struct{}{}
	}

	// Browsers reject credentialed requests against a wildcard origin, so
	// credentials force per-origin echo.
	if cfg.AllowCredentials {
		allowWildcard = false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if allowWildcard {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else if origin != "" {
				if _, ok := originSet[origin]; ok {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Vary", "Origin")
				}
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Correlation-ID")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if cfg.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
