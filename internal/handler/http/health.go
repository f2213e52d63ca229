package http

import (
	"net/http"
	"time"

	"github.com/shoply/shoply-api/pkg/httputil"
)

const (
	serviceName = "shoply-api"
	apiVersion  = "v1"
)

// HealthHandler serves the storefront-facing health and root endpoints. The
// Kubernetes-style liveness/readiness probes live on separate paths.
type HealthHandler struct {
	environment string
	startedAt   time.Time
}

func NewHealthHandler(environment string) *HealthHandler {
	return &HealthHandler{
		environment: environment,
		startedAt:   time.Now().UTC(),
	}
}

// Health handles GET /api/v1/health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"service":   serviceName,
		"version":   apiVersion,
		"env":       h.environment,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// Root handles GET /.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": serviceName,
		"tip":     "see /api/v1/products",
		"version": apiVersion,
	})
}
