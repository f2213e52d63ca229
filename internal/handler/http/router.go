package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shoply/shoply-api/internal/auth"
	"github.com/shoply/shoply-api/internal/config"
	"github.com/shoply/shoply-api/internal/domain"
	"github.com/shoply/shoply-api/pkg/health"
	"github.com/shoply/shoply-api/pkg/httputil"
	"github.com/shoply/shoply-api/pkg/middleware"
)

// catalogCacheMaxAge is the Cache-Control max-age, in seconds, for the
// public catalog read routes.
const catalogCacheMaxAge = 60

// RouterDeps collects everything the router needs. Handlers own their
// services; the router only wires paths and middleware.
type RouterDeps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Products *ProductHandler
	Auth     *AuthHandler
	Cart     *CartHandler
	Orders   *OrderHandler
	Health   *HealthHandler
	Probes   *health.Handler
	AuthSvc  *auth.Service
}

// NewRouter builds the chi router with the full middleware chain and all
// API routes mounted under /api/v1.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   []string{deps.Config.CORSOrigin},
		AllowCredentials: true,
		Environment:      deps.Config.Environment,
	}))
	r.Use(middleware.Recovery(deps.Logger, deps.Config.Environment))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.RateLimit(deps.Config.RateLimitRPS, deps.Config.RateLimitBurst))

	r.NotFound(notFoundHandler)
	r.MethodNotAllowed(methodNotAllowedHandler)

	r.Get("/", deps.Health.Root)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health/live", deps.Probes.LivenessHandler())
	r.Get("/health/ready", deps.Probes.ReadinessHandler())

	requireAuth := middleware.Auth(validatorFor(deps.AuthSvc))
	requireAdmin := middleware.RequireRole(domain.RoleAdmin)
	jsonBody := func(next http.Handler) http.Handler {
		return middleware.MaxBody(deps.Config.BodyLimit)(ContentTypeJSON(next))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", deps.Health.Health)

		r.Route("/products", func(r chi.Router) {
			// Public catalog reads are cacheable by the storefront CDN.
			r.Group(func(r chi.Router) {
				r.Use(middleware.CacheControl(catalogCacheMaxAge))
				r.Get("/", deps.Products.List)
				// Registered before /{idOrSlug} so the literal segment wins.
				r.Get("/slug/{slug}", deps.Products.ResolveSlug)
				r.Get("/{idOrSlug}", deps.Products.Get)
			})

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, requireAdmin, jsonBody)
				r.Post("/", deps.Products.Create)
				r.Patch("/{id}", deps.Products.Update)
				r.Delete("/{id}", deps.Products.Delete)
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Use(jsonBody)
			r.Post("/register", deps.Auth.Register)
			r.Post("/login", deps.Auth.Login)
			r.Post("/refresh", deps.Auth.Refresh)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", deps.Cart.Get)
			r.With(jsonBody).Post("/items", deps.Cart.SetItem)
			r.Delete("/", deps.Cart.Clear)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(requireAuth)
			r.With(jsonBody).Post("/", deps.Orders.Place)
			r.Get("/", deps.Orders.List)
			r.Get("/{id}", deps.Orders.Get)
		})
	})

	return r
}

// validatorFor adapts the auth service's access token validation to the
// middleware hook without the middleware importing the auth package.
func validatorFor(svc *auth.Service) middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		claims, err := svc.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}, nil
	}
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusNotFound, map[string]any{
		"ok": false,
		"error": map[string]any{
			"code":    "NOT_FOUND",
			"message": "Route not found",
			// RequestURI keeps the query string, matching what the client sent.
			"path": r.URL.RequestURI(),
		},
	})
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusMethodNotAllowed, map[string]any{
		"ok": false,
		"error": map[string]any{
			"code":    "METHOD_NOT_ALLOWED",
			"message": "Method not allowed",
			"path":    r.URL.RequestURI(),
		},
	})
}
