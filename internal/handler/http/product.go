package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shoply/shoply-api/internal/catalog"
	"github.com/shoply/shoply-api/pkg/httputil"
	"github.com/shoply/shoply-api/pkg/pagination"
	"github.com/shoply/shoply-api/pkg/validator"
)

// ProductHandler serves the catalog endpoints.
type ProductHandler struct {
	catalog *catalog.Service
	logger  *slog.Logger
}

func NewProductHandler(svc *catalog.Service, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{catalog: svc, logger: logger}
}

// List handles GET /api/v1/products. Query params: page, limit, q. Junk
// values degrade to defaults rather than erroring; limit is clamped.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	result, err := h.catalog.List(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// ResolveSlug handles GET /api/v1/products/slug/{slug}. The slug is expanded
// into zero-padded candidates before the lookup.
func (h *ProductHandler) ResolveSlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	card, err := h.catalog.Resolve(r.Context(), slug)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"product": card,
	})
}

// Get handles GET /api/v1/products/{idOrSlug}. A UUID path segment is looked
// up by ID, anything else by exact slug. No candidate expansion here; the
// /slug/ route is the forgiving one.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")

	var err error
	if _, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		product, getErr := h.catalog.GetByID(r.Context(), idOrSlug)
		if getErr == nil {
			httputil.WriteJSON(w, http.StatusOK, product)
			return
		}
		err = getErr
	} else {
		product, getErr := h.catalog.GetBySlugExact(r.Context(), idOrSlug)
		if getErr == nil {
			httputil.WriteJSON(w, http.StatusOK, product)
			return
		}
		err = getErr
	}

	httputil.WriteError(w, r, err, h.logger)
}

// Create handles POST /api/v1/products (admin).
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input catalog.CreateInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.catalog.Create(r.Context(), &input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, product)
}

// Update handles PATCH /api/v1/products/{id} (admin). Partial update: absent
// fields keep their stored values.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input catalog.UpdateInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.catalog.Update(r.Context(), id, &input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/v1/products/{id} (admin).
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
