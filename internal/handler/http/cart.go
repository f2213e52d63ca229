package http

import (
	"log/slog"
	"net/http"

	"github.com/shoply/shoply-api/internal/cart"
	"github.com/shoply/shoply-api/pkg/httputil"
	"github.com/shoply/shoply-api/pkg/middleware"
	"github.com/shoply/shoply-api/pkg/validator"
)

// CartHandler serves the authenticated cart endpoints.
type CartHandler struct {
	cart   *cart.Service
	logger *slog.Logger
}

func NewCartHandler(svc *cart.Service, logger *slog.Logger) *CartHandler {
	return &CartHandler{cart: svc, logger: logger}
}

// Get handles GET /api/v1/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	c, err := h.cart.Get(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, c)
}

type setItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

// SetItem handles POST /api/v1/cart/items. Quantity zero removes the line.
func (h *CartHandler) SetItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var input setItemRequest
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	c, err := h.cart.SetItem(r.Context(), userID, input.ProductID, input.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, c)
}

// Clear handles DELETE /api/v1/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := h.cart.Clear(r.Context(), userID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
