package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shoply/shoply-api/internal/order"
	"github.com/shoply/shoply-api/pkg/httputil"
	"github.com/shoply/shoply-api/pkg/middleware"
	"github.com/shoply/shoply-api/pkg/pagination"
	"github.com/shoply/shoply-api/pkg/validator"
)

// OrderHandler serves the authenticated order endpoints.
type OrderHandler struct {
	orders *order.Service
	logger *slog.Logger
}

func NewOrderHandler(svc *order.Service, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: svc, logger: logger}
}

type placeOrderRequest struct {
	Items []order.ItemInput `json:"items" validate:"required,min=1,dive"`
}

// Place handles POST /api/v1/orders.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var input placeOrderRequest
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	o, err := h.orders.PlaceOrder(r.Context(), userID, input.Items)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, o)
}

// List handles GET /api/v1/orders with the same page/limit params as the
// product listing.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	params := pagination.FromRequest(r)

	result, err := h.orders.ListOrders(r.Context(), userID, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// Get handles GET /api/v1/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	orderID := chi.URLParam(r, "id")

	o, err := h.orders.GetOrder(r.Context(), userID, orderID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, o)
}
