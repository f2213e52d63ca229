// Package order implements order placement and history.
package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shoply/shoply-api/internal/domain"
	"github.com/shoply/shoply-api/internal/repository"
	apperrors "github.com/shoply/shoply-api/pkg/errors"
	"github.com/shoply/shoply-api/pkg/pagination"
)

// Service implements order operations.
type Service struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	carts    repository.CartRepository
	logger   *slog.Logger
}

func NewService(orders repository.OrderRepository, products repository.ProductRepository, carts repository.CartRepository, logger *slog.Logger) *Service {
	return &Service{
		orders:   orders,
		products: products,
		carts:    carts,
		logger:   logger,
	}
}

// ItemInput is one requested order line.
type ItemInput struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// PlaceOrder validates the requested items against the catalog, prices them
// from the current store rows, persists the order, and clears the user's
// cart. Titles and prices are captured on the order so later catalog edits do
// not rewrite history.
func (s *Service) PlaceOrder(ctx context.Context, userID string, items []ItemInput) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, apperrors.InvalidInput("order must contain at least one item")
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:        uuid.New().String(),
		UserID:    userID,
		Status:    domain.OrderStatusPending,
		Items:     make([]domain.OrderItem, 0, len(items)),
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apperrors.InvalidInput("item quantity must be positive")
		}

		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("load product %s: %w", item.ProductID, err)
		}
		if product.Stock < item.Quantity {
			return nil, apperrors.InvalidInput(fmt.Sprintf("product %q is out of stock", product.Title))
		}

		line := domain.OrderItem{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Quantity:  item.Quantity,
		}
		order.Items = append(order.Items, line)
		order.Total += line.Subtotal()
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.carts.Delete(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "failed to clear cart after order",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("user_id", userID),
		slog.Int64("total", order.Total),
	)

	return order, nil
}

// ListOrders returns one page of the user's order history, newest first.
func (s *Service) ListOrders(ctx context.Context, userID string, params pagination.Params) (pagination.Result[domain.Order], error) {
	total, err := s.orders.CountByUser(ctx, userID)
	if err != nil {
		return pagination.Result[domain.Order]{}, fmt.Errorf("count orders: %w", err)
	}

	orders, err := s.orders.ListByUser(ctx, userID, params.Limit, params.Offset())
	if err != nil {
		return pagination.Result[domain.Order]{}, fmt.Errorf("list orders: %w", err)
	}

	return pagination.NewResult(orders, total, params), nil
}

// GetOrder returns one order, refusing to serve another user's order.
func (s *Service) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.UserID != userID {
		return nil, apperrors.NotFound("Order not found")
	}
	return order, nil
}
