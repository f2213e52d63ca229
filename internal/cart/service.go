// Package cart implements the server-side shopping cart.
package cart

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shoply/shoply-api/internal/domain"
	"github.com/shoply/shoply-api/internal/repository"
	apperrors "github.com/shoply/shoply-api/pkg/errors"
)

// Service implements cart operations on top of the Redis-backed store.
type Service struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   *slog.Logger
}

func NewService(carts repository.CartRepository, products repository.ProductRepository, logger *slog.Logger) *Service {
	return &Service{carts: carts, products: products, logger: logger}
}

// Get returns the user's cart.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// SetItem upserts the quantity for a product line. Quantity zero removes the
// line. The product snapshot (title, price, image) is taken at call time.
func (s *Service) SetItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 0 {
		return nil, apperrors.InvalidInput("quantity must not be negative")
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	idx := cart.FindItemIndex(productID)

	if quantity == 0 {
		if idx >= 0 {
			cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		}
	} else {
		product, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("load product for cart: %w", err)
		}
		if product.Stock < quantity {
			return nil, apperrors.InvalidInput(fmt.Sprintf("product %q is out of stock", product.Title))
		}

		item := domain.CartItem{
			ProductID: product.ID,
			Slug:      product.Slug,
			Title:     product.Title,
			Price:     product.Price,
			Quantity:  quantity,
		}
		if len(product.Images) > 0 {
			item.Image = product.Images[0]
		}

		if idx >= 0 {
			cart.Items[idx] = item
		} else {
			cart.Items = append(cart.Items, item)
		}
	}

	cart.UpdatedAt = time.Now().UTC()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.logger.DebugContext(ctx, "cart updated",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// Clear deletes the user's cart.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.carts.Delete(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
