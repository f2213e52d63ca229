// Package repository defines the persistence interfaces consumed by the
// service layer. Implementations live in the postgres and redis subpackages.
package repository

import (
	"context"

	"github.com/shoply/shoply-api/internal/domain"
)

// ListFilter narrows a product listing. An empty Query matches everything;
// a non-empty Query is matched as a case-insensitive substring against
// title, brand, and category.
type ListFilter struct {
	Query string
}

// ProductRepository is the product store.
//
// Count and List are deliberately separate operations. The listing endpoint
// issues both per request; totals and rows may be computed at slightly
// different instants and the page math tolerates that.
type ProductRepository interface {
	// Count returns the number of products matching the filter.
	Count(ctx context.Context, filter ListFilter) (int, error)

	// List returns one page of matching products, newest first.
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]domain.Product, error)

	// GetBySlugs returns the first product whose slug matches any of the
	// given candidates. Candidate order does not influence which row wins.
	GetBySlugs(ctx context.Context, slugs []string) (*domain.ProductCard, error)

	// GetBySlug returns the product with exactly this slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)

	// GetByID returns the product with the given ID.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
}

// UserRepository is the account store.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// OrderRepository is the order store.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error)
}

// CartRepository is the cart store. Get returns an empty cart, not an error,
// when the user has no cart yet.
type CartRepository interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, userID string) error
}
