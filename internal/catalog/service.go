// Package catalog implements the product catalog business logic: paginated
// listing with text search, slug resolution with zero-pad fallback, and the
// admin write path.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shoply/shoply-api/internal/domain"
	"github.com/shoply/shoply-api/internal/event"
	"github.com/shoply/shoply-api/internal/repository"
	apperrors "github.com/shoply/shoply-api/pkg/errors"
	"github.com/shoply/shoply-api/pkg/pagination"
	"github.com/shoply/shoply-api/pkg/slugutil"
)

// Service implements catalog operations over the product repository.
type Service struct {
	repo     repository.ProductRepository
	producer *event.Producer
	logger   *slog.Logger
}

func NewService(repo repository.ProductRepository, producer *event.Producer, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// List returns one page of products matching the pre-clamped params. The
// total and the page rows come from two separate store reads; a write landing
// between them can skew hasNext by one page edge, which is acceptable for a
// storefront listing.
func (s *Service) List(ctx context.Context, params pagination.Params) (pagination.Result[domain.Product], error) {
	filter := repository.ListFilter{Query: params.Query}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return pagination.Result[domain.Product]{}, fmt.Errorf("count products: %w", err)
	}

	products, err := s.repo.List(ctx, filter, params.Limit, params.Offset())
	if err != nil {
		return pagination.Result[domain.Product]{}, fmt.Errorf("list products: %w", err)
	}

	return pagination.NewResult(products, total, params), nil
}

// Resolve finds the product card for a storefront slug. The raw slug is
// normalized and expanded into zero-padded candidates so links minted before
// a numbering-width change keep working.
func (s *Service) Resolve(ctx context.Context, rawSlug string) (*domain.ProductCard, error) {
	candidates := slugutil.Candidates(rawSlug)

	card, err := s.repo.GetBySlugs(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("resolve slug %q: %w", rawSlug, err)
	}
	return card, nil
}

// GetBySlugExact returns the full product for exactly this slug. No candidate
// expansion happens here.
func (s *Service) GetBySlugExact(ctx context.Context, slug string) (*domain.Product, error) {
	product, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	return product, nil
}

// GetByID returns the full product for the given ID.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// CreateInput holds the parameters for creating a product.
type CreateInput struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Brand       string   `json:"brand" validate:"max=100"`
	Category    string   `json:"category" validate:"max=100"`
	Description string   `json:"description" validate:"max=5000"`
	Price       int64    `json:"price" validate:"required,gt=0"`
	Images      []string `json:"images" validate:"dive,max=500"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Rating      int      `json:"rating" validate:"gte=0,lte=5"`
}

// UpdateInput holds the parameters for a partial product update. Nil fields
// are left unchanged.
type UpdateInput struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Brand       *string   `json:"brand" validate:"omitempty,max=100"`
	Category    *string   `json:"category" validate:"omitempty,max=100"`
	Description *string   `json:"description" validate:"omitempty,max=5000"`
	Price       *int64    `json:"price" validate:"omitempty,gt=0"`
	Images      []string  `json:"images" validate:"omitempty,dive,max=500"`
	Stock       *int      `json:"stock" validate:"omitempty,gte=0"`
	Rating      *int      `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

// Create persists a new product. The slug is derived from the title; a
// duplicate slug surfaces as ErrAlreadyExists.
func (s *Service) Create(ctx context.Context, input *CreateInput) (*domain.Product, error) {
	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Slug:        slugutil.Make(input.Title),
		Brand:       input.Brand,
		Category:    input.Category,
		Description: input.Description,
		Price:       input.Price,
		Images:      input.Images,
		Stock:       input.Stock,
		Rating:      input.Rating,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	if product.Slug == "" {
		return nil, apperrors.InvalidInput("title must contain at least one letter or digit")
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// Update applies a partial update to the product. Changing the title
// regenerates the slug.
func (s *Service) Update(ctx context.Context, id string, input *UpdateInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if input.Title != nil {
		product.Title = *input.Title
		product.Slug = slugutil.Make(*input.Title)
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Images != nil {
		product.Images = input.Images
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Rating != nil {
		product.Rating = *input.Rating
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	return product, nil
}

// Delete removes the product.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))
	return nil
}
