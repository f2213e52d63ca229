package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/shoply/shoply-api/pkg/errors"
	"github.com/shoply/shoply-api/internal/domain"
	"github.com/shoply/shoply-api/internal/repository"
	"github.com/shoply/shoply-api/pkg/database"
)

const productColumns = "id, title, slug, brand, category, description, price, images, stock, rating, created_at, updated_at"

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a PostgreSQL-backed product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// searchClause compiles the filter into a WHERE clause and its arguments.
// Args are returned with placeholders starting at $1.
func searchClause(filter repository.ListFilter) (string, []any) {
	if filter.Query == "" {
		return "", nil
	}
	pattern := "%" + filter.Query + "%"
	return "WHERE (title ILIKE $1 OR brand ILIKE $1 OR category ILIKE $1)", []any{pattern}
}

// Count returns the number of products matching the filter.
func (r *ProductRepository) Count(ctx context.Context, filter repository.ListFilter) (int, error) {
	where, args := searchClause(filter)

	var total int
	query := fmt.Sprintf("SELECT count(*) FROM products %s", where)
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

// List returns one page of matching products ordered by creation time, newest
// first.
func (r *ProductRepository) List(ctx context.Context, filter repository.ListFilter, limit, offset int) ([]domain.Product, error) {
	where, args := searchClause(filter)
	n := len(args)

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		productColumns, where, n+1, n+2,
	)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

// GetBySlugs returns the card of the first product whose slug matches any of
// the candidates. No ORDER BY: when several candidates exist in the store,
// whichever row the store yields first wins.
func (r *ProductRepository) GetBySlugs(ctx context.Context, slugs []string) (*domain.ProductCard, error) {
	query := `
		SELECT id, slug, title, price, images, stock
		FROM products
		WHERE slug = ANY($1)
		LIMIT 1`

	var card domain.ProductCard
	err := r.db.QueryRow(ctx, query, slugs).Scan(
		&card.ID,
		&card.Slug,
		&card.Title,
		&card.Price,
		&card.Images,
		&card.Stock,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ProductNotFound()
		}
		return nil, fmt.Errorf("get product by slug candidates: %w", err)
	}

	return &card, nil
}

// GetBySlug returns the product with exactly this slug.
func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE slug = $1", productColumns)
	return r.getOne(ctx, query, slug)
}

// GetByID returns the product with the given ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)
	return r.getOne(ctx, query, id)
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (id, title, slug, brand, category, description, price, images, stock, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Slug,
		p.Brand,
		p.Category,
		p.Description,
		p.Price,
		p.Images,
		p.Stock,
		p.Rating,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "slug", p.Slug)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update modifies an existing product.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `
		UPDATE products
		SET title = $1, slug = $2, brand = $3, category = $4, description = $5,
		    price = $6, images = $7, stock = $8, rating = $9, updated_at = $10
		WHERE id = $11`

	ct, err := r.db.Exec(ctx, query,
		p.Title,
		p.Slug,
		p.Brand,
		p.Category,
		p.Description,
		p.Price,
		p.Images,
		p.Stock,
		p.Rating,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "slug", p.Slug)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("Product not found")
	}
	return nil
}

// Delete removes a product by ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("Product not found")
	}
	return nil
}

func (r *ProductRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	var p domain.Product
	if err := scanProduct(r.db.QueryRow(ctx, query, args...), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Product not found")
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner, p *domain.Product) error {
	return row.Scan(
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Brand,
		&p.Category,
		&p.Description,
		&p.Price,
		&p.Images,
		&p.Stock,
		&p.Rating,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

// isUniqueViolation checks for a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
