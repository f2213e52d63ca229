package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoply/shoply-api/internal/domain"
	"github.com/shoply/shoply-api/internal/repository"
	"github.com/shoply/shoply-api/pkg/database"
	apperrors "github.com/shoply/shoply-api/pkg/errors"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

var productCols = []string{
	"id", "title", "slug", "brand", "category", "description",
	"price", "images", "stock", "rating", "created_at", "updated_at",
}

var cardCols = []string{"id", "slug", "title", "price", "images", "stock"}

func sampleProduct() domain.Product {
	return domain.Product{
		ID:          "prod-1",
		Title:       "Ghe sofa vai",
		Slug:        "ghe-sofa-vai",
		Brand:       "Acme",
		Category:    "furniture",
		Description: "Mo ta ngan",
		Price:       199000,
		Images:      []string{"/anh/1.avif"},
		Stock:       7,
		Rating:      4,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func productRow(p domain.Product) []any {
	return []any{
		p.ID, p.Title, p.Slug, p.Brand, p.Category, p.Description,
		p.Price, p.Images, p.Stock, p.Rating, p.CreatedAt, p.UpdatedAt,
	}
}

func TestProductRepository_Count_NoFilter(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery(`SELECT count\(\*\) FROM products`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(37))

	total, err := repo.Count(context.Background(), repository.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 37, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Count_WithQuery(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery(`SELECT count\(\*\) FROM products WHERE \(title ILIKE \$1 OR brand ILIKE \$1 OR category ILIKE \$1\)`).
		WithArgs("%acme%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	total, err := repo.Count(context.Background(), repository.ListFilter{Query: "acme"})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	mock.ExpectQuery("SELECT .+ FROM products .*ORDER BY created_at DESC").
		WithArgs(12, 0).
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(productRow(p)...))

	products, err := repo.List(context.Background(), repository.ListFilter{}, 12, 0)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, p.ID, products[0].ID)
	assert.Equal(t, p.Title, products[0].Title)
	assert.Equal(t, p.Price, products[0].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_WithQuery(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	mock.ExpectQuery("SELECT .+ FROM products WHERE .+ILIKE").
		WithArgs("%sofa%", 12, 12).
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(productRow(p)...))

	products, err := repo.List(context.Background(), repository.ListFilter{Query: "sofa"}, 12, 12)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_Empty(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM products").
		WithArgs(12, 0).
		WillReturnRows(pgxmock.NewRows(productCols))

	products, err := repo.List(context.Background(), repository.ListFilter{}, 12, 0)
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetBySlugs_FirstMatchWins(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	candidates := []string{"ban-ghe-7", "ban-ghe-07", "ban-ghe-007"}
	mock.ExpectQuery(`SELECT id, slug, title, price, images, stock\s+FROM products\s+WHERE slug = ANY\(\$1\)\s+LIMIT 1`).
		WithArgs(candidates).
		WillReturnRows(pgxmock.NewRows(cardCols).
			AddRow("prod-7", "ban-ghe-07", "Ban ghe", int64(99000), []string{"/anh/7.avif"}, 3))

	card, err := repo.GetBySlugs(context.Background(), candidates)
	require.NoError(t, err)
	assert.Equal(t, "prod-7", card.ID)
	assert.Equal(t, "ban-ghe-07", card.Slug)
	assert.Equal(t, int64(99000), card.Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetBySlugs_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM products").
		WithArgs([]string{"missing"}).
		WillReturnError(pgx.ErrNoRows)

	card, err := repo.GetBySlugs(context.Background(), []string{"missing"})
	assert.Nil(t, card)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PRODUCT_NOT_FOUND", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetBySlug_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	mock.ExpectQuery("SELECT .+ FROM products WHERE slug").
		WithArgs(p.Slug).
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(productRow(p)...))

	result, err := repo.GetBySlug(context.Background(), p.Slug)
	require.NoError(t, err)
	assert.Equal(t, p.ID, result.ID)
	assert.Equal(t, p.Slug, result.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), "missing-id")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			p.ID, p.Title, p.Slug, p.Brand, p.Category, p.Description,
			p.Price, p.Images, p.Stock, p.Rating, p.CreatedAt, p.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Create_DuplicateSlug(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			p.ID, p.Title, p.Slug, p.Brand, p.Category, p.Description,
			p.Price, p.Images, p.Stock, p.Rating, p.CreatedAt, p.UpdatedAt,
		).
		WillReturnError(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Create(context.Background(), &p)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	mock.ExpectExec("UPDATE products").
		WithArgs(
			p.Title, p.Slug, p.Brand, p.Category, p.Description,
			p.Price, p.Images, p.Stock, p.Rating, p.UpdatedAt, p.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &p)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectExec("DELETE FROM products").
		WithArgs("prod-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "prod-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectExec("DELETE FROM products").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
