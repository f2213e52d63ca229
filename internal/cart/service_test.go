package cart

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shoply/shoply-api/internal/domain"
	"github.com/shoply/shoply-api/internal/repository"
	redisrepo "github.com/shoply/shoply-api/internal/repository/redis"
	apperrors "github.com/shoply/shoply-api/pkg/errors"
)

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Count(ctx context.Context, filter repository.ListFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ListFilter, limit, offset int) ([]domain.Product, error) {
	args := m.Called(ctx, filter, limit, offset)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetBySlugs(ctx context.Context, slugs []string) (*domain.ProductCard, error) {
	args := m.Called(ctx, slugs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductCard), args.Error(1)
}

func (m *mockProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestCartService(t *testing.T, products *mockProductRepository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	carts := redisrepo.NewCartRepository(client, time.Hour)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewService(carts, products, logger)
}

func sofa() *domain.Product {
	return &domain.Product{
		ID:     "p1",
		Title:  "Ghe sofa vai",
		Slug:   "ghe-sofa-vai",
		Price:  199000,
		Images: []string{"/anh/1.avif"},
		Stock:  10,
	}
}

func TestSetItem_AddsSnapshot(t *testing.T) {
	products := new(mockProductRepository)
	svc := newTestCartService(t, products)

	products.On("GetByID", mock.Anything, "p1").Return(sofa(), nil)

	cart, err := svc.SetItem(context.Background(), "user-1", "p1", 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Ghe sofa vai", cart.Items[0].Title)
	assert.Equal(t, int64(199000), cart.Items[0].Price)
	assert.Equal(t, "/anh/1.avif", cart.Items[0].Image)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, int64(398000), cart.Total())
}

func TestSetItem_UpsertsQuantity(t *testing.T) {
	products := new(mockProductRepository)
	svc := newTestCartService(t, products)

	products.On("GetByID", mock.Anything, "p1").Return(sofa(), nil)

	_, err := svc.SetItem(context.Background(), "user-1", "p1", 2)
	require.NoError(t, err)

	cart, err := svc.SetItem(context.Background(), "user-1", "p1", 5)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestSetItem_ZeroRemovesLine(t *testing.T) {
	products := new(mockProductRepository)
	svc := newTestCartService(t, products)

	products.On("GetByID", mock.Anything, "p1").Return(sofa(), nil)

	_, err := svc.SetItem(context.Background(), "user-1", "p1", 2)
	require.NoError(t, err)

	cart, err := svc.SetItem(context.Background(), "user-1", "p1", 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestSetItem_NegativeQuantity(t *testing.T) {
	svc := newTestCartService(t, new(mockProductRepository))

	_, err := svc.SetItem(context.Background(), "user-1", "p1", -1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestSetItem_ExceedsStock(t *testing.T) {
	products := new(mockProductRepository)
	svc := newTestCartService(t, products)

	products.On("GetByID", mock.Anything, "p1").Return(sofa(), nil)

	_, err := svc.SetItem(context.Background(), "user-1", "p1", 11)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestClear(t *testing.T) {
	products := new(mockProductRepository)
	svc := newTestCartService(t, products)

	products.On("GetByID", mock.Anything, "p1").Return(sofa(), nil)

	_, err := svc.SetItem(context.Background(), "user-1", "p1", 1)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(context.Background(), "user-1"))

	cart, err := svc.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
