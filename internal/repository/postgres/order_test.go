package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoply/shoply-api/internal/domain"
	apperrors "github.com/shoply/shoply-api/pkg/errors"
)

var orderCols = []string{"id", "user_id", "status", "total", "created_at", "updated_at"}
var orderItemCols = []string{"id", "product_id", "title", "price", "quantity"}

func sampleOrder() domain.Order {
	return domain.Order{
		ID:     "order-1",
		UserID: "user-1",
		Status: domain.OrderStatusPending,
		Items: []domain.OrderItem{
			{ID: "item-1", ProductID: "prod-1", Title: "Ghe sofa vai", Price: 199000, Quantity: 2},
		},
		Total:     398000,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewOrderRepository(mock)

	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(o.ID, o.UserID, o.Status, o.Total, o.CreatedAt, o.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs("item-1", o.ID, "prod-1", "Ghe sofa vai", int64(199000), 2).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), &o)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_ItemInsertFails(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewOrderRepository(mock)

	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(o.ID, o.UserID, o.Status, o.Total, o.CreatedAt, o.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs("item-1", o.ID, "prod-1", "Ghe sofa vai", int64(199000), 2).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &o)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewOrderRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM orders WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	o, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, o)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_ListByUser_WithItems(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewOrderRepository(mock)

	o := sampleOrder()

	mock.ExpectQuery("SELECT .+ FROM orders WHERE user_id").
		WithArgs(o.UserID, 12, 0).
		WillReturnRows(pgxmock.NewRows(orderCols).
			AddRow(o.ID, o.UserID, o.Status, o.Total, o.CreatedAt, o.UpdatedAt))
	mock.ExpectQuery("SELECT .+ FROM order_items WHERE order_id").
		WithArgs(o.ID).
		WillReturnRows(pgxmock.NewRows(orderItemCols).
			AddRow("item-1", "prod-1", "Ghe sofa vai", int64(199000), 2))

	orders, err := repo.ListByUser(context.Background(), o.UserID, 12, 0)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, int64(199000), orders[0].Items[0].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_CountByUser(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewOrderRepository(mock)

	mock.ExpectQuery(`SELECT count\(\*\) FROM orders WHERE user_id`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(5))

	total, err := repo.CountByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
