package order

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/checkout"
)

var orderColumns = []string{
	"id", "session_id", "status", "subtotal", "delivery_fee", "tax", "total",
	"street", "city", "postal_code", "country", "payment_method", "card_last4", "created_at",
}

func sampleOrder(now time.Time) *Order {
	return &Order{
		ID:            "order-123",
		SessionID:     "sess-1",
		Status:        StatusConfirmed,
		Subtotal:      decimal.RequireFromString("20"),
		DeliveryFee:   decimal.RequireFromString("5"),
		Tax:           decimal.RequireFromString("2"),
		Total:         decimal.RequireFromString("27"),
		Address:       checkout.Address{Street: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US"},
		PaymentMethod: checkout.MethodCard,
		CardLast4:     "4242",
		CreatedAt:     now,
		Lines: []Line{
			{LineID: "s1", ItemID: "s1", Name: "French Fries", UnitPrice: decimal.RequireFromString("4"), Quantity: 2},
			{LineID: "l-9", ItemID: "m1", Name: "Classic Beef Burger", UnitPrice: decimal.RequireFromString("12"), Quantity: 1, Customizations: "Choose Size: Regular"},
		},
	}
}

func expectOrderInsert(mock sqlmock.Sqlmock, o *Order) *sqlmock.ExpectedExec {
	return mock.ExpectExec(regexp.QuoteMeta(insertOrderSQL)).
		WithArgs(o.ID, o.SessionID, "confirmed", "20.00", "5.00", "2.00", "27.00",
			"1 Main St", "Springfield", "12345", "US", "card", "4242", o.CreatedAt)
}

func TestRepositoryCreate_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	o := sampleOrder(time.Now())

	mock.ExpectBegin()
	expectOrderInsert(mock, o).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertLineSQL)).
		WithArgs(sqlmock.AnyArg(), o.ID, 0, "s1", "s1", "French Fries", "4.00", 2, "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertLineSQL)).
		WithArgs(sqlmock.AnyArg(), o.ID, 1, "l-9", "m1", "Classic Beef Burger", "12.00", 1, "Choose Size: Regular").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), o))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreate_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	o := sampleOrder(time.Now())

	mock.ExpectBegin()
	expectOrderInsert(mock, o).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = repo.Create(context.Background(), o)
	require.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreate_OrderInsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	o := sampleOrder(time.Now())

	mock.ExpectBegin()
	expectOrderInsert(mock, o).WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	err = repo.Create(context.Background(), o)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreate_LineInsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	o := sampleOrder(time.Now())

	mock.ExpectBegin()
	expectOrderInsert(mock, o).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertLineSQL)).
		WithArgs(sqlmock.AnyArg(), o.ID, 0, "s1", "s1", "French Fries", "4.00", 2, "").
		WillReturnError(errors.New("line insert failed"))
	mock.ExpectRollback()

	err = repo.Create(context.Background(), o)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Date(2026, time.March, 3, 18, 30, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(selectOrderColumns + ` WHERE id = $1`)).
		WithArgs("order-123").
		WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(
			"order-123", "sess-1", "confirmed", "20.00", "5.00", "2.00", "27.00",
			"1 Main St", "Springfield", "12345", "US", "cash_on_delivery", "", now,
		))
	mock.ExpectQuery(regexp.QuoteMeta(selectLinesSQL)).
		WithArgs("order-123").
		WillReturnRows(sqlmock.NewRows([]string{"line_id", "item_id", "name", "unit_price", "quantity", "customizations"}).
			AddRow("s1", "s1", "French Fries", "4.00", 2, ""))

	o, err := repo.GetByID(context.Background(), "order-123")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Equal(t, StatusConfirmed, o.Status)
	require.Equal(t, checkout.MethodCashOnDelivery, o.PaymentMethod)
	require.Equal(t, "27.00", o.Total.StringFixed(2))
	require.Equal(t, "Springfield", o.Address.City)
	require.Equal(t, now, o.CreatedAt)
	require.Len(t, o.Lines, 1)
	require.Equal(t, "4.00", o.Lines[0].UnitPrice.StringFixed(2))
}

func TestRepositoryGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(selectOrderColumns + ` WHERE id = $1`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	o, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, o)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByID_BadAmount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(selectOrderColumns + ` WHERE id = $1`)).
		WithArgs("order-bad").
		WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(
			"order-bad", "sess-1", "confirmed", "twenty", "5.00", "2.00", "27.00",
			"", "", "", "", "card", "", time.Now(),
		))

	_, err = repo.GetByID(context.Background(), "order-bad")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestRepositoryListBySession_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(selectOrderColumns + ` WHERE session_id = $1 ORDER BY created_at DESC`)).
		WithArgs("sess-empty").
		WillReturnRows(sqlmock.NewRows(orderColumns))

	orders, err := repo.ListBySession(context.Background(), "sess-empty")
	require.NoError(t, err)
	require.Empty(t, orders)
	require.NoError(t, mock.ExpectationsWereMet())
}
