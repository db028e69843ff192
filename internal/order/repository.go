package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/checkout"
)

var (
	ErrNotFound  = errors.New("order not found")
	ErrDuplicate = errors.New("order already exists")
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	ListBySession(ctx context.Context, sessionID string) ([]Order, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

const (
	insertOrderSQL = `INSERT INTO orders (id, session_id, status, subtotal, delivery_fee, tax, total,
         street, city, postal_code, country, payment_method, card_last4, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
         ON CONFLICT (id) DO NOTHING`

	insertLineSQL = `INSERT INTO order_lines (id, order_id, position, line_id, item_id, name, unit_price, quantity, customizations)
             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	selectOrderColumns = `SELECT id, session_id, status, subtotal::text, delivery_fee::text, tax::text, total::text,
         street, city, postal_code, country, payment_method, card_last4, created_at
         FROM orders`

	selectLinesSQL = `SELECT line_id, item_id, name, unit_price::text, quantity, customizations
         FROM order_lines WHERE order_id = $1 ORDER BY position`
)

// Create stores the order and its lines in one transaction. An order whose id
// already exists is left untouched and ErrDuplicate is returned.
func (r *repo) Create(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, insertOrderSQL,
		o.ID, o.SessionID, string(o.Status),
		o.Subtotal.StringFixed(2), o.DeliveryFee.StringFixed(2), o.Tax.StringFixed(2), o.Total.StringFixed(2),
		o.Address.Street, o.Address.City, o.Address.PostalCode, o.Address.Country,
		string(o.PaymentMethod), o.CardLast4, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	if n == 0 {
		return ErrDuplicate
	}

	for i, l := range o.Lines {
		_, err = tx.ExecContext(ctx, insertLineSQL,
			uuid.NewString(), o.ID, i, l.LineID, l.ItemID, l.Name, l.UnitPrice.StringFixed(2), l.Quantity, l.Customizations,
		)
		if err != nil {
			return fmt.Errorf("insert order_line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repo) GetByID(ctx context.Context, orderID string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, selectOrderColumns+` WHERE id = $1`, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	if err := r.loadLines(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repo) ListBySession(ctx context.Context, sessionID string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx,
		selectOrderColumns+` WHERE session_id = $1 ORDER BY created_at DESC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("rows: %w", err)
	}
	rows.Close()

	for i := range orders {
		if err := r.loadLines(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *repo) loadLines(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx, selectLinesSQL, o.ID)
	if err != nil {
		return fmt.Errorf("select order_lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			l     Line
			price string
		)
		if err := rows.Scan(&l.LineID, &l.ItemID, &l.Name, &price, &l.Quantity, &l.Customizations); err != nil {
			return fmt.Errorf("scan order_line: %w", err)
		}
		if l.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return fmt.Errorf("parse unit price %q: %w", price, err)
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var (
		o                         Order
		status, method            string
		subtotal, fee, tax, total string
	)
	err := row.Scan(&o.ID, &o.SessionID, &status, &subtotal, &fee, &tax, &total,
		&o.Address.Street, &o.Address.City, &o.Address.PostalCode, &o.Address.Country,
		&method, &o.CardLast4, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = Status(status)
	o.PaymentMethod = checkout.PaymentMethod(method)

	for _, f := range []struct {
		dst *decimal.Decimal
		raw string
	}{
		{&o.Subtotal, subtotal},
		{&o.DeliveryFee, fee},
		{&o.Tax, tax},
		{&o.Total, total},
	} {
		if *f.dst, err = decimal.NewFromString(f.raw); err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", f.raw, err)
		}
	}
	return &o, nil
}
