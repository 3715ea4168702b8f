package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dineflow/api/internal/enum"
	"github.com/dineflow/api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresOrders is the durable OrderStore used when DATABASE_URL is set.
// Items are stored as a JSONB document alongside the order row; they are
// written once at creation and never mutated, so there is nothing to
// normalize.
type PostgresOrders struct {
	pool *pgxpool.Pool
}

// NewPostgresOrders wraps a pgx pool as an OrderStore.
func NewPostgresOrders(pool *pgxpool.Pool) *PostgresOrders {
	return &PostgresOrders{pool: pool}
}

const ordersSchema = `
CREATE TABLE IF NOT EXISTS orders (
    id              UUID PRIMARY KEY,
    order_number    TEXT NOT NULL UNIQUE,
    order_seq       INT NOT NULL,
    table_number    INT NOT NULL,
    status          TEXT NOT NULL,
    items           JSONB NOT NULL,
    subtotal        NUMERIC(12,2) NOT NULL,
    discount_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
    tax_amount      NUMERIC(12,2) NOT NULL,
    total_amount    NUMERIC(12,2) NOT NULL,
    order_time      TIMESTAMPTZ NOT NULL,
    payment_status  TEXT NOT NULL,
    payment_method  TEXT NOT NULL DEFAULT '',
    contact         TEXT NOT NULL DEFAULT '',
    customer_name   TEXT NOT NULL DEFAULT ''
);`

// EnsureSchema creates the orders table if it does not exist.
func (s *PostgresOrders) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, ordersSchema); err != nil {
		return fmt.Errorf("ensure orders schema: %w", err)
	}
	return nil
}

func (s *PostgresOrders) NextOrderSeq(ctx context.Context) (int, error) {
	var next int
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(order_seq), 1000) + 1 FROM orders`,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next order seq: %w", err)
	}
	return next, nil
}

func (s *PostgresOrders) CreateOrder(ctx context.Context, o models.Order) (models.Order, error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	items, err := json.Marshal(o.Items)
	if err != nil {
		return models.Order{}, fmt.Errorf("marshal order items: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO orders (
			id, order_number, order_seq, table_number, status, items,
			subtotal, discount_amount, tax_amount, total_amount,
			order_time, payment_status, payment_method, contact, customer_name
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		o.ID, o.OrderNumber, o.OrderSeq, o.TableNumber, o.Status, items,
		o.Subtotal.StringFixed(2), o.DiscountAmount.StringFixed(2),
		o.TaxAmount.StringFixed(2), o.TotalAmount.StringFixed(2),
		o.OrderTime, o.PaymentStatus, o.PaymentMethod, o.Contact, o.CustomerName,
	)
	if err != nil {
		return models.Order{}, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

const orderColumns = `
	id, order_number, order_seq, table_number, status, items,
	subtotal, discount_amount, tax_amount, total_amount,
	order_time, payment_status, payment_method, contact, customer_name`

func (s *PostgresOrders) GetOrder(ctx context.Context, id uuid.UUID) (models.Order, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Order{}, ErrNotFound
	}
	return o, err
}

func (s *PostgresOrders) ListOrders(ctx context.Context, params ListOrdersParams) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []interface{}{}
	if params.Status != "" {
		args = append(args, params.Status)
		query += fmt.Sprintf(` WHERE status = $%d`, len(args))
	}
	query += ` ORDER BY order_time DESC`
	// Limit 0 means no limit; the report summary walks every order.
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if params.Offset > 0 {
		args = append(args, params.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// UpdateStatus only updates when the stored status still matches `from`.
// Zero rows affected means the order is missing or another operator won
// the race; the caller distinguishes the two with a follow-up read.
func (s *PostgresOrders) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (models.Order, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE orders SET status = $1
		WHERE id = $2 AND status = $3
		RETURNING `+orderColumns, to, id, from)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := s.GetOrder(ctx, id); errors.Is(getErr, ErrNotFound) {
			return models.Order{}, ErrNotFound
		}
		return models.Order{}, ErrStatusChanged
	}
	return o, err
}

func (s *PostgresOrders) MarkPaid(ctx context.Context, id uuid.UUID) (models.Order, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE orders SET payment_status = $1
		WHERE id = $2
		RETURNING `+orderColumns, enum.PaymentStatusPaid, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Order{}, ErrNotFound
	}
	return o, err
}

func scanOrder(row pgx.Row) (models.Order, error) {
	var (
		o                              models.Order
		items                          []byte
		subtotal, discount, tax, total string
	)
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.OrderSeq, &o.TableNumber, &o.Status, &items,
		&subtotal, &discount, &tax, &total,
		&o.OrderTime, &o.PaymentStatus, &o.PaymentMethod, &o.Contact, &o.CustomerName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, err
		}
		return models.Order{}, fmt.Errorf("scan order: %w", err)
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return models.Order{}, fmt.Errorf("unmarshal order items: %w", err)
	}
	if o.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return models.Order{}, fmt.Errorf("parse subtotal: %w", err)
	}
	if o.DiscountAmount, err = decimal.NewFromString(discount); err != nil {
		return models.Order{}, fmt.Errorf("parse discount: %w", err)
	}
	if o.TaxAmount, err = decimal.NewFromString(tax); err != nil {
		return models.Order{}, fmt.Errorf("parse tax: %w", err)
	}
	if o.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return models.Order{}, fmt.Errorf("parse total: %w", err)
	}
	return o, nil
}
