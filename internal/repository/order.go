package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowmart/beauty-shop-api/internal/model"
)

type OrderRepository interface {
	// Place allocates the order number, inserts the order with its item
	// snapshots and clears the buyer's cart, all in one transaction.
	Place(ctx context.Context, order *model.Order, clearCartID *uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, email string) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus, notes *string, markPaid bool, paidAt *time.Time) error
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

const orderFields = `id, number, user_id, email,
	ship_first_name, ship_last_name, ship_email, ship_phone, ship_address, ship_apartment,
	ship_city, ship_state, ship_zip, ship_country,
	payment_method, delivery_method,
	subtotal, shipping_fee, tax, discount, cod_fee, total,
	status, notes, gift_message, is_paid, paid_at, created_at, updated_at`

type pgOrderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepo{pool: pool}
}

func (r *pgOrderRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	o := &model.Order{}
	err := row.Scan(
		&o.ID, &o.Number, &o.UserID, &o.Email,
		&o.Shipping.FirstName, &o.Shipping.LastName, &o.Shipping.Email, &o.Shipping.Phone,
		&o.Shipping.Address, &o.Shipping.Apartment, &o.Shipping.City, &o.Shipping.State,
		&o.Shipping.ZipCode, &o.Shipping.Country,
		&o.PaymentMethod, &o.DeliveryMethod,
		&o.Subtotal, &o.ShippingFee, &o.Tax, &o.Discount, &o.CODFee, &o.Total,
		&o.Status, &o.Notes, &o.GiftMessage, &o.IsPaid, &o.PaidAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *pgOrderRepo) Place(ctx context.Context, order *model.Order, clearCartID *uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	seq, err := nextSequence(ctx, tx, "orders")
	if err != nil {
		return err
	}
	order.ID = uuid.New()
	order.Number = fmt.Sprintf("ORD%04d", seq)

	query := `INSERT INTO orders
		(id, number, user_id, email,
		 ship_first_name, ship_last_name, ship_email, ship_phone, ship_address, ship_apartment,
		 ship_city, ship_state, ship_zip, ship_country,
		 payment_method, delivery_method,
		 subtotal, shipping_fee, tax, discount, cod_fee, total,
		 status, notes, gift_message, is_paid, paid_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,
		        $17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,NOW(),NOW())
		RETURNING created_at, updated_at`
	err = tx.QueryRow(ctx, query,
		order.ID, order.Number, order.UserID, order.Email,
		order.Shipping.FirstName, order.Shipping.LastName, order.Shipping.Email,
		order.Shipping.Phone, order.Shipping.Address, order.Shipping.Apartment,
		order.Shipping.City, order.Shipping.State, order.Shipping.ZipCode, order.Shipping.Country,
		order.PaymentMethod, order.DeliveryMethod,
		order.Subtotal, order.ShippingFee, order.Tax, order.Discount, order.CODFee, order.Total,
		order.Status, order.Notes, order.GiftMessage, order.IsPaid, order.PaidAt,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (id, order_id, product_id, name, image, quantity, price)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			order.Items[i].ID, order.Items[i].OrderID, order.Items[i].ProductID,
			order.Items[i].Name, order.Items[i].Image, order.Items[i].Quantity, order.Items[i].Price,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if clearCartID != nil {
		if _, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, *clearCartID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *pgOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderFields+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := r.itemsFor(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return order, nil
}

func (r *pgOrderRepo) ListAll(ctx context.Context) ([]model.Order, error) {
	return r.list(ctx, `SELECT `+orderFields+` FROM orders ORDER BY created_at DESC`)
}

func (r *pgOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID, email string) ([]model.Order, error) {
	return r.list(ctx,
		`SELECT `+orderFields+` FROM orders WHERE user_id = $1 OR email = $2 ORDER BY created_at DESC`,
		userID, email)
}

func (r *pgOrderRepo) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	var ids []uuid.UUID
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *pgOrderRepo) itemsFor(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]model.OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, product_id, name, image, quantity, price
		 FROM order_items WHERE order_id = ANY($1)`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]model.OrderItem)
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.Name, &item.Image, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	return items, nil
}

// UpdateStatus writes the new status and, when markPaid is set, flips
// is_paid and stamps paid_at (kept once set). Notes are only overwritten
// when provided.
func (r *pgOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus, notes *string, markPaid bool, paidAt *time.Time) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2,
			notes = COALESCE($3, notes),
			is_paid = is_paid OR $4,
			paid_at = COALESCE(paid_at, $5),
			updated_at = NOW()
		 WHERE id = $1`,
		id, status, notes, markPaid, paidAt)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
