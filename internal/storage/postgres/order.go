package postgres

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/cart"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/discount"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/order"
)

var (
	_ order.Repository    = (*OrderRepository)(nil)
	_ order.CheckoutStore = (*OrderRepository)(nil)
)

// OrderRepository implements order.Repository and order.CheckoutStore backed
// by PostgreSQL. Order items are serialized to a JSONB column.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `id, user_id, address_id, items, subtotal, shipping_fee,
	discount_code, discount_amount, total, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*order.Order, error) {
	var (
		o         order.Order
		itemsJSON []byte
	)
	err := row.Scan(&o.ID, &o.UserID, &o.AddressID, &itemsJSON, &o.Subtotal,
		&o.ShippingFee, &o.DiscountCode, &o.DiscountAmount, &o.Total, &o.Status,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, errors.Wrap(err, "unmarshaling order items")
	}
	return &o, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "getting order %q", id)
	}
	return o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
}

func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *OrderRepository) queryOrders(ctx context.Context, sql string, args ...any) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "listing orders")
	}
	defer rows.Close()

	var out []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning order")
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
		id, status)
	if err != nil {
		return errors.Wrapf(err, "updating status of order %q", id)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// Place persists a checkout bundle in one transaction: the new shipping
// address when present, the order, a conditional stock decrement per line,
// the discount use, and the billing record. Any failed step rolls the whole
// checkout back.
func (r *OrderRepository) Place(ctx context.Context, co *order.Checkout) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "beginning checkout transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	o := co.Order
	if a := co.NewAddress; a != nil {
		_, err := tx.Exec(ctx, insertAddressSQL,
			a.ID, a.UserID, a.FullName, a.Phone, a.Street, a.Ward, a.City, a.State,
			a.Country, a.IsDefault, a.CreatedAt, a.UpdatedAt)
		if err != nil {
			return errors.Wrapf(err, "creating address %q", a.ID)
		}
	}

	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return errors.Wrap(err, "marshaling order items")
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, address_id, items, subtotal, shipping_fee,
			discount_code, discount_amount, total, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		o.ID, o.UserID, o.AddressID, itemsJSON, o.Subtotal, o.ShippingFee,
		o.DiscountCode, o.DiscountAmount, o.Total, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return errors.Wrapf(err, "creating order %q", o.ID)
	}

	// Decrement stock per line. The WHERE guard makes oversells lose the
	// race instead of driving stock negative.
	for _, item := range o.Items {
		tag, err := tx.Exec(ctx, `
			UPDATE products SET stock = stock - $2, updated_at = now()
			WHERE id = $1 AND stock >= $2`,
			item.ProductID, item.Quantity)
		if err != nil {
			return errors.Wrapf(err, "decrementing stock of %q", item.ProductID)
		}
		if tag.RowsAffected() == 0 {
			return errors.Wrapf(cart.ErrInsufficientStock, "product %q", item.ProductID)
		}
	}

	if code := co.ConsumeDiscount; code != "" {
		tag, err := tx.Exec(ctx, `
			UPDATE discounts SET uses = uses + 1, updated_at = now()
			WHERE code = $1 AND NOT deleted AND (max_uses = 0 OR uses < max_uses)`,
			code)
		if err != nil {
			return errors.Wrapf(err, "consuming discount %q", code)
		}
		if tag.RowsAffected() == 0 {
			return discount.ErrUsageLimitReached
		}
	}

	b := co.Billing
	_, err = tx.Exec(ctx, `
		INSERT INTO billings (id, order_id, method, amount, status, transaction_id,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.OrderID, b.Method, b.Amount, b.Status, b.TransactionID,
		b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return errors.Wrapf(err, "creating billing for order %q", o.ID)
	}

	return errors.Wrap(tx.Commit(ctx), "committing checkout")
}
