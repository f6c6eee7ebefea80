package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/billing"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/order"
)

var _ billing.Repository = (*BillingRepository)(nil)

// BillingRepository implements billing.Repository backed by PostgreSQL.
type BillingRepository struct {
	pool *pgxpool.Pool
}

// NewBillingRepository returns a BillingRepository that uses the given pool.
func NewBillingRepository(pool *pgxpool.Pool) *BillingRepository {
	return &BillingRepository{pool: pool}
}

func (r *BillingRepository) GetByOrder(ctx context.Context, orderID string) (*billing.Billing, error) {
	var b billing.Billing
	err := r.pool.QueryRow(ctx, `
		SELECT id, order_id, method, amount, status, transaction_id, created_at, updated_at
		FROM billings WHERE order_id = $1`, orderID).
		Scan(&b.ID, &b.OrderID, &b.Method, &b.Amount, &b.Status, &b.TransactionID,
			&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, billing.ErrNotFound
		}
		return nil, errors.Wrapf(err, "getting billing for order %q", orderID)
	}
	return &b, nil
}

// MarkPaid flips the billing to success and advances the parent order from
// pending to processing as one transaction. Only pending billings qualify;
// a second verification finds zero matching rows and fails.
func (r *BillingRepository) MarkPaid(ctx context.Context, orderID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "beginning payment transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx, `
		UPDATE billings SET status = $2, updated_at = now()
		WHERE order_id = $1 AND status = $3`,
		orderID, billing.StatusSuccess, billing.StatusPending)
	if err != nil {
		return errors.Wrapf(err, "marking billing of order %q paid", orderID)
	}
	if tag.RowsAffected() == 0 {
		return billing.ErrAlreadyVerified
	}

	_, err = tx.Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3`,
		orderID, order.StatusProcessing, order.StatusPending)
	if err != nil {
		return errors.Wrapf(err, "advancing order %q", orderID)
	}

	return errors.Wrap(tx.Commit(ctx), "committing payment")
}

func (r *BillingRepository) MarkFailed(ctx context.Context, orderID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE billings SET status = $2, updated_at = now()
		WHERE order_id = $1 AND status = $3`,
		orderID, billing.StatusFailed, billing.StatusPending)
	if err != nil {
		return errors.Wrapf(err, "marking billing of order %q failed", orderID)
	}
	if tag.RowsAffected() == 0 {
		return billing.ErrAlreadyVerified
	}
	return nil
}
