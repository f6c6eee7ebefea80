package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/discount"
)

var _ discount.Repository = (*DiscountRepository)(nil)

// DiscountRepository implements discount.Repository backed by PostgreSQL.
type DiscountRepository struct {
	pool *pgxpool.Pool
}

// NewDiscountRepository returns a DiscountRepository that uses the given pool.
func NewDiscountRepository(pool *pgxpool.Pool) *DiscountRepository {
	return &DiscountRepository{pool: pool}
}

const discountColumns = `id, code, type, value, min_order_value, max_discount,
	start_date, end_date, max_uses, uses, description, deleted, created_at, updated_at`

func scanDiscount(row pgx.Row) (*discount.Rule, error) {
	var d discount.Rule
	err := row.Scan(&d.ID, &d.Code, &d.Type, &d.Value, &d.MinOrderValue, &d.MaxDiscount,
		&d.StartDate, &d.EndDate, &d.MaxUses, &d.Uses, &d.Description, &d.Deleted,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// FindByCode looks up a rule by its normalized code. Codes are stored
// uppercase, so the caller's code is matched with UPPER(). Soft-deleted rules
// are still returned; eligibility is the evaluator's concern.
func (r *DiscountRepository) FindByCode(ctx context.Context, code string) (*discount.Rule, error) {
	d, err := scanDiscount(r.pool.QueryRow(ctx,
		`SELECT `+discountColumns+` FROM discounts WHERE code = UPPER($1)`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, discount.ErrInvalidCode
		}
		return nil, errors.Wrapf(err, "finding discount by code %q", code)
	}
	return d, nil
}

func (r *DiscountRepository) List(ctx context.Context) ([]discount.Rule, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+discountColumns+` FROM discounts WHERE NOT deleted ORDER BY code`)
	if err != nil {
		return nil, errors.Wrap(err, "listing discounts")
	}
	defer rows.Close()

	var out []discount.Rule
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning discount")
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *DiscountRepository) Create(ctx context.Context, d *discount.Rule) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO discounts (id, code, type, value, min_order_value, max_discount,
			start_date, end_date, max_uses, uses, description, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		d.ID, d.Code, d.Type, d.Value, d.MinOrderValue, d.MaxDiscount,
		d.StartDate, d.EndDate, d.MaxUses, d.Uses, d.Description, d.Deleted,
		d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return errors.Wrapf(err, "creating discount %q", d.Code)
	}
	return nil
}

func (r *DiscountRepository) Update(ctx context.Context, d *discount.Rule) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE discounts
		SET code = $2, type = $3, value = $4, min_order_value = $5, max_discount = $6,
		    start_date = $7, end_date = $8, max_uses = $9, description = $10,
		    updated_at = now()
		WHERE id = $1 AND NOT deleted`,
		d.ID, d.Code, d.Type, d.Value, d.MinOrderValue, d.MaxDiscount,
		d.StartDate, d.EndDate, d.MaxUses, d.Description)
	if err != nil {
		return errors.Wrapf(err, "updating discount %q", d.ID)
	}
	if tag.RowsAffected() == 0 {
		return discount.ErrInvalidCode
	}
	return nil
}

func (r *DiscountRepository) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE discounts SET deleted = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "deleting discount %q", id)
	}
	if tag.RowsAffected() == 0 {
		return discount.ErrInvalidCode
	}
	return nil
}
