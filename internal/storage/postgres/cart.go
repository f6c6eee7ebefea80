package postgres

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/cart"
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL. Cart lines
// live in a JSONB column; one row per user.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

func (r *CartRepository) GetByUser(ctx context.Context, userID string) (*cart.Cart, error) {
	var (
		c         cart.Cart
		itemsJSON []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, items, created_at, updated_at
		FROM carts WHERE user_id = $1`, userID).
		Scan(&c.ID, &c.UserID, &itemsJSON, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrNotFound
		}
		return nil, errors.Wrapf(err, "getting cart for user %q", userID)
	}

	if err := json.Unmarshal(itemsJSON, &c.Items); err != nil {
		return nil, errors.Wrap(err, "unmarshaling cart items")
	}
	return &c, nil
}

func (r *CartRepository) Create(ctx context.Context, c *cart.Cart) error {
	itemsJSON, err := json.Marshal(c.Items)
	if err != nil {
		return errors.Wrap(err, "marshaling cart items")
	}
	if c.Items == nil {
		itemsJSON = []byte(`[]`)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO carts (id, user_id, items, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.UserID, itemsJSON, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return errors.Wrapf(err, "creating cart %q", c.ID)
	}
	return nil
}

func (r *CartRepository) ReplaceItems(ctx context.Context, cartID string, items []cart.Item) error {
	if items == nil {
		items = []cart.Item{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "marshaling cart items")
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE carts SET items = $2, updated_at = now() WHERE id = $1`,
		cartID, itemsJSON)
	if err != nil {
		return errors.Wrapf(err, "replacing items of cart %q", cartID)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrNotFound
	}
	return nil
}
