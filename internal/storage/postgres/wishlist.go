package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/wishlist"
)

var _ wishlist.Repository = (*WishlistRepository)(nil)

// WishlistRepository implements wishlist.Repository backed by PostgreSQL.
type WishlistRepository struct {
	pool *pgxpool.Pool
}

// NewWishlistRepository returns a WishlistRepository that uses the given pool.
func NewWishlistRepository(pool *pgxpool.Pool) *WishlistRepository {
	return &WishlistRepository{pool: pool}
}

func (r *WishlistRepository) ListByUser(ctx context.Context, userID string) ([]wishlist.Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT product_id, added_at FROM wishlists
		WHERE user_id = $1 ORDER BY added_at DESC`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "listing wishlist")
	}
	defer rows.Close()

	var out []wishlist.Item
	for rows.Next() {
		var it wishlist.Item
		if err := rows.Scan(&it.ProductID, &it.AddedAt); err != nil {
			return nil, errors.Wrap(err, "scanning wishlist item")
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *WishlistRepository) Add(ctx context.Context, userID, productID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO wishlists (user_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING`,
		userID, productID)
	if err != nil {
		return errors.Wrapf(err, "adding %q to wishlist", productID)
	}
	return nil
}

func (r *WishlistRepository) Remove(ctx context.Context, userID, productID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM wishlists WHERE user_id = $1 AND product_id = $2`,
		userID, productID)
	if err != nil {
		return errors.Wrapf(err, "removing %q from wishlist", productID)
	}
	if tag.RowsAffected() == 0 {
		return wishlist.ErrNotFound
	}
	return nil
}
