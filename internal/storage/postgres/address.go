package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/address"
)

var _ address.Repository = (*AddressRepository)(nil)

// AddressRepository implements address.Repository backed by PostgreSQL.
type AddressRepository struct {
	pool *pgxpool.Pool
}

// NewAddressRepository returns an AddressRepository that uses the given pool.
func NewAddressRepository(pool *pgxpool.Pool) *AddressRepository {
	return &AddressRepository{pool: pool}
}

const addressColumns = `id, user_id, full_name, phone, street, ward, city, state,
	country, is_default, created_at, updated_at`

func scanAddress(row pgx.Row) (*address.Address, error) {
	var a address.Address
	err := row.Scan(&a.ID, &a.UserID, &a.FullName, &a.Phone, &a.Street, &a.Ward,
		&a.City, &a.State, &a.Country, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AddressRepository) ListByUser(ctx context.Context, userID string) ([]address.Address, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+addressColumns+` FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "listing addresses")
	}
	defer rows.Close()

	var out []address.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning address")
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *AddressRepository) GetByID(ctx context.Context, id string) (*address.Address, error) {
	a, err := scanAddress(r.pool.QueryRow(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, address.ErrNotFound
		}
		return nil, errors.Wrapf(err, "getting address %q", id)
	}
	return a, nil
}

func (r *AddressRepository) Create(ctx context.Context, a *address.Address) error {
	_, err := r.pool.Exec(ctx, insertAddressSQL,
		a.ID, a.UserID, a.FullName, a.Phone, a.Street, a.Ward, a.City, a.State,
		a.Country, a.IsDefault, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return errors.Wrapf(err, "creating address %q", a.ID)
	}
	return nil
}

// insertAddressSQL is shared with the checkout transaction, which creates
// the shipping address in the same transaction as the order.
const insertAddressSQL = `
	INSERT INTO addresses (id, user_id, full_name, phone, street, ward, city, state,
		country, is_default, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

func (r *AddressRepository) Update(ctx context.Context, a *address.Address) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE addresses
		SET full_name = $2, phone = $3, street = $4, ward = $5, city = $6,
		    state = $7, country = $8, updated_at = now()
		WHERE id = $1`,
		a.ID, a.FullName, a.Phone, a.Street, a.Ward, a.City, a.State, a.Country)
	if err != nil {
		return errors.Wrapf(err, "updating address %q", a.ID)
	}
	if tag.RowsAffected() == 0 {
		return address.ErrNotFound
	}
	return nil
}

func (r *AddressRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "deleting address %q", id)
	}
	if tag.RowsAffected() == 0 {
		return address.ErrNotFound
	}
	return nil
}

func (r *AddressRepository) ClearDefaults(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE addresses SET is_default = FALSE, updated_at = now() WHERE user_id = $1`,
		userID)
	if err != nil {
		return errors.Wrapf(err, "clearing defaults for user %q", userID)
	}
	return nil
}

func (r *AddressRepository) MarkDefault(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE addresses SET is_default = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "marking address %q default", id)
	}
	if tag.RowsAffected() == 0 {
		return address.ErrNotFound
	}
	return nil
}
