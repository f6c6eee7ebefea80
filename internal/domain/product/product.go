package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrInvalidInput is returned when a catalog edit violates an invariant.
	ErrInvalidInput = errors.New("invalid product input")
)

// Product represents a catalog item available for purchase.
//
// Price holds the regular price; SalePrice, when positive, overrides it.
// Stock is the number of units available for checkout.
type Product struct {
	ID        string
	Name      string
	Price     decimal.Decimal
	SalePrice decimal.Decimal
	Stock     int
	Category  string
	ImageURL  string
}

// UnitPrice returns the effective selling price: the sale price when one is
// set, the regular price otherwise.
func (p Product) UnitPrice() decimal.Decimal {
	if p.SalePrice.IsPositive() {
		return p.SalePrice
	}
	return p.Price
}

// Input holds the fields an administrator supplies when creating or editing
// a catalog item.
type Input struct {
	Name      string
	Price     decimal.Decimal
	SalePrice decimal.Decimal
	Stock     int
	Category  string
	ImageURL  string
}

// Validate rejects inputs that would violate catalog invariants.
func (in Input) Validate() error {
	if in.Name == "" {
		return errors.Wrap(ErrInvalidInput, "name is required")
	}
	if in.Price.IsNegative() {
		return errors.Wrap(ErrInvalidInput, "price must not be negative")
	}
	if in.SalePrice.IsNegative() {
		return errors.Wrap(ErrInvalidInput, "sale price must not be negative")
	}
	if in.Stock < 0 {
		return errors.Wrap(ErrInvalidInput, "stock must not be negative")
	}
	return nil
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
}
