package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/product"
)

var (
	// ErrNotFound is returned when a user has no cart yet.
	ErrNotFound = errors.New("cart not found")
	// ErrInsufficientStock is returned when a requested quantity exceeds the
	// product's available stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidQuantity is returned when an update requests a quantity below 1.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrItemNotFound is returned when updating a line that is not in the cart.
	ErrItemNotFound = errors.New("item not in cart")
	// ErrCacheMiss is returned by a Cache when no entry exists for the user.
	ErrCacheMiss = errors.New("cart cache miss")
)

// Cart is a user's mutable shopping cart. One cart exists per user, created
// lazily on first access. Items keep their insertion order and hold at most
// one line per product.
type Cart struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is a single cart line.
type Item struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// clone returns a deep copy with its own item slice, so callers can mutate
// the result without sharing state.
func (c *Cart) clone() *Cart {
	cp := *c
	cp.Items = make([]Item, len(c.Items))
	copy(cp.Items, c.Items)
	return &cp
}

// find returns the index of the line for productID, or -1.
func (c *Cart) find(productID string) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// Line pairs a cart item with the current catalog data used to price it.
// Totals are always computed from live product prices, never stored.
type Line struct {
	Product   product.Product `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// View is a priced snapshot of a cart, returned to callers.
type View struct {
	CartID string          `json:"cart_id"`
	Lines  []Line          `json:"lines"`
	Total  decimal.Decimal `json:"total"`
}

// Repository defines persistence operations for carts.
type Repository interface {
	// GetByUser returns the user's cart or ErrNotFound.
	GetByUser(ctx context.Context, userID string) (*Cart, error)
	// Create persists a new empty cart.
	Create(ctx context.Context, c *Cart) error
	// ReplaceItems overwrites the cart's item list.
	ReplaceItems(ctx context.Context, cartID string, items []Item) error
}

// Cache is an optional read-through cache for cart documents. Implementations
// return ErrCacheMiss when no entry exists.
type Cache interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	Set(ctx context.Context, userID string, c *Cart) error
	Delete(ctx context.Context, userID string) error
}
