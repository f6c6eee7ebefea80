package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/address"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/billing"
)

// Status is an order's position in its fulfilment lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// transitions is the set of legal status moves. Cancellation is reachable
// only before shipment; delivered and cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// Valid reports whether s is a recognized member of the enumeration.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s Status) CanTransitionTo(next Status) bool {
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

var (
	// ErrNotFound is returned when a requested order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrEmptyItems is returned when checking out with no items.
	ErrEmptyItems = errors.New("items required")
	// ErrInvalidStatus is returned for status values outside the enumeration.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidTransition is returned for moves the lifecycle forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrNotOwner is returned when a user acts on another user's order.
	ErrNotOwner = errors.New("order belongs to another user")
)

// Item is a frozen snapshot of one checkout line. Name, unit price, and
// subtotal are captured at checkout time and never change afterwards, even
// when the referenced product's price is later edited.
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Order is an immutable record of a checkout. Only Status and UpdatedAt
// change after creation.
type Order struct {
	ID             string
	UserID         string
	Items          []Item
	AddressID      string
	Subtotal       decimal.Decimal
	ShippingFee    decimal.Decimal
	DiscountCode   string
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Checkout bundles everything one checkout must persist atomically: the
// order, its billing record, the shipping address when it is new, and the
// discount code whose use must be consumed. Storage implementations apply
// the whole bundle in a single transaction, including the conditional stock
// decrement derived from the order items.
type Checkout struct {
	Order   *Order
	Billing *billing.Billing
	// NewAddress is nil when Order.AddressID references an existing row.
	NewAddress *address.Address
	// ConsumeDiscount, when set, requires atomically incrementing the code's
	// usage count; the transaction fails if the limit is already exhausted.
	ConsumeDiscount string
}

// Repository defines read and status-update operations for orders.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	List(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// CheckoutStore persists a Checkout bundle atomically.
type CheckoutStore interface {
	Place(ctx context.Context, co *Checkout) error
}
