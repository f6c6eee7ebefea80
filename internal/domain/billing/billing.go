package billing

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Method enumerates the supported payment methods.
type Method string

const (
	// MethodCOD is cash on delivery; billing stays pending until the parcel
	// is confirmed delivered.
	MethodCOD Method = "cod"
	// MethodQR is bank-transfer payment via a scannable QR payload; billing
	// stays pending until the transfer is confirmed.
	MethodQR Method = "qr"
)

// Status is the payment status of a billing record. It is tracked
// independently of the parent order's status.
type Status string

const (
	StatusPending  Status = "pending"
	StatusSuccess  Status = "success"
	StatusShipping Status = "shipping"
	StatusFailed   Status = "failed"
)

var (
	// ErrNotFound is returned when no billing exists for an order.
	ErrNotFound = errors.New("billing not found")
	// ErrAlreadyVerified is returned when verifying a billing that is no
	// longer pending.
	ErrAlreadyVerified = errors.New("billing already verified")
	// ErrUnknownMethod is returned for payment methods outside the enumeration.
	ErrUnknownMethod = errors.New("unknown payment method")
)

// ParseMethod validates a payment method string.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodCOD, MethodQR:
		return Method(s), nil
	default:
		return "", ErrUnknownMethod
	}
}

// Billing is the one-to-one payment companion of an order. Amount mirrors the
// order's total at creation time. TransactionID identifies the payment with
// the external bank transfer; it is embedded in the QR payload.
type Billing struct {
	ID            string
	OrderID       string
	Method        Method
	Amount        decimal.Decimal
	Status        Status
	TransactionID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Repository defines persistence operations for billing records.
type Repository interface {
	GetByOrder(ctx context.Context, orderID string) (*Billing, error)
	// MarkPaid atomically sets the billing to success and advances the parent
	// order from pending to processing.
	MarkPaid(ctx context.Context, orderID string) error
	// MarkFailed sets the billing to failed without touching the order.
	MarkFailed(ctx context.Context, orderID string) error
}
