package address

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var (
	// ErrNotFound is returned when a requested address does not exist or
	// belongs to a different user.
	ErrNotFound = errors.New("address not found")
	// ErrInvalidInput is returned when an address is missing required fields.
	ErrInvalidInput = errors.New("invalid address")
)

// Address is a shipping address in a user's address book. At most one address
// per user is marked default; setting a new default clears all others first.
type Address struct {
	ID        string
	UserID    string
	FullName  string
	Phone     string
	Street    string
	Ward      string
	City      string
	State     string
	Country   string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Input holds the address fields submitted at checkout or address-book edits.
type Input struct {
	FullName string
	Phone    string
	Street   string
	Ward     string
	City     string
	State    string
	Country  string
}

// Validate rejects inputs missing the fields required to ship an order.
func (in Input) Validate() error {
	if in.FullName == "" {
		return errors.Wrap(ErrInvalidInput, "full name is required")
	}
	if in.Phone == "" {
		return errors.Wrap(ErrInvalidInput, "phone is required")
	}
	if in.Street == "" {
		return errors.Wrap(ErrInvalidInput, "street is required")
	}
	if in.City == "" {
		return errors.Wrap(ErrInvalidInput, "city is required")
	}
	return nil
}

// Repository defines persistence operations for addresses.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Address, error)
	GetByID(ctx context.Context, id string) (*Address, error)
	Create(ctx context.Context, a *Address) error
	Update(ctx context.Context, a *Address) error
	Delete(ctx context.Context, id string) error
	// ClearDefaults unsets the default flag on every address of the user.
	ClearDefaults(ctx context.Context, userID string) error
	// MarkDefault sets the default flag on one address.
	MarkDefault(ctx context.Context, id string) error
}
