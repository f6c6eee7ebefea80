// Package user holds account records and credential verification.
package user

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// Roles recognized by the authorization layer.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid registration input")
)

// User is a registered account. PasswordHash is a bcrypt hash and never
// leaves the service layer.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Input carries registration fields before hashing.
type Input struct {
	Email    string
	Password string
	FullName string
}

// Validate checks the registration fields.
func (in Input) Validate() error {
	if strings.TrimSpace(in.Email) == "" || !strings.Contains(in.Email, "@") {
		return errors.Wrap(ErrInvalidInput, "valid email is required")
	}
	if len(in.Password) < 8 {
		return errors.Wrap(ErrInvalidInput, "password must be at least 8 characters")
	}
	if strings.TrimSpace(in.FullName) == "" {
		return errors.Wrap(ErrInvalidInput, "full name is required")
	}
	return nil
}

// Repository persists user accounts.
type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
}
