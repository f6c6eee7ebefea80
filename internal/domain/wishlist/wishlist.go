// Package wishlist keeps per-user sets of saved products.
package wishlist

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/product"
)

var ErrNotFound = errors.New("wishlist item not found")

// Item is one saved product.
type Item struct {
	ProductID string    `json:"productId"`
	AddedAt   time.Time `json:"addedAt"`
}

// Repository persists wishlist entries. Add is idempotent.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Item, error)
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
}

// Service guards wishlist writes behind product existence checks.
type Service struct {
	repo     Repository
	products product.Repository
}

func NewService(repo Repository, products product.Repository) *Service {
	return &Service{repo: repo, products: products}
}

// List returns the user's saved products, most recent first.
func (s *Service) List(ctx context.Context, userID string) ([]Item, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Add saves a product to the user's wishlist. Saving a product twice is a
// no-op. Unknown products are rejected with product.ErrNotFound.
func (s *Service) Add(ctx context.Context, userID, productID string) error {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return err
	}
	return s.repo.Add(ctx, userID, productID)
}

// Remove drops a product from the user's wishlist.
func (s *Service) Remove(ctx context.Context, userID, productID string) error {
	return s.repo.Remove(ctx, userID, productID)
}
