package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/product"
)

// Service implements the cart operations. All stock checks read the product's
// current stock at call time; nothing is reserved until checkout.
type Service struct {
	carts    Repository
	products product.Repository
	cache    Cache // nil disables caching
	sfg      singleflight.Group
	now      func() time.Time
}

// NewService creates a cart Service. cache may be nil.
func NewService(carts Repository, products product.Repository, cache Cache) *Service {
	return &Service{
		carts:    carts,
		products: products,
		cache:    cache,
		now:      time.Now,
	}
}

// GetOrCreate returns the user's cart, persisting a new empty one on first
// access. Reads go through the cache when configured; concurrent misses for
// the same user are collapsed with singleflight. Every caller gets its own
// copy of the cart: the shared flight result must never be mutated, since
// concurrent requests for one user would otherwise race on the item slice.
func (s *Service) GetOrCreate(ctx context.Context, userID string) (*Cart, error) {
	v, err, _ := s.sfg.Do(userID, func() (any, error) {
		if s.cache != nil {
			if c, err := s.cache.Get(ctx, userID); err == nil {
				return c, nil
			}
		}

		c, err := s.carts.GetByUser(ctx, userID)
		if errors.Is(err, ErrNotFound) {
			c = s.newCart(userID)
			if err := s.carts.Create(ctx, c); err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}

		s.fillCache(ctx, userID, c)
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Cart).clone(), nil
}

// AddItem adds quantity units of a product to the cart. Quantities below 1
// are clamped to 1. When the product is already in the cart the quantities
// merge additively; the merged total must not exceed the product's stock.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if i := c.find(productID); i >= 0 {
		merged := c.Items[i].Quantity + quantity
		if merged > p.Stock {
			return nil, ErrInsufficientStock
		}
		c.Items[i].Quantity = merged
	} else {
		if quantity > p.Stock {
			return nil, ErrInsufficientStock
		}
		c.Items = append(c.Items, Item{
			ProductID: productID,
			Quantity:  quantity,
			AddedAt:   s.now(),
		})
	}

	return c, s.save(ctx, c)
}

// UpdateItem replaces the quantity of an existing line. Unlike AddItem it
// never merges and rejects quantities below 1.
func (s *Service) UpdateItem(ctx context.Context, userID, productID string, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > p.Stock {
		return nil, ErrInsufficientStock
	}

	c, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := c.find(productID)
	if i < 0 {
		return nil, ErrItemNotFound
	}
	c.Items[i].Quantity = quantity

	return c, s.save(ctx, c)
}

// RemoveItem removes a line from the cart. Removing an absent line is a no-op.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (*Cart, error) {
	c, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := c.find(productID)
	if i < 0 {
		return c, nil
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)

	return c, s.save(ctx, c)
}

// Clear empties the cart, creating it first if it does not exist.
func (s *Service) Clear(ctx context.Context, userID string) error {
	c, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	c.Items = nil
	return s.save(ctx, c)
}

// View prices the cart against the current catalog and returns lines plus the
// running total. The unit price prefers the sale price when one is set.
func (s *Service) View(ctx context.Context, userID string) (*View, error) {
	c, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	v := &View{CartID: c.ID, Lines: make([]Line, 0, len(c.Items)), Total: decimal.Zero}
	if len(c.Items) == 0 {
		return v, nil
	}

	ids := make([]string, len(c.Items))
	for i, it := range c.Items {
		ids[i] = it.ProductID
	}
	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	for _, it := range c.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			// Product was removed from the catalog; skip the stale line.
			continue
		}
		unit := p.UnitPrice()
		lineTotal := unit.Mul(decimal.NewFromInt(int64(it.Quantity)))
		v.Lines = append(v.Lines, Line{
			Product:   p,
			Quantity:  it.Quantity,
			UnitPrice: unit,
			LineTotal: lineTotal,
		})
		v.Total = v.Total.Add(lineTotal)
	}

	return v, nil
}

func (s *Service) newCart(userID string) *Cart {
	now := s.now()
	return &Cart{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// save persists the item list and invalidates the cache entry.
func (s *Service) save(ctx context.Context, c *Cart) error {
	c.UpdatedAt = s.now()
	if err := s.carts.ReplaceItems(ctx, c.ID, c.Items); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, c.UserID); err != nil {
			zctx.From(ctx).Warn("cart cache invalidation failed",
				zap.String("user_id", c.UserID), zap.Error(err))
		}
	}
	return nil
}

func (s *Service) fillCache(ctx context.Context, userID string, c *Cart) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, userID, c); err != nil {
		zctx.From(ctx).Warn("cart cache fill failed",
			zap.String("user_id", userID), zap.Error(err))
	}
}
