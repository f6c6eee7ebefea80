package address

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Service manages a user's address book and resolves checkout addresses
// against it to avoid near-duplicate rows.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates an address Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns the user's addresses.
func (s *Service) List(ctx context.Context, userID string) ([]Address, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns one of the user's addresses, or ErrNotFound when the address
// does not exist or belongs to a different user.
func (s *Service) Get(ctx context.Context, userID, id string) (*Address, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, ErrNotFound
	}
	return a, nil
}

// Create adds a new address to the user's book.
func (s *Service) Create(ctx context.Context, userID string, in Input) (*Address, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	a := s.build(userID, in)
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update replaces the fields of one of the user's addresses.
func (s *Service) Update(ctx context.Context, userID, id string, in Input) (*Address, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	a, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	a.FullName = in.FullName
	a.Phone = in.Phone
	a.Street = in.Street
	a.Ward = in.Ward
	a.City = in.City
	a.State = in.State
	a.Country = in.Country
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes one of the user's addresses.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// SetDefault marks one address as the user's default. Defaults on every other
// address are cleared unconditionally first, so at most one default exists.
func (s *Service) SetDefault(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.ClearDefaults(ctx, userID); err != nil {
		return errors.Wrap(err, "clear defaults")
	}
	return s.repo.MarkDefault(ctx, id)
}

// Resolve searches the user's existing addresses for one matching the
// submitted checkout input. Matching is heuristic: first an exact comparison
// of the normalized street/city/state/ward/phone, then a looser substring
// comparison over the same fields plus the full name. It returns nil when
// nothing matches; it never creates.
func (s *Service) Resolve(ctx context.Context, userID string, in Input) (*Address, error) {
	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	want := normalize(in)
	for i := range existing {
		if normalizeAddress(&existing[i]) == want {
			return &existing[i], nil
		}
	}
	for i := range existing {
		if looseMatch(&existing[i], in) {
			return &existing[i], nil
		}
	}
	return nil, nil
}

// FindOrCreate resolves the input against the user's book and creates a new
// address on no match. Checkout does not use this directly: it resolves
// first and defers creation to the checkout transaction.
func (s *Service) FindOrCreate(ctx context.Context, userID string, in Input) (*Address, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if a, err := s.Resolve(ctx, userID, in); err != nil {
		return nil, err
	} else if a != nil {
		return a, nil
	}
	a := s.build(userID, in)
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Build constructs an unpersisted Address from checkout input. The checkout
// transaction persists it together with the order.
func (s *Service) Build(userID string, in Input) *Address {
	return s.build(userID, in)
}

func (s *Service) build(userID string, in Input) *Address {
	now := s.now()
	return &Address{
		ID:        uuid.New().String(),
		UserID:    userID,
		FullName:  in.FullName,
		Phone:     in.Phone,
		Street:    in.Street,
		Ward:      in.Ward,
		City:      in.City,
		State:     in.State,
		Country:   in.Country,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// normKey is the normalized identity of an address used for exact matching.
type normKey struct {
	street, city, state, ward, phone string
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalize(in Input) normKey {
	return normKey{
		street: norm(in.Street),
		city:   norm(in.City),
		state:  norm(in.State),
		ward:   norm(in.Ward),
		phone:  norm(in.Phone),
	}
}

func normalizeAddress(a *Address) normKey {
	return normKey{
		street: norm(a.Street),
		city:   norm(a.City),
		state:  norm(a.State),
		ward:   norm(a.Ward),
		phone:  norm(a.Phone),
	}
}

// looseMatch reports whether every populated field of the input is a
// substring of the stored field (or vice versa), including the full name.
// Collisions and false negatives are possible; this is a dedup heuristic,
// not an identity check.
func looseMatch(a *Address, in Input) bool {
	pairs := [][2]string{
		{norm(a.Street), norm(in.Street)},
		{norm(a.City), norm(in.City)},
		{norm(a.State), norm(in.State)},
		{norm(a.Ward), norm(in.Ward)},
		{norm(a.Phone), norm(in.Phone)},
		{norm(a.FullName), norm(in.FullName)},
	}
	for _, p := range pairs {
		stored, submitted := p[0], p[1]
		if stored == "" || submitted == "" {
			continue
		}
		if !strings.Contains(stored, submitted) && !strings.Contains(submitted, stored) {
			return false
		}
	}
	return true
}
