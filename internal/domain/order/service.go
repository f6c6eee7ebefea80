package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/address"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/billing"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/discount"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/product"
)

// ProductNotFoundError indicates a checkout line references a product that
// does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return "product " + e.ProductID + " not found"
}

// InvalidQuantityError indicates a checkout line has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return "quantity must be greater than 0 for product " + e.ProductID
}

// DiscountEvaluator validates a discount code against an order amount.
type DiscountEvaluator interface {
	Evaluate(ctx context.Context, code string, orderAmount decimal.Decimal) (*discount.Evaluation, error)
}

// AddressResolver matches checkout shipping input against a user's existing
// addresses and builds new ones.
type AddressResolver interface {
	Resolve(ctx context.Context, userID string, in address.Input) (*address.Address, error)
	Build(userID string, in address.Input) *address.Address
}

// BillingFactory builds unpersisted billing records for new orders.
type BillingFactory interface {
	New(orderID string, method billing.Method, amount decimal.Decimal) *billing.Billing
}

// ItemRequest is one requested checkout line.
type ItemRequest struct {
	ProductID string
	Quantity  int
}

// CheckoutRequest is the input to Checkout.
type CheckoutRequest struct {
	UserID        string
	Items         []ItemRequest
	Shipping      address.Input
	DiscountCode  string
	PaymentMethod billing.Method
}

// CheckoutResult is the outcome of a successful checkout.
type CheckoutResult struct {
	Order   *Order
	Billing *billing.Billing
	Address *address.Address
}

// Service assembles orders from checkout requests and manages the status
// lifecycle afterwards.
type Service struct {
	products    product.Repository
	discounts   DiscountEvaluator
	addresses   AddressResolver
	billings    BillingFactory
	orders      Repository
	store       CheckoutStore
	shippingFee decimal.Decimal
	now         func() time.Time
}

// NewService creates an order Service. shippingFee is the flat fee added to
// every order's total.
func NewService(
	products product.Repository,
	discounts DiscountEvaluator,
	addresses AddressResolver,
	billings BillingFactory,
	orders Repository,
	store CheckoutStore,
	shippingFee decimal.Decimal,
) *Service {
	return &Service{
		products:    products,
		discounts:   discounts,
		addresses:   addresses,
		billings:    billings,
		orders:      orders,
		store:       store,
		shippingFee: shippingFee,
		now:         time.Now,
	}
}

// Checkout runs the full checkout sequence: resolve the shipping address,
// snapshot the requested lines at current prices, evaluate the discount,
// compute the total, and persist order + billing + address + stock decrement
// + discount use as one atomic unit. On any failure nothing is persisted.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if err := req.Shipping.Validate(); err != nil {
		return nil, err
	}
	if _, err := billing.ParseMethod(string(req.PaymentMethod)); err != nil {
		return nil, err
	}

	// Validate quantities and batch-fetch the products.
	ids := make([]string, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
		ids[i] = item.ProductID
	}
	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	byID := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	// Snapshot each line at the current effective price. The snapshot is
	// frozen into the order; later catalog edits never touch it.
	items := make([]Item, len(req.Items))
	subtotal := decimal.Zero
	for i, reqItem := range req.Items {
		p, ok := byID[reqItem.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: reqItem.ProductID}
		}
		unit := p.UnitPrice()
		lineSubtotal := unit.Mul(decimal.NewFromInt(int64(reqItem.Quantity)))
		items[i] = Item{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: unit,
			Quantity:  reqItem.Quantity,
			Subtotal:  lineSubtotal,
		}
		subtotal = subtotal.Add(lineSubtotal)
	}

	// Evaluate the discount against the item subtotal.
	discountAmount := decimal.Zero
	if req.DiscountCode != "" {
		ev, err := s.discounts.Evaluate(ctx, req.DiscountCode, subtotal)
		if err != nil {
			return nil, err
		}
		discountAmount = ev.Amount
	}

	// Resolve the shipping address; defer creation to the transaction so a
	// failed checkout leaves no orphaned address row.
	resolved, err := s.addresses.Resolve(ctx, req.UserID, req.Shipping)
	if err != nil {
		return nil, errors.Wrap(err, "resolve address")
	}
	var newAddr *address.Address
	addr := resolved
	if addr == nil {
		newAddr = s.addresses.Build(req.UserID, req.Shipping)
		addr = newAddr
	}

	total := subtotal.Add(s.shippingFee).Sub(discountAmount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	now := s.now()
	o := &Order{
		ID:             uuid.New().String(),
		UserID:         req.UserID,
		Items:          items,
		AddressID:      addr.ID,
		Subtotal:       subtotal,
		ShippingFee:    s.shippingFee,
		DiscountCode:   req.DiscountCode,
		DiscountAmount: discountAmount,
		Total:          total,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	b := s.billings.New(o.ID, req.PaymentMethod, total)

	co := &Checkout{
		Order:      o,
		Billing:    b,
		NewAddress: newAddr,
	}
	if req.DiscountCode != "" {
		co.ConsumeDiscount = discount.NormalizeCode(req.DiscountCode)
	}

	if err := s.store.Place(ctx, co); err != nil {
		return nil, errors.Wrap(err, "place order")
	}

	return &CheckoutResult{Order: o, Billing: b, Address: addr}, nil
}

// Get returns an order visible to the requester: owners see their own orders,
// admins see all.
func (s *Service) Get(ctx context.Context, userID string, admin bool, orderID string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !admin && o.UserID != userID {
		return nil, ErrNotFound
	}
	return o, nil
}

// ListByUser returns the user's orders.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// ListAll returns every order; admin only, enforced by the caller.
func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	return s.orders.List(ctx)
}

// UpdateStatus moves an order to a new lifecycle status. The target must be
// a recognized status and the move must be legal from the current one.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, next Status) (*Order, error) {
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(next) {
		return nil, errors.Wrapf(ErrInvalidTransition, "%s -> %s", o.Status, next)
	}
	if err := s.orders.UpdateStatus(ctx, orderID, next); err != nil {
		return nil, err
	}
	o.Status = next
	return o, nil
}

// Cancel cancels an order on behalf of a user. The order must belong to the
// requester (unless the requester is an admin) and still be cancellable.
func (s *Service) Cancel(ctx context.Context, userID string, admin bool, orderID string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !admin && o.UserID != userID {
		return nil, ErrNotOwner
	}
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return nil, errors.Wrapf(ErrInvalidTransition, "%s -> %s", o.Status, StatusCancelled)
	}
	if err := s.orders.UpdateStatus(ctx, orderID, StatusCancelled); err != nil {
		return nil, err
	}
	o.Status = StatusCancelled
	return o, nil
}
