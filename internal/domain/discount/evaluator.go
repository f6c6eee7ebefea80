package discount

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Evaluator validates a discount code against an order amount and computes
// the discount. Validation and application share this single computation;
// consuming a use is deferred to the checkout transaction so that concurrent
// checkouts cannot over-apply a limited code.
type Evaluator struct {
	repo Repository
	now  func() time.Time
}

// NewEvaluator creates an Evaluator backed by the given Repository.
func NewEvaluator(repo Repository) *Evaluator {
	return &Evaluator{repo: repo, now: time.Now}
}

// Evaluate looks up the rule for code, checks the validity window, the usage
// limit, and the minimum order value, and returns the computed discount.
// It performs no writes and is safe to call from the read-only validate
// endpoint as well as from checkout.
func (e *Evaluator) Evaluate(ctx context.Context, code string, orderAmount decimal.Decimal) (*Evaluation, error) {
	rule, err := e.repo.FindByCode(ctx, NormalizeCode(code))
	if err != nil {
		if errors.Is(err, ErrInvalidCode) {
			return nil, ErrInvalidCode
		}
		return nil, errors.Wrap(err, "lookup discount")
	}
	if rule.Deleted {
		return nil, ErrInvalidCode
	}

	now := e.now()
	if now.Before(rule.StartDate) {
		return nil, ErrNotYetActive
	}
	if now.After(rule.EndDate) {
		return nil, ErrExpired
	}

	if rule.MaxUses > 0 && rule.Uses >= rule.MaxUses {
		return nil, ErrUsageLimitReached
	}

	ev, err := Apply(rule, orderAmount)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}
