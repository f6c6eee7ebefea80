package discount

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Type enumerates the supported discount strategies.
type Type string

const (
	// TypePercentage applies a percentage of the order amount.
	TypePercentage Type = "percentage"
	// TypeFixed subtracts a fixed amount, capped at the order amount.
	TypeFixed Type = "fixed"
)

var (
	// ErrInvalidCode is returned when no active discount matches the code.
	ErrInvalidCode = errors.New("invalid discount code")
	// ErrNotYetActive is returned when the discount's window has not opened.
	ErrNotYetActive = errors.New("discount not yet active")
	// ErrExpired is returned when the discount's window has closed.
	ErrExpired = errors.New("discount expired")
	// ErrMinimumNotMet is returned when the order amount is below the
	// discount's minimum order value.
	ErrMinimumNotMet = errors.New("minimum order value not met")
	// ErrUsageLimitReached is returned when a discount has exhausted its uses.
	ErrUsageLimitReached = errors.New("discount usage limit reached")
	// ErrInvalidValue is returned when creating a rule with an out-of-range value.
	ErrInvalidValue = errors.New("invalid discount value")
	// ErrInvalidRule is returned when a rule's non-value fields are malformed.
	ErrInvalidRule = errors.New("invalid discount rule")
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Rule defines a discount code's behaviour and eligibility constraints.
// Codes are matched case-insensitively. Rules are soft-deleted, never removed.
type Rule struct {
	ID            string
	Code          string
	Type          Type
	Value         decimal.Decimal
	MinOrderValue decimal.Decimal
	// MaxDiscount caps percentage discounts when positive; zero means no cap.
	MaxDiscount decimal.Decimal
	StartDate   time.Time
	EndDate     time.Time
	// MaxUses of zero means unlimited.
	MaxUses     int
	Uses        int
	Description string
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate rejects rules that violate model invariants.
func (r *Rule) Validate() error {
	switch r.Type {
	case TypePercentage:
		if r.Value.LessThan(one) || r.Value.GreaterThan(hundred) {
			return errors.Wrap(ErrInvalidValue, "percentage must be within [1,100]")
		}
	case TypeFixed:
		if !r.Value.IsPositive() {
			return errors.Wrap(ErrInvalidValue, "fixed amount must be positive")
		}
	default:
		return errors.Wrapf(ErrInvalidRule, "unsupported discount type %q", r.Type)
	}
	if r.Code == "" {
		return errors.Wrap(ErrInvalidRule, "code is required")
	}
	if r.EndDate.Before(r.StartDate) {
		return errors.Wrap(ErrInvalidRule, "end date before start date")
	}
	return nil
}

// Evaluation is the outcome of applying a rule to an order amount.
type Evaluation struct {
	Rule        *Rule
	OrderAmount decimal.Decimal
	Amount      decimal.Decimal
	FinalPrice  decimal.Decimal
}

// NormalizeCode canonicalizes a discount code for case-insensitive matching.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Apply computes the discount a rule grants on orderAmount. It checks only
// amount-dependent constraints; temporal and usage checks belong to the
// Evaluator, which knows the clock and the stored usage count.
//
// Percentage: orderAmount * value / 100, clamped to MaxDiscount when set.
// Fixed: min(value, orderAmount), so the discount never exceeds the order.
func Apply(rule *Rule, orderAmount decimal.Decimal) (Evaluation, error) {
	if orderAmount.LessThan(rule.MinOrderValue) {
		return Evaluation{}, ErrMinimumNotMet
	}

	var amount decimal.Decimal
	switch rule.Type {
	case TypePercentage:
		amount = orderAmount.Mul(rule.Value).Div(hundred)
		if rule.MaxDiscount.IsPositive() && amount.GreaterThan(rule.MaxDiscount) {
			amount = rule.MaxDiscount
		}
	case TypeFixed:
		amount = decimal.Min(rule.Value, orderAmount)
	default:
		return Evaluation{}, errors.Errorf("unsupported discount type: %q", rule.Type)
	}

	amount = amount.Round(2)
	return Evaluation{
		Rule:        rule,
		OrderAmount: orderAmount,
		Amount:      amount,
		FinalPrice:  orderAmount.Sub(amount),
	}, nil
}

// Repository defines persistence operations for discount rules.
type Repository interface {
	// FindByCode returns the non-deleted rule matching the normalized code,
	// or ErrInvalidCode.
	FindByCode(ctx context.Context, code string) (*Rule, error)
	List(ctx context.Context) ([]Rule, error)
	Create(ctx context.Context, r *Rule) error
	Update(ctx context.Context, r *Rule) error
	// SoftDelete marks the rule deleted without removing the row.
	SoftDelete(ctx context.Context, id string) error
}
