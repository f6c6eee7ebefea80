package billing

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QRConfig identifies the bank account that QR payments are made to.
type QRConfig struct {
	BankCode      string
	AccountNumber string
	AccountName   string
}

// QRPayload is the content of a scannable payment code for one billing.
type QRPayload struct {
	BankCode      string          `json:"bank_code"`
	AccountNumber string          `json:"account_number"`
	AccountName   string          `json:"account_name"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id"`
	URL           string          `json:"url"`
}

// Service manages billing records and payment verification.
type Service struct {
	repo Repository
	qr   QRConfig
	now  func() time.Time
}

// NewService creates a billing Service.
func NewService(repo Repository, qr QRConfig) *Service {
	return &Service{repo: repo, qr: qr, now: time.Now}
}

// New builds an unpersisted billing record for an order. The checkout
// transaction persists it together with the order so the pair cannot diverge.
func (s *Service) New(orderID string, method Method, amount decimal.Decimal) *Billing {
	now := s.now()
	return &Billing{
		ID:            uuid.New().String(),
		OrderID:       orderID,
		Method:        method,
		Amount:        amount,
		Status:        StatusPending,
		TransactionID: uuid.New().String(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// GetByOrder returns the billing record for an order.
func (s *Service) GetByOrder(ctx context.Context, orderID string) (*Billing, error) {
	return s.repo.GetByOrder(ctx, orderID)
}

// VerifyPayment confirms that payment for the order was received. The billing
// transitions to success and, as a side effect of the same database
// transaction, the parent order advances from pending to processing.
// Verifying a non-pending billing fails with ErrAlreadyVerified.
func (s *Service) VerifyPayment(ctx context.Context, orderID string) (*Billing, error) {
	b, err := s.repo.GetByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusPending {
		return nil, ErrAlreadyVerified
	}
	if err := s.repo.MarkPaid(ctx, orderID); err != nil {
		return nil, errors.Wrap(err, "mark paid")
	}
	b.Status = StatusSuccess
	return b, nil
}

// FailPayment records that payment could not be collected.
func (s *Service) FailPayment(ctx context.Context, orderID string) error {
	b, err := s.repo.GetByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if b.Status != StatusPending {
		return ErrAlreadyVerified
	}
	return s.repo.MarkFailed(ctx, orderID)
}

// QRCode builds the scannable payment payload for a QR billing. The payload
// embeds the amount, the receiving account, and the transaction identifier
// that the bank transfer memo must carry.
func (s *Service) QRCode(b *Billing) (*QRPayload, error) {
	if b.Method != MethodQR {
		return nil, errors.Errorf("billing %s uses %s, not QR", b.ID, b.Method)
	}

	q := url.Values{}
	q.Set("amount", b.Amount.StringFixed(0))
	q.Set("accountName", s.qr.AccountName)
	q.Set("addInfo", b.TransactionID)

	return &QRPayload{
		BankCode:      s.qr.BankCode,
		AccountNumber: s.qr.AccountNumber,
		AccountName:   s.qr.AccountName,
		Amount:        b.Amount,
		TransactionID: b.TransactionID,
		URL: fmt.Sprintf("https://img.vietqr.io/image/%s-%s-compact.png?%s",
			s.qr.BankCode, s.qr.AccountNumber, q.Encode()),
	}, nil
}
