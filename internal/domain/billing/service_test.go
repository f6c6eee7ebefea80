package billing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBillingRepo struct {
	byOrder map[string]*Billing
	paid    []string
	failed  []string
}

func newMockBillingRepo(bs ...*Billing) *mockBillingRepo {
	m := &mockBillingRepo{byOrder: make(map[string]*Billing)}
	for _, b := range bs {
		m.byOrder[b.OrderID] = b
	}
	return m
}

func (m *mockBillingRepo) GetByOrder(_ context.Context, orderID string) (*Billing, error) {
	b, ok := m.byOrder[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *mockBillingRepo) MarkPaid(_ context.Context, orderID string) error {
	m.paid = append(m.paid, orderID)
	m.byOrder[orderID].Status = StatusSuccess
	return nil
}

func (m *mockBillingRepo) MarkFailed(_ context.Context, orderID string) error {
	m.failed = append(m.failed, orderID)
	m.byOrder[orderID].Status = StatusFailed
	return nil
}

func testConfig() QRConfig {
	return QRConfig{BankCode: "970422", AccountNumber: "0123456789", AccountName: "HAN FOODS"}
}

func TestNew_StartsPending(t *testing.T) {
	svc := NewService(newMockBillingRepo(), testConfig())

	b := svc.New("o1", MethodCOD, decimal.NewFromInt(210000))
	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, "o1", b.OrderID)
	assert.NotEmpty(t, b.TransactionID)
	assert.True(t, decimal.NewFromInt(210000).Equal(b.Amount))
}

func TestVerifyPayment(t *testing.T) {
	b := &Billing{ID: "b1", OrderID: "o1", Method: MethodQR, Status: StatusPending}
	repo := newMockBillingRepo(b)
	svc := NewService(repo, testConfig())

	got, err := svc.VerifyPayment(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, got.Status)
	assert.Equal(t, []string{"o1"}, repo.paid)

	// Verifying again fails: the billing is no longer pending.
	_, err = svc.VerifyPayment(context.Background(), "o1")
	require.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestVerifyPayment_UnknownOrder(t *testing.T) {
	svc := NewService(newMockBillingRepo(), testConfig())

	_, err := svc.VerifyPayment(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFailPayment(t *testing.T) {
	b := &Billing{ID: "b1", OrderID: "o1", Method: MethodQR, Status: StatusPending}
	repo := newMockBillingRepo(b)
	svc := NewService(repo, testConfig())

	require.NoError(t, svc.FailPayment(context.Background(), "o1"))
	assert.Equal(t, []string{"o1"}, repo.failed)
}

func TestQRCode(t *testing.T) {
	svc := NewService(newMockBillingRepo(), testConfig())
	b := svc.New("o1", MethodQR, decimal.NewFromInt(240000))

	payload, err := svc.QRCode(b)
	require.NoError(t, err)
	assert.Equal(t, "970422", payload.BankCode)
	assert.Equal(t, b.TransactionID, payload.TransactionID)
	assert.Contains(t, payload.URL, "970422-0123456789")
	assert.Contains(t, payload.URL, "amount=240000")
	assert.Contains(t, payload.URL, b.TransactionID)
}

func TestQRCode_RejectsCOD(t *testing.T) {
	svc := NewService(newMockBillingRepo(), testConfig())
	b := svc.New("o1", MethodCOD, decimal.NewFromInt(1000))

	_, err := svc.QRCode(b)
	require.Error(t, err)
}

func TestParseMethod(t *testing.T) {
	for _, valid := range []string{"cod", "qr"} {
		m, err := ParseMethod(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, string(m))
	}
	_, err := ParseMethod("paypal")
	require.ErrorIs(t, err, ErrUnknownMethod)
}
