//go:build integration

package integration

import (
	"net/http"
	"regexp"
	"testing"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func placeOrder(t *testing.T, token string, req checkoutRequest) checkoutResponse {
	t.Helper()

	resp := doReq(t, http.MethodPost, "/api/orders/checkout", token, req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("checkout: expected 201, got %d", resp.StatusCode)
	}

	return decodeData[checkoutResponse](t, resp)
}

func candyOrder(quantity int) checkoutRequest {
	req := checkoutRequest{
		Shipping:      defaultShipping(),
		PaymentMethod: "cod",
	}
	req.Items = append(req.Items, struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}{ProductID: "coconut-candy-box", Quantity: quantity})
	return req
}

func TestCheckout_COD(t *testing.T) {
	token := registerUser(t, "checkout-cod@test.local")

	res := placeOrder(t, token, candyOrder(2))

	if !uuidPattern.MatchString(res.Order.ID) {
		t.Errorf("order ID %q is not a valid UUID", res.Order.ID)
	}
	// 2 x 65000 + 30000 shipping.
	if res.Order.Subtotal != "130000" {
		t.Errorf("subtotal: got %s, want 130000", res.Order.Subtotal)
	}
	if res.Order.Total != "160000" {
		t.Errorf("total: got %s, want 160000", res.Order.Total)
	}
	if res.Order.Status != "pending" {
		t.Errorf("status: got %s, want pending", res.Order.Status)
	}
	if res.Billing.Method != "cod" {
		t.Errorf("billing method: got %s", res.Billing.Method)
	}
	if res.Billing.Amount != res.Order.Total {
		t.Errorf("billing amount %s != order total %s", res.Billing.Amount, res.Order.Total)
	}
}

func TestCheckout_WithDiscount(t *testing.T) {
	token := registerUser(t, "checkout-discount@test.local")

	req := candyOrder(2)
	req.DiscountCode = "save10"

	res := placeOrder(t, token, req)

	// Codes match case-insensitively; SAVE10 takes 30000 off orders over 100000.
	if res.Order.DiscountCode != "SAVE10" {
		t.Errorf("discount code: got %s, want SAVE10", res.Order.DiscountCode)
	}
	if res.Order.DiscountAmount != "30000" {
		t.Errorf("discount amount: got %s, want 30000", res.Order.DiscountAmount)
	}
	if res.Order.Total != "130000" {
		t.Errorf("total: got %s, want 130000", res.Order.Total)
	}
}

func TestCheckout_InvalidDiscount(t *testing.T) {
	token := registerUser(t, "checkout-badcode@test.local")

	req := candyOrder(2)
	req.DiscountCode = "NOSUCHCODE"

	resp := doReq(t, http.MethodPost, "/api/orders/checkout", token, req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCheckout_EmptyItems(t *testing.T) {
	token := registerUser(t, "checkout-empty@test.local")

	req := checkoutRequest{Shipping: defaultShipping(), PaymentMethod: "cod"}
	resp := doReq(t, http.MethodPost, "/api/orders/checkout", token, req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCheckout_QRBilling(t *testing.T) {
	token := registerUser(t, "checkout-qr@test.local")

	req := candyOrder(1)
	req.PaymentMethod = "qr"

	res := placeOrder(t, token, req)
	if res.Billing.Method != "qr" {
		t.Fatalf("billing method: got %s, want qr", res.Billing.Method)
	}

	resp := doReq(t, http.MethodGet, "/api/orders/"+res.Order.ID+"/billing/qr", token, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("qr: expected 200, got %d", resp.StatusCode)
	}

	qr := decodeData[struct {
		BankCode      string `json:"bank_code"`
		AccountNumber string `json:"account_number"`
		Amount        string `json:"amount"`
		URL           string `json:"url"`
	}](t, resp)

	if qr.BankCode == "" || qr.AccountNumber == "" || qr.URL == "" {
		t.Errorf("incomplete QR payload: %+v", qr)
	}
	if qr.Amount != res.Billing.Amount {
		t.Errorf("qr amount %s != billing amount %s", qr.Amount, res.Billing.Amount)
	}
}

func TestOrder_VerifyPayment(t *testing.T) {
	token := registerUser(t, "verify-payment@test.local")

	req := candyOrder(1)
	req.PaymentMethod = "qr"
	res := placeOrder(t, token, req)

	resp := doReq(t, http.MethodPost, "/api/orders/"+res.Order.ID+"/billing/verify", adminToken(t), nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d", resp.StatusCode)
	}

	// Verifying moves the order from pending to processing.
	resp = doReq(t, http.MethodGet, "/api/orders/"+res.Order.ID+"/", token, nil)
	o := decodeData[orderView](t, resp)
	resp.Body.Close()
	if o.Status != "processing" {
		t.Errorf("status after verify: got %s, want processing", o.Status)
	}

	// A second verification is rejected.
	resp = doReq(t, http.MethodPost, "/api/orders/"+res.Order.ID+"/billing/verify", adminToken(t), nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("double verify: expected 400, got %d", resp.StatusCode)
	}
}

func TestOrder_Cancel(t *testing.T) {
	token := registerUser(t, "cancel-order@test.local")

	res := placeOrder(t, token, candyOrder(1))

	resp := doReq(t, http.MethodPost, "/api/orders/"+res.Order.ID+"/cancel", token, nil)
	o := decodeData[orderView](t, resp)
	resp.Body.Close()

	if o.Status != "cancelled" {
		t.Errorf("status: got %s, want cancelled", o.Status)
	}
}

func TestOrder_OtherUserCannotSee(t *testing.T) {
	owner := registerUser(t, "order-owner@test.local")
	stranger := registerUser(t, "order-stranger@test.local")

	res := placeOrder(t, owner, candyOrder(1))

	resp := doReq(t, http.MethodGet, "/api/orders/"+res.Order.ID+"/", stranger, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestOrder_StockDecremented(t *testing.T) {
	token := registerUser(t, "stock-check@test.local")

	before := getProductStock(t, "coconut-sugar-250")

	req := checkoutRequest{Shipping: defaultShipping(), PaymentMethod: "cod"}
	req.Items = append(req.Items, struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}{ProductID: "coconut-sugar-250", Quantity: 3})
	placeOrder(t, token, req)

	after := getProductStock(t, "coconut-sugar-250")
	if after != before-3 {
		t.Errorf("stock: got %d, want %d", after, before-3)
	}
}

func getProductStock(t *testing.T, id string) int {
	t.Helper()

	resp := doGet(t, "/api/products/"+id)
	defer resp.Body.Close()

	p := decodeData[productResponse](t, resp)
	return p.Stock
}
