//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestCartFlow(t *testing.T) {
	token := registerUser(t, "cart-flow@test.local")

	// Empty cart to start.
	resp := doReq(t, http.MethodGet, "/api/cart/", token, nil)
	view := decodeData[cartView](t, resp)
	resp.Body.Close()
	if len(view.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(view.Lines))
	}

	// Add 2x coconut candy boxes (65000 each).
	resp = doReq(t, http.MethodPost, "/api/cart/items", token, map[string]any{
		"productId": "coconut-candy-box",
		"quantity":  2,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add item: expected 200, got %d", resp.StatusCode)
	}
	view = decodeData[cartView](t, resp)
	resp.Body.Close()

	if len(view.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(view.Lines))
	}
	if view.Total != "130000" {
		t.Errorf("total: got %s, want 130000", view.Total)
	}

	// Bump the quantity.
	resp = doReq(t, http.MethodPut, "/api/cart/items/coconut-candy-box", token, map[string]any{
		"quantity": 3,
	})
	view = decodeData[cartView](t, resp)
	resp.Body.Close()
	if view.Total != "195000" {
		t.Errorf("total after update: got %s, want 195000", view.Total)
	}

	// Remove the line.
	resp = doReq(t, http.MethodDelete, "/api/cart/items/coconut-candy-box", token, nil)
	view = decodeData[cartView](t, resp)
	resp.Body.Close()
	if len(view.Lines) != 0 {
		t.Errorf("expected empty cart after remove, got %d lines", len(view.Lines))
	}
}

func TestCart_UnknownProduct(t *testing.T) {
	token := registerUser(t, "cart-unknown@test.local")

	resp := doReq(t, http.MethodPost, "/api/cart/items", token, map[string]any{
		"productId": "no-such-product",
		"quantity":  1,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCart_ExceedsStock(t *testing.T) {
	token := registerUser(t, "cart-stock@test.local")

	// coconut-bowl-set is seeded with stock 80.
	resp := doReq(t, http.MethodPost, "/api/cart/items", token, map[string]any{
		"productId": "coconut-bowl-set",
		"quantity":  500,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestWishlistFlow(t *testing.T) {
	token := registerUser(t, "wishlist-flow@test.local")

	resp := doReq(t, http.MethodPost, "/api/wishlist/coconut-milk-1l", token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add: expected 201, got %d", resp.StatusCode)
	}

	resp = doReq(t, http.MethodGet, "/api/wishlist/", token, nil)
	items := decodeData[[]struct {
		ProductID string `json:"productId"`
	}](t, resp)
	resp.Body.Close()

	if len(items) != 1 || items[0].ProductID != "coconut-milk-1l" {
		t.Fatalf("unexpected wishlist: %+v", items)
	}

	resp = doReq(t, http.MethodDelete, "/api/wishlist/coconut-milk-1l", token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove: expected 200, got %d", resp.StatusCode)
	}
}
