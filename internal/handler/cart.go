package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.View(r.Context(), identity(r).UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondErrorMessage(w, http.StatusBadRequest, "productId is required")
		return
	}

	userID := identity(r).UserID
	if _, err := h.carts.AddItem(r.Context(), userID, req.ProductID, req.Quantity); err != nil {
		respondError(w, r, err)
		return
	}

	view, err := h.carts.View(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	userID := identity(r).UserID
	productID := chi.URLParam(r, "productID")
	if _, err := h.carts.UpdateItem(r.Context(), userID, productID, req.Quantity); err != nil {
		respondError(w, r, err)
		return
	}

	view, err := h.carts.View(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	userID := identity(r).UserID
	if _, err := h.carts.RemoveItem(r.Context(), userID, chi.URLParam(r, "productID")); err != nil {
		respondError(w, r, err)
		return
	}

	view, err := h.carts.View(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), identity(r).UserID); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "cart cleared")
}
