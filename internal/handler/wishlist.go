package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) listWishlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.wishlists.List(r.Context(), identity(r).UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, items)
}

func (h *Handler) addWishlistItem(w http.ResponseWriter, r *http.Request) {
	err := h.wishlists.Add(r.Context(), identity(r).UserID, chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusCreated, "added to wishlist")
}

func (h *Handler) removeWishlistItem(w http.ResponseWriter, r *http.Request) {
	err := h.wishlists.Remove(r.Context(), identity(r).UserID, chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "removed from wishlist")
}
