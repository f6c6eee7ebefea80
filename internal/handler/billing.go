package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/billing"
)

// billingFor loads the billing of an order after checking the caller may see
// the order at all.
func (h *Handler) billingFor(r *http.Request) (*billing.Billing, error) {
	id := identity(r)
	orderID := chi.URLParam(r, "id")
	if _, err := h.orders.Get(r.Context(), id.UserID, id.Admin(), orderID); err != nil {
		return nil, err
	}
	return h.billings.GetByOrder(r.Context(), orderID)
}

func (h *Handler) getBilling(w http.ResponseWriter, r *http.Request) {
	b, err := h.billingFor(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, b)
}

func (h *Handler) getBillingQR(w http.ResponseWriter, r *http.Request) {
	b, err := h.billingFor(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	payload, err := h.billings.QRCode(b)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, payload)
}

func (h *Handler) verifyPayment(w http.ResponseWriter, r *http.Request) {
	b, err := h.billings.VerifyPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, b)
}

func (h *Handler) failPayment(w http.ResponseWriter, r *http.Request) {
	if err := h.billings.FailPayment(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "payment marked failed")
}
