package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/billing"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/order"
)

type checkoutItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type checkoutRequest struct {
	Items         []checkoutItem `json:"items"`
	Shipping      addressRequest `json:"shipping"`
	DiscountCode  string         `json:"discountCode"`
	PaymentMethod string         `json:"paymentMethod"`
}

type checkoutResponse struct {
	Order   *order.Order     `json:"order"`
	Billing *billing.Billing `json:"billing"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	items := make([]order.ItemRequest, len(req.Items))
	for i, it := range req.Items {
		items[i] = order.ItemRequest{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	res, err := h.orders.Checkout(r.Context(), order.CheckoutRequest{
		UserID:        identity(r).UserID,
		Items:         items,
		Shipping:      req.Shipping.input(),
		DiscountCode:  req.DiscountCode,
		PaymentMethod: billing.Method(req.PaymentMethod),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, checkoutResponse{Order: res.Order, Billing: res.Billing})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListByUser(r.Context(), identity(r).UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) listAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	o, err := h.orders.Get(r.Context(), id.UserID, id.Admin(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	o, err := h.orders.Cancel(r.Context(), id.UserID, id.Admin(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, o)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), order.Status(req.Status))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, o)
}
