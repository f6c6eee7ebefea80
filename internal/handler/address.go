package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/address"
)

type addressRequest struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	Ward     string `json:"ward"`
	City     string `json:"city"`
	State    string `json:"state"`
	Country  string `json:"country"`
}

func (req addressRequest) input() address.Input {
	return address.Input{
		FullName: req.FullName,
		Phone:    req.Phone,
		Street:   req.Street,
		Ward:     req.Ward,
		City:     req.City,
		State:    req.State,
		Country:  req.Country,
	}
}

func (h *Handler) listAddresses(w http.ResponseWriter, r *http.Request) {
	addrs, err := h.addresses.List(r.Context(), identity(r).UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, addrs)
}

func (h *Handler) createAddress(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	a, err := h.addresses.Create(r.Context(), identity(r).UserID, req.input())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, a)
}

func (h *Handler) updateAddress(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	a, err := h.addresses.Update(r.Context(), identity(r).UserID, chi.URLParam(r, "id"), req.input())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, a)
}

func (h *Handler) deleteAddress(w http.ResponseWriter, r *http.Request) {
	if err := h.addresses.Delete(r.Context(), identity(r).UserID, chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "address deleted")
}

func (h *Handler) setDefaultAddress(w http.ResponseWriter, r *http.Request) {
	if err := h.addresses.SetDefault(r.Context(), identity(r).UserID, chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "default address set")
}
