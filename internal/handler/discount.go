package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/discount"
)

type validateDiscountRequest struct {
	Code        string          `json:"code"`
	OrderAmount decimal.Decimal `json:"orderAmount"`
}

type validateDiscountResponse struct {
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalPrice     decimal.Decimal `json:"finalPrice"`
}

func (h *Handler) validateDiscount(w http.ResponseWriter, r *http.Request) {
	var req validateDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ev, err := h.evaluator.Evaluate(r.Context(), req.Code, req.OrderAmount)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, validateDiscountResponse{
		Code:           ev.Rule.Code,
		DiscountAmount: ev.Amount,
		FinalPrice:     ev.FinalPrice,
	})
}

type discountRequest struct {
	Code          string          `json:"code"`
	Type          discount.Type   `json:"type"`
	Value         decimal.Decimal `json:"value"`
	MinOrderValue decimal.Decimal `json:"minOrderValue"`
	MaxDiscount   decimal.Decimal `json:"maxDiscount"`
	StartDate     time.Time       `json:"startDate"`
	EndDate       time.Time       `json:"endDate"`
	MaxUses       int             `json:"maxUses"`
	Description   string          `json:"description"`
}

func (req discountRequest) rule() *discount.Rule {
	return &discount.Rule{
		Code:          discount.NormalizeCode(req.Code),
		Type:          req.Type,
		Value:         req.Value,
		MinOrderValue: req.MinOrderValue,
		MaxDiscount:   req.MaxDiscount,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		MaxUses:       req.MaxUses,
		Description:   req.Description,
	}
}

func (h *Handler) listDiscounts(w http.ResponseWriter, r *http.Request) {
	rules, err := h.discounts.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, rules)
}

func (h *Handler) createDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rule := req.rule()
	rule.ID = uuid.New().String()
	now := time.Now()
	rule.CreatedAt = now
	rule.UpdatedAt = now
	if err := rule.Validate(); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.discounts.Create(r.Context(), rule); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, rule)
}

func (h *Handler) updateDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rule := req.rule()
	rule.ID = chi.URLParam(r, "id")
	if err := rule.Validate(); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.discounts.Update(r.Context(), rule); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, rule)
}

func (h *Handler) deleteDiscount(w http.ResponseWriter, r *http.Request) {
	if err := h.discounts.SoftDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "discount deleted")
}
