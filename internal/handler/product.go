package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/product"
)

type productPayload struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	SalePrice decimal.Decimal `json:"salePrice"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Stock     int             `json:"stock"`
	Category  string          `json:"category"`
	ImageURL  string          `json:"imageUrl"`
}

func toProductPayload(p product.Product) productPayload {
	return productPayload{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		SalePrice: p.SalePrice,
		UnitPrice: p.UnitPrice(),
		Stock:     p.Stock,
		Category:  p.Category,
		ImageURL:  p.ImageURL,
	}
}

type productRequest struct {
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	SalePrice decimal.Decimal `json:"salePrice"`
	Stock     int             `json:"stock"`
	Category  string          `json:"category"`
	ImageURL  string          `json:"imageUrl"`
}

func (req productRequest) input() product.Input {
	return product.Input{
		Name:      req.Name,
		Price:     req.Price,
		SalePrice: req.SalePrice,
		Stock:     req.Stock,
		Category:  req.Category,
		ImageURL:  req.ImageURL,
	}
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]productPayload, len(products))
	for i, p := range products {
		out[i] = toProductPayload(p)
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, toProductPayload(*p))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.input().Validate(); err != nil {
		respondError(w, r, err)
		return
	}

	p := &product.Product{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Price:     req.Price,
		SalePrice: req.SalePrice,
		Stock:     req.Stock,
		Category:  req.Category,
		ImageURL:  req.ImageURL,
	}
	if err := h.products.Create(r.Context(), p); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, toProductPayload(*p))
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.input().Validate(); err != nil {
		respondError(w, r, err)
		return
	}

	p := &product.Product{
		ID:        chi.URLParam(r, "id"),
		Name:      req.Name,
		Price:     req.Price,
		SalePrice: req.SalePrice,
		Stock:     req.Stock,
		Category:  req.Category,
		ImageURL:  req.ImageURL,
	}
	if err := h.products.Update(r.Context(), p); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, toProductPayload(*p))
}
