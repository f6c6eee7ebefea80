// Package handler exposes the REST API: a chi router over the domain
// services with a uniform JSON envelope.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/auth"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/address"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/billing"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/cart"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/discount"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/order"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/product"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/user"
	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/wishlist"
)

// Handler holds every domain service the API surfaces.
type Handler struct {
	users     *user.Service
	tokens    *auth.Service
	products  product.Repository
	carts     *cart.Service
	wishlists *wishlist.Service
	discounts discount.Repository
	evaluator *discount.Evaluator
	addresses *address.Service
	orders    *order.Service
	billings  *billing.Service
}

// NewHandler assembles the API handler from its services.
func NewHandler(
	users *user.Service,
	tokens *auth.Service,
	products product.Repository,
	carts *cart.Service,
	wishlists *wishlist.Service,
	discounts discount.Repository,
	evaluator *discount.Evaluator,
	addresses *address.Service,
	orders *order.Service,
	billings *billing.Service,
) *Handler {
	return &Handler{
		users:     users,
		tokens:    tokens,
		products:  products,
		carts:     carts,
		wishlists: wishlists,
		discounts: discounts,
		evaluator: evaluator,
		addresses: addresses,
		orders:    orders,
		billings:  billings,
	}
}

// Router builds the /api route tree.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.With(RequireAuth(h.tokens)).Get("/me", h.me)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Get("/{id}", h.getProduct)
		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(h.tokens), RequireAdmin)
			r.Post("/", h.createProduct)
			r.Put("/{id}", h.updateProduct)
		})
	})

	r.Route("/cart", func(r chi.Router) {
		r.Use(RequireAuth(h.tokens))
		r.Get("/", h.getCart)
		r.Delete("/", h.clearCart)
		r.Post("/items", h.addCartItem)
		r.Put("/items/{productID}", h.updateCartItem)
		r.Delete("/items/{productID}", h.removeCartItem)
	})

	r.Route("/wishlist", func(r chi.Router) {
		r.Use(RequireAuth(h.tokens))
		r.Get("/", h.listWishlist)
		r.Post("/{productID}", h.addWishlistItem)
		r.Delete("/{productID}", h.removeWishlistItem)
	})

	r.Route("/discounts", func(r chi.Router) {
		r.With(RequireAuth(h.tokens)).Post("/validate", h.validateDiscount)
		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(h.tokens), RequireAdmin)
			r.Get("/", h.listDiscounts)
			r.Post("/", h.createDiscount)
			r.Put("/{id}", h.updateDiscount)
			r.Delete("/{id}", h.deleteDiscount)
		})
	})

	r.Route("/addresses", func(r chi.Router) {
		r.Use(RequireAuth(h.tokens))
		r.Get("/", h.listAddresses)
		r.Post("/", h.createAddress)
		r.Put("/{id}", h.updateAddress)
		r.Delete("/{id}", h.deleteAddress)
		r.Post("/{id}/default", h.setDefaultAddress)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(RequireAuth(h.tokens))
		r.Post("/checkout", h.checkout)
		r.Get("/", h.listOrders)
		r.With(RequireAdmin).Get("/all", h.listAllOrders)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getOrder)
			r.Post("/cancel", h.cancelOrder)
			r.With(RequireAdmin).Put("/status", h.updateOrderStatus)
			r.Route("/billing", func(r chi.Router) {
				r.Get("/", h.getBilling)
				r.Get("/qr", h.getBillingQR)
				r.With(RequireAdmin).Post("/verify", h.verifyPayment)
				r.With(RequireAdmin).Post("/fail", h.failPayment)
			})
		})
	})

	return r
}
