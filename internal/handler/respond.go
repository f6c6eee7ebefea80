package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

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

// envelope is the uniform response body: success plus an optional message
// and payload.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respond(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: true, Message: msg})
}

func respondErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondError maps domain errors to HTTP statuses by error identity. Unknown
// errors become an opaque 500 and are logged with the request context.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zctx.From(r.Context()).Error("internal error", zap.Error(err))
		respondErrorMessage(w, status, "internal server error")
		return
	}
	respondErrorMessage(w, status, err.Error())
}

func statusFor(err error) int {
	var (
		pnf *order.ProductNotFoundError
		iq  *order.InvalidQuantityError
	)
	switch {
	case errors.As(err, &pnf),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, cart.ErrNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, address.ErrNotFound),
		errors.Is(err, billing.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, wishlist.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, user.ErrEmailTaken):
		return http.StatusConflict

	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized

	case errors.Is(err, order.ErrNotOwner):
		return http.StatusForbidden

	case errors.As(err, &iq),
		errors.Is(err, cart.ErrInsufficientStock),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, address.ErrInvalidInput),
		errors.Is(err, user.ErrInvalidInput),
		errors.Is(err, product.ErrInvalidInput),
		errors.Is(err, discount.ErrInvalidRule),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, billing.ErrUnknownMethod),
		errors.Is(err, billing.ErrAlreadyVerified),
		errors.Is(err, discount.ErrInvalidCode),
		errors.Is(err, discount.ErrNotYetActive),
		errors.Is(err, discount.ErrExpired),
		errors.Is(err, discount.ErrMinimumNotMet),
		errors.Is(err, discount.ErrUsageLimitReached),
		errors.Is(err, discount.ErrInvalidValue):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
