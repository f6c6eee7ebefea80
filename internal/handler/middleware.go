package handler

import (
	"net/http"
	"strings"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/auth"
)

// RequireAuth rejects requests without a valid Bearer token and attaches the
// caller's identity to the request context.
func RequireAuth(tokens *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				respondErrorMessage(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			id, err := tokens.Parse(token)
			if err != nil {
				respondError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAdmin rejects authenticated callers without the admin role. Must be
// mounted inside RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFrom(r.Context())
		if !ok || !id.Admin() {
			respondErrorMessage(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// identity returns the authenticated caller. Handlers behind RequireAuth can
// rely on it being present.
func identity(r *http.Request) *auth.Identity {
	id, _ := auth.IdentityFrom(r.Context())
	return id
}
