package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/user"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      *user.User `json:"user"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	u, err := h.users.Register(r.Context(), user.Input{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	token, expiresAt, err := h.tokens.Generate(u.ID, u.Role)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, authResponse{Token: token, ExpiresAt: expiresAt, User: u})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	token, expiresAt, err := h.tokens.Generate(u.ID, u.Role)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, authResponse{Token: token, ExpiresAt: expiresAt, User: u})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), identity(r).UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, u)
}
