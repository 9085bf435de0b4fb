package httpx

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/solvesmart/storefront/internal/auth"
)

// AuthHandler menjembatani identity provider eksternal: provider (yang sudah
// memverifikasi login) menukarkan profil menjadi sesi opaque di sini.
// Endpoint-nya dilindungi shared secret, bukan utk publik.
type AuthHandler struct {
	Sessions      *auth.Sessions
	ProviderToken string
}

type sessionReq struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL"`
}

func (h *AuthHandler) Register(r *chi.Mux) {
	r.Post("/auth/sessions", h.createSession)
	r.Group(func(r chi.Router) {
		r.Use(h.Sessions.RequireUser)
		r.Get("/auth/me", h.me)
		r.Delete("/auth/sessions", h.logout)
	})
}

func (h *AuthHandler) createSession(w http.ResponseWriter, r *http.Request) {
	if h.ProviderToken == "" ||
		subtle.ConstantTimeCompare([]byte(r.Header.Get("X-Provider-Token")), []byte(h.ProviderToken)) != 1 {
		writeErr(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	var req sessionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	token, err := h.Sessions.Issue(ctx, auth.Identity{
		UID:      req.UID,
		Name:     req.Name,
		Email:    req.Email,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		if errors.Is(err, auth.ErrBadProfile) {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	writeJSON(w, http.StatusOK, id)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	tok := r.Header.Get("Authorization")
	if len(tok) > 7 {
		tok = tok[7:] // strip "Bearer "
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	_ = h.Sessions.Revoke(ctx, tok)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
