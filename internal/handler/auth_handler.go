package handler

import (
	"encoding/json"
	"net/http"

	"hospital-booking/internal/middleware"
	"hospital-booking/internal/model"
	"hospital-booking/internal/service"
	"hospital-booking/internal/session"
	"hospital-booking/pkg/apierror"
)

type AuthHandler struct {
	service *service.AuthService
	cookies *session.Cookies
}

func NewAuthHandler(service *service.AuthService, cookies *session.Cookies) *AuthHandler {
	return &AuthHandler{service: service, cookies: cookies}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	user, err := h.service.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, user)
}

// Login verifies credentials and lifecycle state, then sets the access and
// refresh cookies. The tokens never appear in the response body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	pair, err := h.service.Login(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.SetPair(w, pair.AccessToken, pair.RefreshToken)
	writeSuccess(w, http.StatusOK, pair.User)
}

// Logout clears both cookies. The tokens themselves stay valid until their
// natural expiry; there is no server-side revocation.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	writeSuccess(w, http.StatusOK, map[string]any{"logged_out": true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	user, err := h.service.CurrentUser(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user)
}
