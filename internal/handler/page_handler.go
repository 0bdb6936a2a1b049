package handler

import (
	"net/http"

	"hospital-booking/internal/middleware"
	"hospital-booking/internal/model"
)

// PageHandler serves the role home pages and the public entry points.
// The platform ships no server-rendered UI, so every page responds with
// a small JSON document the frontend can hydrate from.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{
		"name": "hospital-booking",
		"page": "home",
	})
}

func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{"page": "login"})
}

func (h *PageHandler) Register(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{"page": "register"})
}

// RoleHome answers the dashboard route for whichever role prefix matched.
// The session gate has already authenticated and authorized the request,
// so the claims are guaranteed to be present here.
func (h *PageHandler) RoleHome(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"page": claims.Role,
		"user": claims.Identity(),
	})
}
