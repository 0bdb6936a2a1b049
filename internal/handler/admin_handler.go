package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hospital-booking/internal/model"
	"hospital-booking/internal/service"
	"hospital-booking/pkg/apierror"
)

type AdminHandler struct {
	admin *service.AdminService
}

func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.admin.ListDoctors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, doctors)
}

// ModerateDoctor flips the approved and/or blocked flags on a doctor
// account. Approving a pending doctor lets their next login succeed.
func (h *AdminHandler) ModerateDoctor(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.ModerationUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	user, err := h.admin.ModerateDoctor(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, users)
}

func (h *AdminHandler) BlockUser(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.ModerationUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}
	if payload.Blocked == nil {
		writeError(w, apierror.BadRequest("blocked flag is required", ""))
		return
	}

	user, err := h.admin.SetUserBlocked(r.Context(), chi.URLParam(r, "id"), *payload.Blocked)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user)
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, stats)
}
