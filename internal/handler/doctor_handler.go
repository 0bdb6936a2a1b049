package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hospital-booking/internal/middleware"
	"hospital-booking/internal/model"
	"hospital-booking/internal/service"
	"hospital-booking/pkg/apierror"
)

type DoctorHandler struct {
	appointments *service.AppointmentService
	profiles     *service.ProfileService
}

func NewDoctorHandler(appointments *service.AppointmentService, profiles *service.ProfileService) *DoctorHandler {
	return &DoctorHandler{appointments: appointments, profiles: profiles}
}

func (h *DoctorHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	appointments, err := h.appointments.ListForDoctor(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, appointments)
}

// UpdateAppointment applies the doctor's decision (confirm, reject, complete)
// together with any clinical notes, prescription or diagnosis.
func (h *DoctorHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.DoctorAppointmentUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	appointment, err := h.appointments.UpdateByDoctor(r.Context(), claims.Subject, chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, appointment)
}

func (h *DoctorHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	profile, err := h.profiles.DoctorProfile(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, profile)
}

func (h *DoctorHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.DoctorProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if err := h.profiles.UpdateDoctorProfile(r.Context(), claims.Subject, payload); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"updated": true})
}

func (h *DoctorHandler) Stats(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	stats, err := h.appointments.DoctorStats(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, stats)
}
