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

type PatientHandler struct {
	appointments *service.AppointmentService
	profiles     *service.ProfileService
}

func NewPatientHandler(appointments *service.AppointmentService, profiles *service.ProfileService) *PatientHandler {
	return &PatientHandler{appointments: appointments, profiles: profiles}
}

func (h *PatientHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	appointments, err := h.appointments.ListForPatient(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, appointments)
}

func (h *PatientHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	appointment, err := h.appointments.Book(r.Context(), claims.Subject, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, appointment)
}

func (h *PatientHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.PatientAppointmentUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	appointment, err := h.appointments.UpdateByPatient(r.Context(), claims.Subject, chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, appointment)
}

func (h *PatientHandler) SearchDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.profiles.SearchDoctors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, doctors)
}

func (h *PatientHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	profile, err := h.profiles.PatientProfile(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, profile)
}

func (h *PatientHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.PatientProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if err := h.profiles.UpdatePatientProfile(r.Context(), claims.Subject, payload); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"updated": true})
}

func (h *PatientHandler) Stats(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	stats, err := h.appointments.PatientStats(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, stats)
}
