package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"hospital-booking/internal/model"
	"hospital-booking/pkg/apierror"
)

type AppointmentStore interface {
	Create(ctx context.Context, a model.Appointment) error
	ListForPatient(ctx context.Context, patientID string) ([]model.PatientAppointment, error)
	ListForDoctor(ctx context.Context, doctorID string) ([]model.DoctorAppointment, error)
	FindOwned(ctx context.Context, id string, ownerColumn string, ownerID string) (model.Appointment, error)
	Update(ctx context.Context, a model.Appointment) error
	PatientStats(ctx context.Context, patientID string, now time.Time) (model.PatientStats, error)
	DoctorStats(ctx context.Context, doctorID string, today time.Time) (model.DoctorStats, error)
}

type doctorLookup interface {
	FindByID(ctx context.Context, id string) (model.User, error)
}

type AppointmentService struct {
	appointments AppointmentStore
	users        doctorLookup
}

func NewAppointmentService(appointments AppointmentStore, users doctorLookup) *AppointmentService {
	return &AppointmentService{appointments: appointments, users: users}
}

// Book creates a pending appointment for the patient. Overlapping bookings of
// the same slot are not rejected; the doctor arbitrates when confirming.
func (s *AppointmentService) Book(ctx context.Context, patientID string, req model.BookAppointmentRequest) (model.Appointment, error) {
	req.Reason = strings.TrimSpace(req.Reason)

	switch {
	case strings.TrimSpace(req.DoctorID) == "":
		return model.Appointment{}, apierror.BadRequest("Doctor is required", "doctor_id")
	case strings.TrimSpace(req.Date) == "":
		return model.Appointment{}, apierror.BadRequest("Appointment date is required", "appointment_date")
	case strings.TrimSpace(req.StartTime) == "":
		return model.Appointment{}, apierror.BadRequest("Start time is required", "start_time")
	case strings.TrimSpace(req.EndTime) == "":
		return model.Appointment{}, apierror.BadRequest("End time is required", "end_time")
	case len(req.Reason) < 10:
		return model.Appointment{}, apierror.BadRequest("Reason must be at least 10 characters", "reason")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return model.Appointment{}, apierror.BadRequest("Appointment date must be YYYY-MM-DD", "appointment_date")
	}

	doctor, err := s.users.FindByID(ctx, req.DoctorID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.Appointment{}, model.ErrDoctorNotFound
	}
	if err != nil {
		return model.Appointment{}, err
	}
	if doctor.Role != model.RoleDoctor || !doctor.Approved || doctor.Blocked {
		return model.Appointment{}, model.ErrDoctorNotFound
	}

	now := time.Now().UTC()
	appointment := model.Appointment{
		ID:        uuid.NewString(),
		PatientID: patientID,
		DoctorID:  doctor.ID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    model.AppointmentPending,
		Reason:    req.Reason,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.appointments.Create(ctx, appointment); err != nil {
		return model.Appointment{}, err
	}
	return appointment, nil
}

func (s *AppointmentService) ListForPatient(ctx context.Context, patientID string) ([]model.PatientAppointment, error) {
	return s.appointments.ListForPatient(ctx, patientID)
}

func (s *AppointmentService) ListForDoctor(ctx context.Context, doctorID string) ([]model.DoctorAppointment, error) {
	return s.appointments.ListForDoctor(ctx, doctorID)
}

// UpdateByPatient lets a patient change the status of their own appointment,
// typically to cancel it.
func (s *AppointmentService) UpdateByPatient(ctx context.Context, patientID string, appointmentID string, req model.PatientAppointmentUpdate) (model.Appointment, error) {
	if !model.ValidAppointmentStatus(req.Status) {
		return model.Appointment{}, apierror.BadRequest("Invalid appointment status", "status")
	}

	appointment, err := s.appointments.FindOwned(ctx, appointmentID, "patient_id", patientID)
	if err != nil {
		return model.Appointment{}, err
	}

	appointment.Status = req.Status
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return model.Appointment{}, err
	}
	return appointment, nil
}

// UpdateByDoctor applies the doctor's decision and clinical notes to one of
// their own appointments. Empty fields are left as they are.
func (s *AppointmentService) UpdateByDoctor(ctx context.Context, doctorID string, appointmentID string, req model.DoctorAppointmentUpdate) (model.Appointment, error) {
	if req.Status != "" && !model.ValidAppointmentStatus(req.Status) {
		return model.Appointment{}, apierror.BadRequest("Invalid appointment status", "status")
	}

	appointment, err := s.appointments.FindOwned(ctx, appointmentID, "doctor_id", doctorID)
	if err != nil {
		return model.Appointment{}, err
	}

	if req.Status != "" {
		appointment.Status = req.Status
	}
	if req.Notes != "" {
		appointment.Notes = req.Notes
	}
	if req.Prescription != "" {
		appointment.Prescription = req.Prescription
	}
	if req.Diagnosis != "" {
		appointment.Diagnosis = req.Diagnosis
	}

	if err := s.appointments.Update(ctx, appointment); err != nil {
		return model.Appointment{}, err
	}
	return appointment, nil
}

func (s *AppointmentService) PatientStats(ctx context.Context, patientID string) (model.PatientStats, error) {
	return s.appointments.PatientStats(ctx, patientID, time.Now().UTC())
}

func (s *AppointmentService) DoctorStats(ctx context.Context, doctorID string) (model.DoctorStats, error) {
	return s.appointments.DoctorStats(ctx, doctorID, time.Now().UTC())
}
