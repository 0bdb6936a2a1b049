package model

import "time"

const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentRejected  = "rejected"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

func ValidAppointmentStatus(status string) bool {
	switch status {
	case AppointmentPending, AppointmentConfirmed, AppointmentRejected,
		AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

type Appointment struct {
	ID           string    `json:"id"`
	PatientID    string    `json:"patient_id"`
	DoctorID     string    `json:"doctor_id"`
	Date         time.Time `json:"appointment_date"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	Status       string    `json:"status"`
	Reason       string    `json:"reason"`
	Notes        string    `json:"notes,omitempty"`
	Prescription string    `json:"prescription,omitempty"`
	Diagnosis    string    `json:"diagnosis,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PatientAppointment is an appointment as seen by the booking patient,
// joined with the doctor's name and specialization.
type PatientAppointment struct {
	Appointment
	DoctorName           string `json:"doctor_name"`
	DoctorSpecialization string `json:"doctor_specialization"`
}

// DoctorAppointment is an appointment as seen by the treating doctor,
// joined with the patient's name and email.
type DoctorAppointment struct {
	Appointment
	PatientName  string `json:"patient_name"`
	PatientEmail string `json:"patient_email"`
}

type PatientStats struct {
	UpcomingAppointments int `json:"upcoming_appointments"`
	PendingAppointments  int `json:"pending_appointments"`
	TotalAppointments    int `json:"total_appointments"`
}

type DoctorStats struct {
	TodayAppointments   int `json:"today_appointments"`
	PendingAppointments int `json:"pending_appointments"`
	TotalPatients       int `json:"total_patients"`
}

type AdminStats struct {
	TotalUsers        int `json:"total_users"`
	TotalDoctors      int `json:"total_doctors"`
	TotalPatients     int `json:"total_patients"`
	PendingDoctors    int `json:"pending_doctors"`
	TotalAppointments int `json:"total_appointments"`
	TodayAppointments int `json:"today_appointments"`
}
