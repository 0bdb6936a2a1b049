package model

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type BookAppointmentRequest struct {
	DoctorID  string `json:"doctor_id"`
	Date      string `json:"appointment_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason"`
}

// PatientAppointmentUpdate carries the only field a patient may change on an
// existing appointment.
type PatientAppointmentUpdate struct {
	Status string `json:"status"`
}

// DoctorAppointmentUpdate carries the decision and clinical fields a doctor
// may set on one of their appointments. Empty fields are left untouched.
type DoctorAppointmentUpdate struct {
	Status       string `json:"status"`
	Notes        string `json:"notes"`
	Prescription string `json:"prescription"`
	Diagnosis    string `json:"diagnosis"`
}

type DoctorProfileUpdate struct {
	Name            string             `json:"name"`
	Specialization  string             `json:"specialization"`
	Qualifications  []string           `json:"qualifications"`
	ExperienceYears int                `json:"experience_years"`
	ConsultationFee float64            `json:"consultation_fee"`
	AvailableSlots  []AvailabilitySlot `json:"available_slots"`
	Bio             string             `json:"bio"`
	Phone           string             `json:"phone"`
	Address         string             `json:"address"`
}

type PatientProfileUpdate struct {
	Name             string           `json:"name"`
	DateOfBirth      string           `json:"date_of_birth"`
	Gender           string           `json:"gender"`
	BloodGroup       string           `json:"blood_group"`
	Allergies        []string         `json:"allergies"`
	Phone            string           `json:"phone"`
	Address          string           `json:"address"`
	EmergencyContact EmergencyContact `json:"emergency_contact"`
}

// ModerationUpdate flips account moderation flags; nil fields are ignored so
// admins can change one flag without clobbering the other.
type ModerationUpdate struct {
	Approved *bool `json:"approved"`
	Blocked  *bool `json:"blocked"`
}
