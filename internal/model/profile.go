package model

import "time"

// AvailabilitySlot is one recurring weekly consultation window.
type AvailabilitySlot struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type DoctorProfile struct {
	UserID          string             `json:"user_id"`
	Specialization  string             `json:"specialization"`
	Qualifications  []string           `json:"qualifications"`
	ExperienceYears int                `json:"experience_years"`
	ConsultationFee float64            `json:"consultation_fee"`
	AvailableSlots  []AvailabilitySlot `json:"available_slots"`
	Bio             string             `json:"bio"`
	Phone           string             `json:"phone"`
	Address         string             `json:"address"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

type EmergencyContact struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
}

type PatientProfile struct {
	UserID           string           `json:"user_id"`
	DateOfBirth      *time.Time       `json:"date_of_birth,omitempty"`
	Gender           string           `json:"gender,omitempty"`
	BloodGroup       string           `json:"blood_group,omitempty"`
	Allergies        []string         `json:"allergies"`
	Phone            string           `json:"phone"`
	Address          string           `json:"address"`
	EmergencyContact EmergencyContact `json:"emergency_contact"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// DoctorListing is a searchable doctor entry shown to patients.
type DoctorListing struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Email   string        `json:"email"`
	Profile DoctorProfile `json:"profile"`
}

// AdminDoctor is a doctor entry in the admin moderation view.
type AdminDoctor struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Approved        bool     `json:"approved"`
	Blocked         bool     `json:"blocked"`
	Specialization  string   `json:"specialization,omitempty"`
	ExperienceYears int      `json:"experience_years,omitempty"`
	Qualifications  []string `json:"qualifications,omitempty"`
}
