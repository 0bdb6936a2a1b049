package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"hospital-booking/internal/model"
	"hospital-booking/pkg/apierror"
)

type DoctorProfileStore interface {
	FindByUserID(ctx context.Context, userID string) (model.DoctorProfile, error)
	Upsert(ctx context.Context, p model.DoctorProfile) error
	ListApproved(ctx context.Context) ([]model.DoctorListing, error)
}

type patientProfileReader interface {
	FindByUserID(ctx context.Context, userID string) (model.PatientProfile, error)
	Upsert(ctx context.Context, p model.PatientProfile) error
}

type profileUserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	UpdateName(ctx context.Context, userID string, name string) error
}

// ProfileService serves the role-scoped profile extensions of an account.
// A missing profile is returned as the zero profile rather than an error:
// doctor profiles exist only after the first save.
type ProfileService struct {
	users           profileUserStore
	doctorProfiles  DoctorProfileStore
	patientProfiles patientProfileReader
}

func NewProfileService(users profileUserStore, doctorProfiles DoctorProfileStore, patientProfiles patientProfileReader) *ProfileService {
	return &ProfileService{users: users, doctorProfiles: doctorProfiles, patientProfiles: patientProfiles}
}

type DoctorAccountProfile struct {
	User    model.AccountUser   `json:"user"`
	Profile model.DoctorProfile `json:"profile"`
}

type PatientAccountProfile struct {
	User    model.AccountUser    `json:"user"`
	Profile model.PatientProfile `json:"profile"`
}

func (s *ProfileService) DoctorProfile(ctx context.Context, userID string) (DoctorAccountProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return DoctorAccountProfile{}, err
	}

	profile, err := s.doctorProfiles.FindByUserID(ctx, userID)
	if errors.Is(err, model.ErrProfileNotFound) {
		profile = model.DoctorProfile{UserID: userID}
	} else if err != nil {
		return DoctorAccountProfile{}, err
	}

	return DoctorAccountProfile{User: user.Account(), Profile: profile}, nil
}

func (s *ProfileService) UpdateDoctorProfile(ctx context.Context, userID string, req model.DoctorProfileUpdate) error {
	if strings.TrimSpace(req.Specialization) == "" {
		return apierror.BadRequest("Specialization is required", "specialization")
	}

	// The display name lives on the account, not the profile.
	if name := strings.TrimSpace(req.Name); name != "" {
		if err := s.users.UpdateName(ctx, userID, name); err != nil {
			return err
		}
	}

	return s.doctorProfiles.Upsert(ctx, model.DoctorProfile{
		UserID:          userID,
		Specialization:  strings.TrimSpace(req.Specialization),
		Qualifications:  req.Qualifications,
		ExperienceYears: req.ExperienceYears,
		ConsultationFee: req.ConsultationFee,
		AvailableSlots:  req.AvailableSlots,
		Bio:             req.Bio,
		Phone:           req.Phone,
		Address:         req.Address,
	})
}

func (s *ProfileService) PatientProfile(ctx context.Context, userID string) (PatientAccountProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return PatientAccountProfile{}, err
	}

	profile, err := s.patientProfiles.FindByUserID(ctx, userID)
	if errors.Is(err, model.ErrProfileNotFound) {
		profile = model.PatientProfile{UserID: userID}
	} else if err != nil {
		return PatientAccountProfile{}, err
	}

	return PatientAccountProfile{User: user.Account(), Profile: profile}, nil
}

func (s *ProfileService) UpdatePatientProfile(ctx context.Context, userID string, req model.PatientProfileUpdate) error {
	if name := strings.TrimSpace(req.Name); name != "" {
		if err := s.users.UpdateName(ctx, userID, name); err != nil {
			return err
		}
	}

	var dob *time.Time
	if strings.TrimSpace(req.DateOfBirth) != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return apierror.BadRequest("Date of birth must be YYYY-MM-DD", "date_of_birth")
		}
		dob = &parsed
	}

	return s.patientProfiles.Upsert(ctx, model.PatientProfile{
		UserID:           userID,
		DateOfBirth:      dob,
		Gender:           req.Gender,
		BloodGroup:       req.BloodGroup,
		Allergies:        req.Allergies,
		Phone:            req.Phone,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
	})
}

// SearchDoctors is the patient-facing doctor directory.
func (s *ProfileService) SearchDoctors(ctx context.Context) ([]model.DoctorListing, error) {
	return s.doctorProfiles.ListApproved(ctx)
}
