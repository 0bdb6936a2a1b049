package service

import (
	"context"
	"time"

	"hospital-booking/internal/model"
	"hospital-booking/pkg/apierror"
)

type adminUserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	List(ctx context.Context) ([]model.AccountUser, error)
	SetModeration(ctx context.Context, userID string, approved *bool, blocked *bool) (model.User, error)
	UserCounts(ctx context.Context) (total int, doctors int, patients int, pendingDoctors int, err error)
}

type adminDoctorStore interface {
	ListAll(ctx context.Context) ([]model.AdminDoctor, error)
}

type adminAppointmentStore interface {
	Counts(ctx context.Context, today time.Time) (total int, todayCount int, err error)
}

// AdminService covers moderation: approving doctor accounts, blocking users
// and the platform dashboard.
type AdminService struct {
	users        adminUserStore
	doctors      adminDoctorStore
	appointments adminAppointmentStore
}

func NewAdminService(users adminUserStore, doctors adminDoctorStore, appointments adminAppointmentStore) *AdminService {
	return &AdminService{users: users, doctors: doctors, appointments: appointments}
}

func (s *AdminService) ListDoctors(ctx context.Context) ([]model.AdminDoctor, error) {
	return s.doctors.ListAll(ctx)
}

// ModerateDoctor flips the approved/blocked flags on a doctor account.
func (s *AdminService) ModerateDoctor(ctx context.Context, doctorID string, req model.ModerationUpdate) (model.AccountUser, error) {
	if req.Approved == nil && req.Blocked == nil {
		return model.AccountUser{}, apierror.BadRequest("Nothing to update", "")
	}

	doctor, err := s.users.FindByID(ctx, doctorID)
	if err != nil {
		return model.AccountUser{}, err
	}
	if doctor.Role != model.RoleDoctor {
		return model.AccountUser{}, model.ErrDoctorNotFound
	}

	updated, err := s.users.SetModeration(ctx, doctorID, req.Approved, req.Blocked)
	if err != nil {
		return model.AccountUser{}, err
	}
	return updated.Account(), nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]model.AccountUser, error) {
	return s.users.List(ctx)
}

// SetUserBlocked blocks or unblocks any account regardless of role.
func (s *AdminService) SetUserBlocked(ctx context.Context, userID string, blocked bool) (model.AccountUser, error) {
	updated, err := s.users.SetModeration(ctx, userID, nil, &blocked)
	if err != nil {
		return model.AccountUser{}, err
	}
	return updated.Account(), nil
}

func (s *AdminService) Stats(ctx context.Context) (model.AdminStats, error) {
	total, doctors, patients, pending, err := s.users.UserCounts(ctx)
	if err != nil {
		return model.AdminStats{}, err
	}

	appointments, today, err := s.appointments.Counts(ctx, time.Now().UTC())
	if err != nil {
		return model.AdminStats{}, err
	}

	return model.AdminStats{
		TotalUsers:        total,
		TotalDoctors:      doctors,
		TotalPatients:     patients,
		PendingDoctors:    pending,
		TotalAppointments: appointments,
		TodayAppointments: today,
	}, nil
}
