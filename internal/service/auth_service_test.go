package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"hospital-booking/internal/model"
	"hospital-booking/internal/token"
	"hospital-booking/pkg/apierror"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) Create(ctx context.Context, u model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

type mockPatientProfileStore struct {
	mock.Mock
}

func (m *mockPatientProfileStore) Upsert(ctx context.Context, p model.PatientProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func newTestCodec() *token.Codec {
	return token.NewCodec("access-secret", "refresh-secret", 15*time.Minute, 168*time.Hour)
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("patient is approved immediately and gets an empty profile", func(t *testing.T) {
		users := new(mockUserStore)
		profiles := new(mockPatientProfileStore)
		svc := NewAuthService(users, profiles, newTestCodec())

		users.On("ExistsByEmail", ctx, "ana@example.com").Return(false, nil)
		users.On("Create", ctx, mock.MatchedBy(func(u model.User) bool {
			return u.Role == model.RolePatient && u.Approved && !u.Blocked
		})).Return(nil)
		profiles.On("Upsert", ctx, mock.MatchedBy(func(p model.PatientProfile) bool {
			return p.UserID != ""
		})).Return(nil)

		account, err := svc.Register(ctx, model.RegisterRequest{
			Name:     "Ana Torres",
			Email:    "Ana@Example.com",
			Password: "longenough",
			Role:     "patient",
		})
		require.NoError(t, err)
		require.Equal(t, "ana@example.com", account.Email)
		require.True(t, account.Approved)
		users.AssertExpectations(t)
		profiles.AssertExpectations(t)
	})

	t.Run("missing role defaults to patient", func(t *testing.T) {
		users := new(mockUserStore)
		profiles := new(mockPatientProfileStore)
		svc := NewAuthService(users, profiles, newTestCodec())

		users.On("ExistsByEmail", ctx, mock.Anything).Return(false, nil)
		users.On("Create", ctx, mock.Anything).Return(nil)
		profiles.On("Upsert", ctx, mock.Anything).Return(nil)

		account, err := svc.Register(ctx, model.RegisterRequest{
			Name:     "Ana Torres",
			Email:    "ana@example.com",
			Password: "longenough",
		})
		require.NoError(t, err)
		require.Equal(t, model.RolePatient, account.Role)
	})

	t.Run("doctor starts unapproved and gets no patient profile", func(t *testing.T) {
		users := new(mockUserStore)
		profiles := new(mockPatientProfileStore)
		svc := NewAuthService(users, profiles, newTestCodec())

		users.On("ExistsByEmail", ctx, "greg@example.com").Return(false, nil)
		users.On("Create", ctx, mock.MatchedBy(func(u model.User) bool {
			return u.Role == model.RoleDoctor && !u.Approved
		})).Return(nil)

		account, err := svc.Register(ctx, model.RegisterRequest{
			Name:     "Greg House",
			Email:    "greg@example.com",
			Password: "longenough",
			Role:     "doctor",
		})
		require.NoError(t, err)
		require.False(t, account.Approved)
		profiles.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		users := new(mockUserStore)
		profiles := new(mockPatientProfileStore)
		svc := NewAuthService(users, profiles, newTestCodec())

		users.On("ExistsByEmail", ctx, "ana@example.com").Return(true, nil)

		_, err := svc.Register(ctx, model.RegisterRequest{
			Name:     "Ana Torres",
			Email:    "ana@example.com",
			Password: "longenough",
			Role:     "patient",
		})
		require.ErrorIs(t, err, model.ErrUserAlreadyExists)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("validation reports the first violated field", func(t *testing.T) {
		users := new(mockUserStore)
		profiles := new(mockPatientProfileStore)
		svc := NewAuthService(users, profiles, newTestCodec())

		cases := []struct {
			name  string
			req   model.RegisterRequest
			field string
		}{
			{"bad email", model.RegisterRequest{Email: "not-an-email", Password: "x", Name: "A"}, "email"},
			{"short password", model.RegisterRequest{Email: "a@b.co", Password: "short", Name: "A"}, "password"},
			{"short name", model.RegisterRequest{Email: "a@b.co", Password: "longenough", Name: "A"}, "name"},
			{"admin role", model.RegisterRequest{Email: "a@b.co", Password: "longenough", Name: "Ana", Role: "admin"}, "role"},
		}
		for _, tc := range cases {
			_, err := svc.Register(ctx, tc.req)
			var apiErr *apierror.APIError
			require.ErrorAs(t, err, &apiErr, tc.name)
			require.Equal(t, tc.field, apiErr.Details, tc.name)
		}
		users.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	patient := func(t *testing.T) model.User {
		return model.User{
			ID:           "u-1",
			Email:        "ana@example.com",
			PasswordHash: hashFor(t, "correct-password"),
			Name:         "Ana Torres",
			Role:         model.RolePatient,
			Approved:     true,
		}
	}

	t.Run("issues a verifiable access and refresh token", func(t *testing.T) {
		users := new(mockUserStore)
		codec := newTestCodec()
		svc := NewAuthService(users, new(mockPatientProfileStore), codec)

		users.On("FindByEmail", ctx, "ana@example.com").Return(patient(t), nil)

		pair, err := svc.Login(ctx, model.LoginRequest{Email: "Ana@Example.com", Password: "correct-password"})
		require.NoError(t, err)
		require.Equal(t, "u-1", pair.User.ID)

		access, err := codec.Verify(token.KindAccess, pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "u-1", access.Subject)
		require.Equal(t, model.RolePatient, access.Role)

		refresh, err := codec.Verify(token.KindRefresh, pair.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, "u-1", refresh.Subject)
	})

	t.Run("unknown email and wrong password share one generic error", func(t *testing.T) {
		users := new(mockUserStore)
		svc := NewAuthService(users, new(mockPatientProfileStore), newTestCodec())

		users.On("FindByEmail", ctx, "ghost@example.com").Return(model.User{}, model.ErrUserNotFound)
		users.On("FindByEmail", ctx, "ana@example.com").Return(patient(t), nil)

		_, err := svc.Login(ctx, model.LoginRequest{Email: "ghost@example.com", Password: "whatever"})
		require.ErrorIs(t, err, model.ErrInvalidCredentials)

		_, err = svc.Login(ctx, model.LoginRequest{Email: "ana@example.com", Password: "wrong-password"})
		require.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("blocked account gets a specific reason only with the right password", func(t *testing.T) {
		users := new(mockUserStore)
		svc := NewAuthService(users, new(mockPatientProfileStore), newTestCodec())

		blocked := patient(t)
		blocked.Blocked = true
		users.On("FindByEmail", ctx, "ana@example.com").Return(blocked, nil)

		_, err := svc.Login(ctx, model.LoginRequest{Email: "ana@example.com", Password: "correct-password"})
		require.ErrorIs(t, err, model.ErrAccountBlocked)

		// Without the password the caller learns nothing about the account.
		_, err = svc.Login(ctx, model.LoginRequest{Email: "ana@example.com", Password: "wrong-password"})
		require.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("unapproved doctor is told approval is pending", func(t *testing.T) {
		users := new(mockUserStore)
		svc := NewAuthService(users, new(mockPatientProfileStore), newTestCodec())

		doctor := model.User{
			ID:           "d-1",
			Email:        "greg@example.com",
			PasswordHash: hashFor(t, "correct-password"),
			Role:         model.RoleDoctor,
			Approved:     false,
		}
		users.On("FindByEmail", ctx, "greg@example.com").Return(doctor, nil)

		_, err := svc.Login(ctx, model.LoginRequest{Email: "greg@example.com", Password: "correct-password"})
		require.ErrorIs(t, err, model.ErrPendingApproval)
	})

	t.Run("approving a doctor flips the next login to success", func(t *testing.T) {
		users := new(mockUserStore)
		svc := NewAuthService(users, new(mockPatientProfileStore), newTestCodec())

		doctor := model.User{
			ID:           "d-1",
			Email:        "greg@example.com",
			PasswordHash: hashFor(t, "correct-password"),
			Role:         model.RoleDoctor,
			Approved:     false,
		}
		users.On("FindByEmail", ctx, "greg@example.com").Return(doctor, nil).Once()

		_, err := svc.Login(ctx, model.LoginRequest{Email: "greg@example.com", Password: "correct-password"})
		require.ErrorIs(t, err, model.ErrPendingApproval)

		doctor.Approved = true
		users.On("FindByEmail", ctx, "greg@example.com").Return(doctor, nil).Once()

		pair, err := svc.Login(ctx, model.LoginRequest{Email: "greg@example.com", Password: "correct-password"})
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("blocked doctor stays rejected even when approved", func(t *testing.T) {
		users := new(mockUserStore)
		svc := NewAuthService(users, new(mockPatientProfileStore), newTestCodec())

		doctor := model.User{
			ID:           "d-1",
			Email:        "greg@example.com",
			PasswordHash: hashFor(t, "correct-password"),
			Role:         model.RoleDoctor,
			Approved:     true,
			Blocked:      true,
		}
		users.On("FindByEmail", ctx, "greg@example.com").Return(doctor, nil)

		_, err := svc.Login(ctx, model.LoginRequest{Email: "greg@example.com", Password: "correct-password"})
		require.ErrorIs(t, err, model.ErrAccountBlocked)
	})
}
