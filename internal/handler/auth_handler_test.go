package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"hospital-booking/internal/model"
	"hospital-booking/internal/service"
	"hospital-booking/internal/session"
	"hospital-booking/internal/token"
)

// stubUserStore serves a single fixed account, enough to drive the login
// scenarios end to end through the HTTP layer.
type stubUserStore struct {
	user model.User
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	if email != s.user.Email {
		return model.User{}, model.ErrUserNotFound
	}
	return s.user, nil
}

func (s *stubUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	if id != s.user.ID {
		return model.User{}, model.ErrUserNotFound
	}
	return s.user, nil
}

func (s *stubUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return email == s.user.Email, nil
}

func (s *stubUserStore) Create(_ context.Context, _ model.User) error { return nil }

type stubProfileStore struct{}

func (stubProfileStore) Upsert(_ context.Context, _ model.PatientProfile) error { return nil }

func newAuthHandler(t *testing.T, user model.User) *AuthHandler {
	t.Helper()
	codec := token.NewCodec("access-secret", "refresh-secret", 15*time.Minute, 168*time.Hour)
	svc := service.NewAuthService(&stubUserStore{user: user}, stubProfileStore{}, codec)
	return NewAuthHandler(svc, session.NewCookies(codec, false))
}

func testPatient(t *testing.T) model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	require.NoError(t, err)
	return model.User{
		ID:           "u-1",
		Email:        "ana@example.com",
		PasswordHash: string(hash),
		Name:         "Ana Torres",
		Role:         model.RolePatient,
		Approved:     true,
	}
}

func doLogin(t *testing.T, h *AuthHandler, email string, password string) *httptest.ResponseRecorder {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginHandler(t *testing.T) {
	t.Parallel()

	t.Run("success sets both cookies and keeps tokens out of the body", func(t *testing.T) {
		h := newAuthHandler(t, testPatient(t))
		rec := doLogin(t, h, "ana@example.com", "correct-password")

		require.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		access := cookieByName(cookies, session.AccessCookie)
		refresh := cookieByName(cookies, session.RefreshCookie)
		require.NotNil(t, access)
		require.NotNil(t, refresh)
		require.True(t, access.HttpOnly)
		require.True(t, refresh.HttpOnly)
		require.Equal(t, 900, access.MaxAge)
		require.Equal(t, 604800, refresh.MaxAge)

		require.NotContains(t, rec.Body.String(), access.Value)
		require.NotContains(t, rec.Body.String(), refresh.Value)

		var envelope model.APIResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		require.True(t, envelope.Success)
	})

	t.Run("wrong password and unknown email respond identically", func(t *testing.T) {
		h := newAuthHandler(t, testPatient(t))

		wrongPassword := doLogin(t, h, "ana@example.com", "nope")
		unknownEmail := doLogin(t, h, "ghost@example.com", "nope")

		require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
		require.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
		require.Empty(t, wrongPassword.Result().Cookies())
	})

	t.Run("blocked account gets a specific reason and no cookies", func(t *testing.T) {
		user := testPatient(t)
		user.Blocked = true
		h := newAuthHandler(t, user)

		rec := doLogin(t, h, "ana@example.com", "correct-password")
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Body.String(), "ACCOUNT_BLOCKED")
		require.Empty(t, rec.Result().Cookies())
	})

	t.Run("pending doctor gets a specific reason", func(t *testing.T) {
		user := testPatient(t)
		user.Role = model.RoleDoctor
		user.Approved = false
		h := newAuthHandler(t, user)

		rec := doLogin(t, h, "ana@example.com", "correct-password")
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Body.String(), "PENDING_APPROVAL")
	})

	t.Run("malformed JSON is a bad request", func(t *testing.T) {
		h := newAuthHandler(t, testPatient(t))
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		h.Login(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogoutHandler(t *testing.T) {
	t.Parallel()

	h := newAuthHandler(t, testPatient(t))
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	for _, name := range []string{session.AccessCookie, session.RefreshCookie} {
		cookie := cookieByName(rec.Result().Cookies(), name)
		require.NotNil(t, cookie, name)
		require.Equal(t, -1, cookie.MaxAge, name)
		require.Empty(t, cookie.Value, name)
	}
}

func TestRegisterHandler(t *testing.T) {
	t.Parallel()

	t.Run("duplicate email is rejected", func(t *testing.T) {
		h := newAuthHandler(t, testPatient(t))
		body := `{"name":"Ana Torres","email":"ana@example.com","password":"longenough","role":"patient"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Register(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("new patient account is created", func(t *testing.T) {
		h := newAuthHandler(t, testPatient(t))
		body := `{"name":"Luis Vega","email":"luis@example.com","password":"longenough","role":"patient"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.Contains(t, rec.Body.String(), "luis@example.com")
		require.NotContains(t, rec.Body.String(), "longenough")
	})
}
