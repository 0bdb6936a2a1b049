package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-booking/internal/session"
	"hospital-booking/internal/token"
)

func newTestGate(t *testing.T) (*SessionGate, *token.Codec) {
	t.Helper()
	codec := token.NewCodec("gate-access", "gate-refresh", 15*time.Minute, 7*24*time.Hour)
	return NewSessionGate(codec, session.NewCookies(codec, false)), codec
}

func passThrough(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func patientIdentity() token.Identity {
	return token.Identity{UserID: "p1", Email: "pat@example.com", Role: "patient"}
}

func TestSessionGate_PublicPaths(t *testing.T) {
	gate, _ := newTestGate(t)
	handler := gate.Handler(passThrough(t))

	for _, path := range []string{"/", "/login", "/register"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, "path %s should be public", path)
	}
}

func TestSessionGate_NoCookiesRedirectsToLogin(t *testing.T) {
	gate, _ := newTestGate(t)
	handler := gate.Handler(passThrough(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/patient/appointments", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestSessionGate_ValidAccessAllows(t *testing.T) {
	gate, codec := newTestGate(t)
	handler := gate.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := SessionFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "p1", claims.Subject)
		w.WriteHeader(http.StatusOK)
	}))

	access, err := codec.Issue(token.KindAccess, patientIdentity())
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/patient/appointments", nil)
	r.AddCookie(&http.Cookie{Name: session.AccessCookie, Value: access})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionGate_SilentRenewal(t *testing.T) {
	gate, codec := newTestGate(t)
	handler := gate.Handler(passThrough(t))

	// Expired access token alongside a valid refresh token.
	expiredCodec := token.NewCodec("gate-access", "gate-refresh", -time.Minute, 7*24*time.Hour)
	expiredAccess, err := expiredCodec.Issue(token.KindAccess, patientIdentity())
	require.NoError(t, err)
	refresh, err := codec.Issue(token.KindRefresh, patientIdentity())
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/patient/appointments", nil)
	r.AddCookie(&http.Cookie{Name: session.AccessCookie, Value: expiredAccess})
	r.AddCookie(&http.Cookie{Name: session.RefreshCookie, Value: refresh})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	// Request passes through with a freshly minted access cookie.
	assert.Equal(t, http.StatusOK, rec.Code)

	var newAccess *http.Cookie
	for _, c := range rec.Result().Cookies() {
		switch c.Name {
		case session.AccessCookie:
			newAccess = c
		case session.RefreshCookie:
			t.Fatalf("refresh cookie must not be touched during renewal")
		}
	}
	require.NotNil(t, newAccess, "a new access cookie must be set")

	claims, err := codec.Verify(token.KindAccess, newAccess.Value)
	require.NoError(t, err)
	assert.Equal(t, patientIdentity(), claims.Identity())
}

func TestSessionGate_RefreshAloneIsEnough(t *testing.T) {
	gate, codec := newTestGate(t)
	handler := gate.Handler(passThrough(t))

	refresh, err := codec.Issue(token.KindRefresh, patientIdentity())
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/patient", nil)
	r.AddCookie(&http.Cookie{Name: session.RefreshCookie, Value: refresh})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionGate_ExpiredRefreshRejects(t *testing.T) {
	gate, _ := newTestGate(t)
	handler := gate.Handler(passThrough(t))

	expiredCodec := token.NewCodec("gate-access", "gate-refresh", -time.Minute, -time.Minute)
	expiredRefresh, err := expiredCodec.Issue(token.KindRefresh, patientIdentity())
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/patient", nil)
	r.AddCookie(&http.Cookie{Name: session.RefreshCookie, Value: expiredRefresh})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestSessionGate_AccessTokenInRefreshSlotRejects(t *testing.T) {
	gate, codec := newTestGate(t)
	handler := gate.Handler(passThrough(t))

	access, err := codec.Issue(token.KindAccess, patientIdentity())
	require.NoError(t, err)

	// A validly signed access token cannot stand in for a refresh token.
	r := httptest.NewRequest("GET", "/patient", nil)
	r.AddCookie(&http.Cookie{Name: session.RefreshCookie, Value: access})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestSessionGate_RoleMismatchRedirectsHome(t *testing.T) {
	gate, codec := newTestGate(t)
	handler := gate.Handler(passThrough(t))

	doctor, err := codec.Issue(token.KindAccess, token.Identity{UserID: "d1", Role: "doctor"})
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/admin", nil)
	r.AddCookie(&http.Cookie{Name: session.AccessCookie, Value: doctor})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	// Sent to their own home, not to login.
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/doctor", rec.Header().Get("Location"))
}

func TestSessionGate_APIPathsGetJSONErrors(t *testing.T) {
	gate, codec := newTestGate(t)
	handler := gate.Handler(passThrough(t))

	// No session on an API route: 401, no redirect.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/patient/appointments", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")

	// Wrong role on an API route: 403, no redirect.
	patient, err := codec.Issue(token.KindAccess, patientIdentity())
	require.NoError(t, err)
	r := httptest.NewRequest("GET", "/api/admin/users", nil)
	r.AddCookie(&http.Cookie{Name: session.AccessCookie, Value: patient})

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestSessionGate_OtherProtectedPrefixNeedsAnySession(t *testing.T) {
	gate, codec := newTestGate(t)
	handler := gate.Handler(passThrough(t))

	// Unauthenticated: rejected.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/reports", nil))
	assert.Equal(t, http.StatusFound, rec.Code)

	// Any valid session passes, regardless of role.
	patient, err := codec.Issue(token.KindAccess, patientIdentity())
	require.NoError(t, err)
	r := httptest.NewRequest("GET", "/reports", nil)
	r.AddCookie(&http.Cookie{Name: session.AccessCookie, Value: patient})

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoles(t *testing.T) {
	gate, codec := newTestGate(t)
	protected := gate.Handler(RequireRoles("admin")(passThrough(t)))

	// Gate lets an admin through by prefix, RequireRoles agrees.
	admin, err := codec.Issue(token.KindAccess, token.Identity{UserID: "a1", Role: "admin"})
	require.NoError(t, err)
	r := httptest.NewRequest("GET", "/api/admin/users", nil)
	r.AddCookie(&http.Cookie{Name: session.AccessCookie, Value: admin})

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Without gate context the check fails closed.
	rec = httptest.NewRecorder()
	RequireRoles("admin")(passThrough(t)).ServeHTTP(rec, httptest.NewRequest("GET", "/api/admin/users", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
