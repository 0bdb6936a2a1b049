package middleware

import (
	"context"
	"net/http"
	"strings"

	"hospital-booking/internal/model"
	"hospital-booking/internal/session"
	"hospital-booking/internal/token"
)

type contextKey string

const sessionClaimsContextKey contextKey = "session_claims"

// publicPaths can be reached without any session.
var publicPaths = map[string]struct{}{
	"/":                  {},
	"/login":             {},
	"/register":          {},
	"/health":            {},
	"/api/auth/login":    {},
	"/api/auth/register": {},
	"/api/auth/logout":   {},
}

// rolePrefixes maps a path prefix to the exact role it requires. Any other
// protected prefix needs some valid session but no particular role.
var rolePrefixes = []struct {
	prefix string
	role   string
}{
	{"/patient", model.RolePatient},
	{"/doctor", model.RoleDoctor},
	{"/admin", model.RoleAdmin},
}

// SessionGate fronts every request. It resolves the access cookie, silently
// re-mints an expired access credential from a valid refresh credential, and
// enforces the path-prefix role map. Page traffic gets redirects; API traffic
// gets JSON 401/403 with deliberately generic messages.
type SessionGate struct {
	codec   *token.Codec
	cookies *session.Cookies
}

func NewSessionGate(codec *token.Codec, cookies *session.Cookies) *SessionGate {
	return &SessionGate{codec: codec, cookies: cookies}
}

func (g *SessionGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if _, public := publicPaths[path]; public {
			next.ServeHTTP(w, r)
			return
		}

		claims := g.cookies.Resolve(r)

		// Silent renewal: an absent or invalid access cookie is recoverable
		// as long as the refresh cookie still verifies. Only the access
		// cookie is re-minted; the refresh cookie is never extended by use.
		if claims == nil {
			claims = g.renew(w, r)
		}

		if claims == nil {
			g.reject(w, r)
			return
		}

		if required, scoped := requiredRole(path); scoped && required != claims.Role {
			g.forbid(w, r, claims.Role)
			return
		}

		next.ServeHTTP(w, r.WithContext(
			context.WithValue(r.Context(), sessionClaimsContextKey, claims)))
	})
}

func (g *SessionGate) renew(w http.ResponseWriter, r *http.Request) *token.Claims {
	cookie, err := r.Cookie(session.RefreshCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	refreshClaims, err := g.codec.Verify(token.KindRefresh, cookie.Value)
	if err != nil {
		return nil
	}

	access, err := g.codec.Issue(token.KindAccess, refreshClaims.Identity())
	if err != nil {
		return nil
	}

	http.SetCookie(w, g.cookies.Access(access))

	accessClaims, err := g.codec.Verify(token.KindAccess, access)
	if err != nil {
		return nil
	}
	return accessClaims
}

func (g *SessionGate) reject(w http.ResponseWriter, r *http.Request) {
	if isAPIPath(r.URL.Path) {
		writeGateError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// forbid sends the caller to their own role home rather than an error page:
// a doctor hitting /admin lands on /doctor.
func (g *SessionGate) forbid(w http.ResponseWriter, r *http.Request, role string) {
	if isAPIPath(r.URL.Path) {
		writeGateError(w, http.StatusForbidden, "FORBIDDEN", "Access denied")
		return
	}
	http.Redirect(w, r, "/"+role, http.StatusFound)
}

func requiredRole(path string) (string, bool) {
	trimmed := strings.TrimPrefix(path, "/api")
	for _, rp := range rolePrefixes {
		if trimmed == rp.prefix || strings.HasPrefix(trimmed, rp.prefix+"/") {
			return rp.role, true
		}
	}
	return "", false
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}

// SessionFromContext returns the claims the gate attached to the request.
func SessionFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(sessionClaimsContextKey).(*token.Claims)
	return claims, ok
}
