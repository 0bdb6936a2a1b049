package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"hospital-booking/internal/model"
)

// RequireRoles re-validates the session role inside the handler chain. The
// gate already authorizes by path prefix; this keeps role checks on the
// routes themselves so a wiring mistake in the router fails closed.
func RequireRoles(allowedRoles ...string) func(http.Handler) http.Handler {
	roleSet := map[string]struct{}{}
	for _, role := range allowedRoles {
		roleSet[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := SessionFromContext(r.Context())
			if !ok {
				writeGateError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			if _, allowed := roleSet[strings.ToLower(claims.Role)]; !allowed {
				writeGateError(w, http.StatusForbidden, "FORBIDDEN", "Access denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeGateError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   &model.APIError{Code: code, Message: message},
	})
}
