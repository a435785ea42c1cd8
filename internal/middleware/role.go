package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type contextKey string

const RoleKey contextKey = "role"

// Role is the inbound capability. Authentication itself happens upstream;
// this layer only maps the declared mode to which operations may be invoked.
// The core packages never import it.
type Role string

const (
	RoleUser     Role = "user"
	RoleReviewer Role = "reviewer"
)

// RoleAuth extracts the X-User-Mode header and stores the normalized role in
// the request context. Requests without a recognizable role pass through;
// RequireRole rejects them at the gated routes.
func RoleAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mode := strings.ToLower(strings.TrimSpace(r.Header.Get("X-User-Mode")))
		if mode != "" {
			ctx := context.WithValue(r.Context(), RoleKey, Role(mode))
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// GetRoleFromContext extracts the role from context
func GetRoleFromContext(ctx context.Context) Role {
	if role, ok := ctx.Value(RoleKey).(Role); ok {
		return role
	}
	return ""
}

// RequireRole gates a route on one exact role
func RequireRole(required Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := GetRoleFromContext(r.Context())
			if role == "" {
				msg := fmt.Sprintf("Access denied. This endpoint requires '%s' mode. Please include 'X-User-Mode: %s' header.", required, required)
				http.Error(w, msg, http.StatusForbidden)
				return
			}
			if role != required {
				msg := fmt.Sprintf("Access denied. This endpoint requires '%s' mode, but you are in '%s' mode.", required, role)
				http.Error(w, msg, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyRole gates a route on any declared role
func RequireAnyRole(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetRoleFromContext(r.Context()) == "" {
			http.Error(w, "Access denied. Please include 'X-User-Mode' header.", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
