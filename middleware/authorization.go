package middleware

import (
	"log"
	"net/http"

	"p9e.in/civicgrid/models"
)

// RequireCapability gates a route behind one of the role capability
// predicates from utils/permissions.go. Run after JWTMiddleware.
func RequireCapability(capability func(models.Role) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r)
			if claims == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			role := models.Role(claims.Role)
			if !role.Valid() || !capability(role) {
				log.Printf("[SECURITY] 🚫 Blocked - insufficient role. User=%s Role=%s Path=%s", claims.UserID, claims.Role, r.URL.Path)
				http.Error(w, "insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
