package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/medirota/roster-backend-go/internal/domain/user"
	"github.com/medirota/roster-backend-go/internal/handler/http/response"
)

// RequireAdmin restricts a route to clinic admins. Held leave decisions and
// requirement configuration go through here.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Forbidden(w, "Admin access required")
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok || user.Role(roleStr) != user.RoleAdmin {
			response.Forbidden(w, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ClinicID extracts the caller's clinic from the JWT claims. Empty when the
// token is missing or malformed; handlers treat that as unauthorized.
func ClinicID(r *http.Request) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	clinicID, _ := claims["clinic_id"].(string)
	return clinicID
}

// UserID extracts the caller's user id from the JWT claims.
func UserID(r *http.Request) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	userID, _ := claims["user_id"].(string)
	return userID
}
