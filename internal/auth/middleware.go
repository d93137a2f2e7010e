package auth

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"
)

// RequireSession rejects requests without a live session and attaches the
// resolved Identity to the request context.
func RequireSession(db *gorm.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := lookupSession(db, w, r)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Authentication required"})
				return
			}
			id := Identity{
				UserID:     u.ID,
				Username:   u.Username,
				Email:      u.Email,
				Role:       u.Role,
				Onboarding: u.Onboarding,
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// CurrentUser resolves the session without rejecting; used by /api/auth/status.
func CurrentUser(db *gorm.DB, w http.ResponseWriter, r *http.Request) (Identity, bool) {
	u, ok := lookupSession(db, w, r)
	if !ok {
		return Identity{}, false
	}
	return Identity{
		UserID:     u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		Onboarding: u.Onboarding,
	}, true
}
