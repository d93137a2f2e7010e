package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"talktracker/internal/auth"
	"talktracker/internal/models"
)

// TherapistInteractions is the read-only third-party view. The token must be
// a signed share-link credential for exactly the user in the path; forged,
// expired, revoked and mismatched tokens all fail the same way.
func TherapistInteractions(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseUint(chi.URLParam(r, "userId"), 10, 32)
		if err != nil {
			respondError(w, http.StatusForbidden, "Invalid access token")
			return
		}
		claims, err := auth.VerifyShareToken(r.URL.Query().Get("token"))
		if err != nil {
			respondError(w, http.StatusForbidden, "Invalid access token")
			return
		}
		var link models.ShareLink
		if db.First(&link, "id = ?", claims.LinkID).Error != nil {
			respondError(w, http.StatusForbidden, "Invalid access token")
			return
		}
		if link.RevokedAt != nil || time.Now().After(link.ExpiresAt) ||
			link.UserID != claims.UserID || claims.UserID != uint(userID) {
			respondError(w, http.StatusForbidden, "Invalid access token")
			return
		}

		rows := []models.Interaction{}
		err = db.Where("user_id = ?", link.UserID).
			Order("date desc, time desc").
			Find(&rows).Error
		if err != nil {
			lg.Errorw("therapist view query failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		respondJSON(w, rows)
	}
}
