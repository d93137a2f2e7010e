package handlers

import (
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"talktracker/internal/auth"
	"talktracker/internal/models"
)

// MyActivity returns the caller's recent audit entries, newest first.
func MyActivity(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs := []models.AuditLog{}
		err := db.Where("user_id = ?", auth.UserID(r.Context())).
			Order("created_at desc").
			Limit(200).
			Find(&logs).Error
		if err != nil {
			lg.Errorw("activity list failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		respondJSON(w, logs)
	}
}
