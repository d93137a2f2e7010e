package handlers

import (
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"talktracker/internal/auth"
	"talktracker/internal/models"
	"talktracker/internal/services/insights"
)

// Insights computes the derived metrics both dashboards display over the
// owner's full history.
func Insights(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows := []models.Interaction{}
		err := db.Where("user_id = ?", auth.UserID(r.Context())).
			Order("date desc, time desc").
			Find(&rows).Error
		if err != nil {
			lg.Errorw("insights query failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		respondJSON(w, insights.Compute(rows))
	}
}
