package handlers

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"talktracker/internal/auth"
	"talktracker/internal/models"
)

type statsResp struct {
	Total         int64 `json:"total"`
	Discussion    int64 `json:"discussion"`
	Disagreement  int64 `json:"disagreement"`
	Debate        int64 `json:"debate"`
	Confrontation int64 `json:"confrontation"`
	RecentTotal   int64 `json:"recent_total"`
}

// Stats aggregates per-type counts plus a 7-day recent subcount for the
// authenticated owner.
func Stats(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.UserID(r.Context())

		var rows []struct {
			InteractionType string
			Count           int64
		}
		err := db.Model(&models.Interaction{}).
			Select("interaction_type, COUNT(*) as count").
			Where("user_id = ?", uid).
			Group("interaction_type").
			Scan(&rows).Error
		if err != nil {
			lg.Errorw("stats query failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		var stats statsResp
		for _, row := range rows {
			stats.Total += row.Count
			switch strings.ToLower(row.InteractionType) {
			case "discussion":
				stats.Discussion = row.Count
			case "disagreement":
				stats.Disagreement = row.Count
			case "debate":
				stats.Debate = row.Count
			case "confrontation":
				stats.Confrontation = row.Count
			}
		}

		cutoff := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
		err = db.Model(&models.Interaction{}).
			Where("user_id = ? AND date >= ?", uid, cutoff).
			Count(&stats.RecentTotal).Error
		if err != nil {
			lg.Errorw("stats recent query failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		respondJSON(w, stats)
	}
}
