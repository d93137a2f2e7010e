package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"talktracker/internal/auth"
	"talktracker/internal/models"
	"talktracker/internal/util"
)

const (
	defaultShareLinkDays = 30
	maxShareLinkDays     = 365
)

// CreateShareLink mints a revocable therapist credential: a share_links row
// plus a signed token whose jti references it. The caller hands the returned
// URL to their therapist.
func CreateShareLink(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Label         string `json:"label"`
			ExpiresInDays int    `json:"expires_in_days"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		days := req.ExpiresInDays
		if days <= 0 {
			days = defaultShareLinkDays
		}
		if days > maxShareLinkDays {
			respondError(w, http.StatusBadRequest, "Share links can last at most 365 days")
			return
		}

		uid := auth.UserID(r.Context())
		link := models.ShareLink{
			ID:        uuid.NewString(),
			UserID:    uid,
			Label:     util.Clip(req.Label, 100),
			ExpiresAt: time.Now().AddDate(0, 0, days),
			CreatedAt: time.Now(),
		}
		if err := db.Create(&link).Error; err != nil {
			lg.Errorw("share link create failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		token, err := auth.SignShareToken(link.ID, uid, link.ExpiresAt)
		if err != nil {
			lg.Errorw("share token sign failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Something went wrong")
			return
		}
		recordAudit(db, uid, "share_link_created", map[string]any{"link_id": link.ID})
		url := fmt.Sprintf("%s/therapist?userId=%d&token=%s", baseURL(), uid, token)
		respondJSON(w, map[string]any{
			"success": true,
			"link": map[string]any{
				"id":         link.ID,
				"label":      link.Label,
				"expires_at": link.ExpiresAt,
				"token":      token,
				"url":        url,
			},
		})
	}
}

func ListShareLinks(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		links := []models.ShareLink{}
		err := db.Where("user_id = ?", auth.UserID(r.Context())).
			Order("created_at desc").
			Find(&links).Error
		if err != nil {
			lg.Errorw("share link list failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		respondJSON(w, links)
	}
}

func RevokeShareLink(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		uid := auth.UserID(r.Context())
		res := db.Model(&models.ShareLink{}).
			Where("id = ? AND user_id = ? AND revoked_at IS NULL", id, uid).
			Update("revoked_at", time.Now())
		if res.Error != nil {
			lg.Errorw("share link revoke failed", "error", res.Error)
			respondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		if res.RowsAffected == 0 {
			respondError(w, http.StatusNotFound, "Share link not found")
			return
		}
		recordAudit(db, uid, "share_link_revoked", map[string]any{"link_id": id})
		respondJSON(w, map[string]any{"success": true})
	}
}
