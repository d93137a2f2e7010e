package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"talktracker/internal/auth"
	"talktracker/internal/mail"
	"talktracker/internal/models"
	"talktracker/internal/util"
)

const resetTokenTTL = time.Hour

func baseURL() string {
	if s := os.Getenv("APP_BASE_URL"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

// RequestPasswordReset always answers {success:true} so callers cannot probe
// which addresses are registered. A newer request overwrites any outstanding
// token for the same user.
func RequestPasswordReset(db *gorm.DB, lg *zap.SugaredLogger, mailer *mail.Mailer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		email := util.NormalizeEmail(req.Email)
		if email == "" {
			respondError(w, http.StatusBadRequest, "Email required")
			return
		}

		var u models.User
		if err := db.First(&u, "email = ?", email).Error; err == nil {
			token := uuid.NewString()
			expires := time.Now().Add(resetTokenTTL)
			err := db.Model(&models.User{}).Where("id = ?", u.ID).Updates(map[string]any{
				"reset_token":            token,
				"reset_token_expires_at": expires,
				"updated_at":             time.Now(),
			}).Error
			if err != nil {
				lg.Errorw("reset token store failed", "error", err)
			} else {
				recordAudit(db, u.ID, "password_reset_requested", nil)
				resetURL := baseURL() + "/reset-password?token=" + token
				if err := mailer.SendPasswordReset(u.Email, u.Username, resetURL); err != nil {
					// Swallowed: the response must not reveal delivery outcome.
					lg.Errorw("reset email failed", "error", err)
				}
			}
		}
		respondJSON(w, map[string]any{"success": true})
	}
}

func userByResetToken(db *gorm.DB, token string) (models.User, bool) {
	var u models.User
	err := db.First(&u, "reset_token = ? AND reset_token_expires_at > ?", token, time.Now()).Error
	return u, err == nil
}

func ValidateResetToken(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		u, ok := userByResetToken(db, token)
		if !ok {
			respondError(w, http.StatusBadRequest, "Invalid or expired reset token")
			return
		}
		respondJSON(w, map[string]any{
			"success": true,
			"user":    map[string]string{"username": u.Username, "email": u.Email},
		})
	}
}

// ResetPassword consumes a still-valid token exactly once: the hash is
// replaced and the token cleared in the same update.
func ResetPassword(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Token       string `json:"token"`
			NewPassword string `json:"newPassword"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if len(req.NewPassword) < auth.MinPasswordLength {
			respondError(w, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}
		u, ok := userByResetToken(db, req.Token)
		if !ok {
			respondError(w, http.StatusBadRequest, "Invalid or expired reset token")
			return
		}
		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			lg.Errorw("password hash failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Something went wrong")
			return
		}
		res := db.Model(&models.User{}).
			Where("id = ? AND reset_token = ?", u.ID, req.Token).
			Updates(map[string]any{
				"password_hash":          hash,
				"reset_token":            nil,
				"reset_token_expires_at": nil,
				"onboarding":             models.OnboardingActive,
				"updated_at":             time.Now(),
			})
		if res.Error != nil {
			lg.Errorw("password reset failed", "error", res.Error)
			respondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		if res.RowsAffected == 0 {
			respondError(w, http.StatusBadRequest, "Invalid or expired reset token")
			return
		}
		recordAudit(db, u.ID, "password_reset", nil)
		respondJSON(w, map[string]any{"success": true})
	}
}
