package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"talktracker/internal/auth"
	"talktracker/internal/models"
	"talktracker/internal/util"
)

type userView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func viewOf(u models.User) userView {
	return userView{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

func Register(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		username := util.Clip(req.Username, 50)
		email := util.NormalizeEmail(req.Email)
		if username == "" || email == "" || req.Password == "" {
			respondError(w, http.StatusBadRequest, "Username, email and password are required")
			return
		}
		if !util.ValidEmail(email) {
			respondError(w, http.StatusBadRequest, "Invalid email address")
			return
		}
		if len(req.Password) < auth.MinPasswordLength {
			respondError(w, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}

		var count int64
		db.Model(&models.User{}).Where("username = ?", username).Count(&count)
		if count > 0 {
			respondError(w, http.StatusConflict, "Username already taken")
			return
		}
		db.Model(&models.User{}).Where("email = ?", email).Count(&count)
		if count > 0 {
			respondError(w, http.StatusConflict, "Email already registered")
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			lg.Errorw("password hash failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Something went wrong")
			return
		}
		u := models.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			Role:         "client",
			Onboarding:   models.OnboardingActive,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		if err := db.Create(&u).Error; err != nil {
			lg.Errorw("user create failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		recordAudit(db, u.ID, "register", map[string]any{"username": u.Username})
		respondJSON(w, map[string]any{"success": true, "user": viewOf(u)})
	}
}

func Login(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Email == "" || req.Password == "" {
			respondError(w, http.StatusBadRequest, "Email and password required")
			return
		}
		var u models.User
		if err := db.First(&u, "email = ?", util.NormalizeEmail(req.Email)).Error; err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if err := auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if _, err := auth.StartSession(db, w, u.ID); err != nil {
			lg.Errorw("session create failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		recordAudit(db, u.ID, "login", nil)
		resp := map[string]any{"success": true, "user": viewOf(u)}
		if u.Onboarding == models.OnboardingMustChangePassword {
			resp["requirePasswordChange"] = true
		}
		respondJSON(w, resp)
	}
}

func Logout(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth.EndSession(db, w, r)
		respondJSON(w, map[string]any{"success": true})
	}
}

func AuthStatus(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.CurrentUser(db, w, r)
		if !ok {
			respondJSON(w, map[string]any{"authenticated": false})
			return
		}
		respondJSON(w, map[string]any{
			"authenticated": true,
			"user": userView{
				ID: id.UserID, Username: id.Username, Email: id.Email, Role: id.Role,
			},
		})
	}
}

func ChangePassword(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CurrentPassword string `json:"currentPassword"`
			NewPassword     string `json:"newPassword"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if len(req.NewPassword) < auth.MinPasswordLength {
			respondError(w, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}
		uid := auth.UserID(r.Context())
		var u models.User
		if err := db.First(&u, "id = ?", uid).Error; err != nil {
			respondError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if err := auth.CheckPassword(u.PasswordHash, req.CurrentPassword); err != nil {
			respondError(w, http.StatusUnauthorized, "Current password is incorrect")
			return
		}
		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			lg.Errorw("password hash failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Something went wrong")
			return
		}
		updates := map[string]any{
			"password_hash": hash,
			"onboarding":    models.OnboardingActive,
			"updated_at":    time.Now(),
		}
		if err := db.Model(&models.User{}).Where("id = ?", uid).Updates(updates).Error; err != nil {
			lg.Errorw("password update failed", "error", err)
			respondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		recordAudit(db, uid, "password_changed", nil)
		respondJSON(w, map[string]any{"success": true})
	}
}
