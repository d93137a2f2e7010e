package auth

import (
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"talktracker/internal/models"
)

// SessionCookie is the name of the opaque session cookie.
const SessionCookie = "talktracker_session"

func sessionTTL() time.Duration {
	if s := os.Getenv("SESSION_TTL"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return 24 * time.Hour
}

// StartSession creates a session row for the user and sets the cookie.
func StartSession(db *gorm.DB, w http.ResponseWriter, userID uint) (models.Session, error) {
	sess := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(sessionTTL()),
		CreatedAt: time.Now(),
	}
	if err := db.Create(&sess).Error; err != nil {
		return models.Session{}, err
	}
	setSessionCookie(w, sess.ID, sess.ExpiresAt)
	return sess, nil
}

// EndSession deletes the session row named by the request cookie, if any,
// and expires the cookie.
func EndSession(db *gorm.DB, w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		db.Delete(&models.Session{}, "id = ?", c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// lookupSession resolves the request's session cookie to a live session and
// its user. Expired sessions are removed on sight. The session's expiry
// slides forward and the cookie is re-issued on every hit.
func lookupSession(db *gorm.DB, w http.ResponseWriter, r *http.Request) (models.User, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return models.User{}, false
	}
	var sess models.Session
	if db.First(&sess, "id = ?", c.Value).Error != nil {
		return models.User{}, false
	}
	if time.Now().After(sess.ExpiresAt) {
		db.Delete(&models.Session{}, "id = ?", sess.ID)
		return models.User{}, false
	}
	var u models.User
	if db.First(&u, "id = ?", sess.UserID).Error != nil {
		return models.User{}, false
	}
	exp := time.Now().Add(sessionTTL())
	db.Model(&models.Session{}).Where("id = ?", sess.ID).Update("expires_at", exp)
	setSessionCookie(w, sess.ID, exp)
	return u, true
}

func setSessionCookie(w http.ResponseWriter, id string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
