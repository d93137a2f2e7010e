package auth

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"talktracker/internal/models"
)

func newSessionDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	u := models.User{Username: "alice", Email: "alice@x.com", PasswordHash: "x", Role: "client", Onboarding: models.OnboardingActive}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func requestWithCookie(id string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})
	return r
}

func TestSessionLifecycle(t *testing.T) {
	db := newSessionDB(t)
	u := seedUser(t, db)

	w := httptest.NewRecorder()
	sess, err := StartSession(db, w, u.ID)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, sess.ID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	got, ok := lookupSession(db, httptest.NewRecorder(), requestWithCookie(sess.ID))
	require.True(t, ok)
	assert.Equal(t, u.ID, got.ID)

	w2 := httptest.NewRecorder()
	EndSession(db, w2, requestWithCookie(sess.ID))
	_, ok = lookupSession(db, httptest.NewRecorder(), requestWithCookie(sess.ID))
	assert.False(t, ok)
}

func TestSessionSlidingExpiry(t *testing.T) {
	db := newSessionDB(t)
	u := seedUser(t, db)

	sess, err := StartSession(db, httptest.NewRecorder(), u.ID)
	require.NoError(t, err)

	// Age the session without expiring it, then confirm a hit slides it.
	aged := time.Now().Add(30 * time.Minute)
	require.NoError(t, db.Model(&models.Session{}).
		Where("id = ?", sess.ID).Update("expires_at", aged).Error)

	w := httptest.NewRecorder()
	_, ok := lookupSession(db, w, requestWithCookie(sess.ID))
	require.True(t, ok)

	var after models.Session
	require.NoError(t, db.First(&after, "id = ?", sess.ID).Error)
	assert.True(t, after.ExpiresAt.After(aged))
	require.Len(t, w.Result().Cookies(), 1) // cookie re-issued with new expiry
}

func TestSessionExpired(t *testing.T) {
	db := newSessionDB(t)
	u := seedUser(t, db)

	sess, err := StartSession(db, httptest.NewRecorder(), u.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Session{}).
		Where("id = ?", sess.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	_, ok := lookupSession(db, httptest.NewRecorder(), requestWithCookie(sess.ID))
	assert.False(t, ok)

	// Expired rows are cleaned up on sight.
	var count int64
	db.Model(&models.Session{}).Where("id = ?", sess.ID).Count(&count)
	assert.Zero(t, count)
}
