package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"talktracker/internal/models"
)

func resetTokenOf(t *testing.T, db *gorm.DB, email string) string {
	t.Helper()
	var u models.User
	require.NoError(t, db.First(&u, "email = ?", email).Error)
	require.NotNil(t, u.ResetToken)
	return *u.ResetToken
}

func TestRequestResetIdenticalResponses(t *testing.T) {
	router, _ := newTestRouter(t)
	c := newClient(t, router)
	signup(t, c, "alice", "alice@x.com", "secret1")
	c.do(http.MethodPost, "/api/logout", nil)

	known := c.do(http.MethodPost, "/api/request-password-reset",
		map[string]string{"email": "alice@x.com"})
	unknown := c.do(http.MethodPost, "/api/request-password-reset",
		map[string]string{"email": "ghost@x.com"})

	require.Equal(t, http.StatusOK, known.Code)
	require.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String())
}

func TestResetFlowAndSingleUse(t *testing.T) {
	router, db := newTestRouter(t)
	c := newClient(t, router)
	signup(t, c, "alice", "alice@x.com", "secret1")
	c.do(http.MethodPost, "/api/logout", nil)

	w := c.do(http.MethodPost, "/api/request-password-reset",
		map[string]string{"email": "alice@x.com"})
	require.Equal(t, http.StatusOK, w.Code)
	token := resetTokenOf(t, db, "alice@x.com")

	w = c.do(http.MethodGet, "/api/validate-reset-token/"+token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeMap(t, w)
	assert.Equal(t, "alice", resp["user"].(map[string]any)["username"])

	w = c.do(http.MethodPost, "/api/reset-password",
		map[string]string{"token": token, "newPassword": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodPost, "/api/reset-password",
		map[string]string{"token": token, "newPassword": "newsecret"})
	require.Equal(t, http.StatusOK, w.Code)

	// Consumed: second attempt with the same token must fail.
	w = c.do(http.MethodPost, "/api/reset-password",
		map[string]string{"token": token, "newPassword": "another1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = c.do(http.MethodGet, "/api/validate-reset-token/"+token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodPost, "/api/login",
		map[string]string{"email": "alice@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = c.do(http.MethodPost, "/api/login",
		map[string]string{"email": "alice@x.com", "password": "newsecret"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResetTokenOverwrite(t *testing.T) {
	router, db := newTestRouter(t)
	c := newClient(t, router)
	signup(t, c, "alice", "alice@x.com", "secret1")
	c.do(http.MethodPost, "/api/logout", nil)

	c.do(http.MethodPost, "/api/request-password-reset", map[string]string{"email": "alice@x.com"})
	first := resetTokenOf(t, db, "alice@x.com")
	c.do(http.MethodPost, "/api/request-password-reset", map[string]string{"email": "alice@x.com"})
	second := resetTokenOf(t, db, "alice@x.com")
	require.NotEqual(t, first, second)

	// The overwritten token is dead; only the newest works.
	w := c.do(http.MethodPost, "/api/reset-password",
		map[string]string{"token": first, "newPassword": "newsecret"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = c.do(http.MethodPost, "/api/reset-password",
		map[string]string{"token": second, "newPassword": "newsecret"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResetTokenExpiry(t *testing.T) {
	router, db := newTestRouter(t)
	c := newClient(t, router)
	signup(t, c, "alice", "alice@x.com", "secret1")
	c.do(http.MethodPost, "/api/logout", nil)

	c.do(http.MethodPost, "/api/request-password-reset", map[string]string{"email": "alice@x.com"})
	token := resetTokenOf(t, db, "alice@x.com")

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "alice@x.com").
		Update("reset_token_expires_at", expired).Error)

	w := c.do(http.MethodGet, "/api/validate-reset-token/"+token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = c.do(http.MethodPost, "/api/reset-password",
		map[string]string{"token": token, "newPassword": "newsecret"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
