package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityLog(t *testing.T) {
	router, _ := newTestRouter(t)
	c := newClient(t, router)
	signup(t, c, "alice", "alice@x.com", "secret1")
	c.do(http.MethodPost, "/api/change-password",
		map[string]string{"currentPassword": "secret1", "newPassword": "secret2"})

	w := c.do(http.MethodGet, "/api/activity", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decodeList(t, w)
	require.NotEmpty(t, entries)

	actions := map[string]bool{}
	for _, e := range entries {
		actions[e["action"].(string)] = true
	}
	assert.True(t, actions["register"])
	assert.True(t, actions["login"])
	assert.True(t, actions["password_changed"])

	// Scoped: another user sees only their own trail.
	other := newClient(t, router)
	signup(t, other, "bob", "bob@x.com", "secret1")
	entries = decodeList(t, other.do(http.MethodGet, "/api/activity", nil))
	for _, e := range entries {
		assert.EqualValues(t, 2, e["user_id"])
	}
}
