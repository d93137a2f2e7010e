package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"talktracker/internal/httpserver"
	"talktracker/internal/mail"
	"talktracker/internal/models"
)

func newTestRouter(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	t.Setenv("SHARE_TOKEN_SECRET", "test-share-secret")
	if os.Getenv("LOGIN_RATE_LIMIT") == "" {
		t.Setenv("LOGIN_RATE_LIMIT", "1000")
	}
	if os.Getenv("API_RATE_LIMIT") == "" {
		t.Setenv("API_RATE_LIMIT", "10000")
	}
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	lg := zap.NewNop().Sugar()
	return httpserver.NewRouter(db, lg, mail.New(lg)), db
}

// client replays cookies across requests, standing in for a browser session.
type client struct {
	t       *testing.T
	router  http.Handler
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, router http.Handler) *client {
	return &client{t: t, router: router, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(c.cookies, ck.Name)
		} else {
			c.cookies[ck.Name] = ck
		}
	}
	return w
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var l []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l))
	return l
}

// signup registers a user and logs them in through the API.
func signup(t *testing.T, c *client, username, email, password string) {
	t.Helper()
	w := c.do(http.MethodPost, "/api/register",
		map[string]string{"username": username, "email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = c.do(http.MethodPost, "/api/login",
		map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func logInteraction(t *testing.T, c *client, date, tm, person, typ string) uint {
	t.Helper()
	w := c.do(http.MethodPost, "/api/interactions", map[string]string{
		"date": date, "time": tm, "person": person, "interaction_type": typ,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeMap(t, w)
	return uint(resp["id"].(float64))
}
