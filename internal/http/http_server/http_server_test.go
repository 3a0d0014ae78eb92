package http_server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chatrooms/internal/chat"
	"chatrooms/internal/rooms"
	"chatrooms/internal/session"
	"chatrooms/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httpServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := rooms.NewRegistry()
	reg.Pin("lobby", "Lobby")
	coord := chat.NewCoordinator(reg, session.NewMemoryStore(), "lobby")
	wsSrv := ws.NewWsServer(coord, ws.Options{ReadLimit: 4096, SendBuffer: 8})

	return NewHttpServer(context.Background(), Options{CookieName: "jchat_session", LobbyID: "lobby"}, wsSrv, coord)
}

func TestRouterIssuesSessionCookie(t *testing.T) {
	r := newTestServer(t).Router()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "jchat_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestRouterExposesMetrics(t *testing.T) {
	r := newTestServer(t).Router()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "chatrooms_connections_active"))
	assert.Empty(t, w.Result().Cookies(), "metrics are served without a session")
}
