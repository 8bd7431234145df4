package ws

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	refreshed chan string
}

func (a *fakeAuth) ValidateToken(token string) (string, error) {
	if token == "bad" {
		return "", errors.New("unknown session")
	}
	return "session-" + token, nil
}

func (a *fakeAuth) Greeting(sessionID string) *Event {
	return &Event{Type: "active_year", Data: map[string]string{"session": sessionID}}
}

func (a *fakeAuth) HandleRefresh(sessionID string) error {
	a.refreshed <- sessionID
	return nil
}

func startServer(t *testing.T) (*Hub, *fakeAuth, *httptest.Server) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	auth := &fakeAuth{refreshed: make(chan string, 1)}
	hub := NewHub(log)
	hub.SetHandler(auth)
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, auth, log, w, r)
	}))
	t.Cleanup(srv.Close)
	return hub, auth, srv
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event map[string]interface{}
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func TestRejectsMissingOrBadToken(t *testing.T) {
	_, _, srv := startServer(t)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=bad"
	_, resp, err = websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPublishReachesOnlyItsSession(t *testing.T) {
	hub, _, srv := startServer(t)

	a := dial(t, srv, "a")
	b := dial(t, srv, "b")

	assert.Equal(t, "active_year", readEvent(t, a)["type"])
	assert.Equal(t, "active_year", readEvent(t, b)["type"])

	require.Eventually(t, func() bool {
		return hub.Clients("session-a") == 1 && hub.Clients("session-b") == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish("session-b", "session_closed", nil)
	assert.Equal(t, "session_closed", readEvent(t, b)["type"])

	_ = a.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err := a.ReadMessage()
	assert.Error(t, err)
}

func TestClientRefreshMessage(t *testing.T) {
	_, auth, srv := startServer(t)

	conn := dial(t, srv, "c")
	readEvent(t, conn)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "refresh_active_year"}))

	select {
	case id := <-auth.refreshed:
		assert.Equal(t, "session-c", id)
	case <-time.After(2 * time.Second):
		t.Fatal("refresh not dispatched")
	}
}
