package mux

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studpoker-server/pkg/playable"
)

func TestGetGameWS(t *testing.T) {
	a := assert.New(t)

	ts := httptest.NewServer(newTestMux())
	defer ts.Close()

	assertPost(t, ts, "/game", postGamePayload{Name: "alice"}, nil, http.StatusCreated)

	var alice joinResponse
	assertPost(t, ts, "/game/0/player", postGamePlayerPayload{Name: "alice"}, &alice, http.StatusCreated)
	assertPost(t, ts, "/game/0/start", nil, nil, http.StatusOK)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/game/0/ws?token=" + alice.Token
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	defer resp.Body.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg playable.Response
	require.NoError(t, conn.ReadJSON(&msg))
	a.Equal("whoami", msg.Key)

	// asking for state gets a state event back eventually
	require.NoError(t, conn.WriteJSON(&playable.PayloadIn{Action: "state"}))
	for {
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Key == "state" {
			break
		}
	}
}
