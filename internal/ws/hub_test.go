package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub()
	go hub.Run(ctx)
	return hub
}

func dial(t *testing.T, hub *Hub, userID uuid.UUID) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(conn, hub, userID)
		hub.Register(client)
		client.Run(r.Context())
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.ClientCount(userID) == 1 }, time.Second, 10*time.Millisecond)
	return conn
}

func TestHub_DeliversFavoriteEventToOwner(t *testing.T) {
	hub := startHub(t)
	owner := uuid.New()
	conn := dial(t, hub, owner)

	hub.NotifyFavorites(uuid.New(), "favorite.created", map[string]int{"order": 9})
	hub.NotifyFavorites(owner, "favorite.created", map[string]int{"order": 0})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type string         `json:"type"`
		Data map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "favorite.created", msg.Type)
	assert.Equal(t, 0, msg.Data["order"])
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub := startHub(t)
	owner := uuid.New()
	conn := dial(t, hub, owner)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount(owner) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastUnmarshalableFails(t *testing.T) {
	hub := NewHub()
	err := hub.BroadcastToUser(uuid.New(), "x", make(chan int))
	assert.Error(t, err)
}
