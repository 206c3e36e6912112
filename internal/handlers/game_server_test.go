// internal/handlers/game_server_test.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestServer(t *testing.T, gs *GameServer) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(GameWSHandler(testLogger(), gs))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		Subprotocols: []string{"buzzboard"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(websocket.StatusNormalClosure, "") })
	return c
}

// readStateUpdate reads the next message and returns the snapshot's player
// count.
func readStateUpdate(t *testing.T, c *websocket.Conn) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, data, err := c.Read(ctx)
	require.NoError(t, err)

	var ev struct {
		Type  string `json:"type"`
		State *struct {
			Players []json.RawMessage `json:"players"`
		} `json:"state"`
	}
	require.NoError(t, json.Unmarshal(data, &ev))
	require.Equal(t, "gameStateUpdate", ev.Type)
	require.NotNil(t, ev.State)
	return len(ev.State.Players)
}

func TestClientReceivesSnapshotOnConnect(t *testing.T) {
	gs := NewGameServer(testLogger())
	c := dialTestServer(t, gs)

	assert.Equal(t, 0, readStateUpdate(t, c))
}

// Successive broadcasts must reach one client in the order they were made;
// each addPlayer below produces a snapshot with one more player, so any
// reordering shows up as a non-consecutive count.
func TestBroadcastsArriveInOrderPerConnection(t *testing.T) {
	gs := NewGameServer(testLogger())
	c := dialTestServer(t, gs)

	require.Equal(t, 0, readStateUpdate(t, c))

	const n = 8
	for i := 0; i < n; i++ {
		gs.Game.AddPlayer(uuid.New(), fmt.Sprintf("player-%d", i))
	}

	for i := 1; i <= n; i++ {
		assert.Equal(t, i, readStateUpdate(t, c))
	}
}

func TestPingGetsPong(t *testing.T) {
	gs := NewGameServer(testLogger())
	c := dialTestServer(t, gs)
	readStateUpdate(t, c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Write(ctx, websocket.MessageText, []byte(`{"type":"ping"}`)))

	_, data, err := c.Read(ctx)
	require.NoError(t, err)
	var reply struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(data, &reply))
	assert.Equal(t, "pong", reply.Type)
}
