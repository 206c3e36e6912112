// internal/handlers/game_server.go
package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/buzzkit/buzzboard/internal/game"
)

const (
	// writeTimeout bounds every outbound WebSocket write so one stuck client
	// cannot hold up the rest of the room.
	writeTimeout = 3 * time.Second

	// sendQueueSize is the outbound backlog per client before messages are
	// dropped.
	sendQueueSize = 32
)

// wsClient pairs a connection with its outbound queue. Exactly one writer
// goroutine drains the queue, so a client receives messages in the order
// they were enqueued.
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// GameServer owns the single authoritative Game and the registry of live
// WebSocket connections. It installs itself as the game's broadcast sink.
type GameServer struct {
	mu    sync.Mutex
	conns map[uuid.UUID]*wsClient

	Game   *game.Game
	logger *logrus.Logger
}

// NewGameServer wires a fresh Game to a connection registry.
func NewGameServer(logger *logrus.Logger) *GameServer {
	gs := &GameServer{
		conns:  make(map[uuid.UUID]*wsClient),
		logger: logger,
	}
	g := game.NewGame()
	g.BroadcastFn = gs.broadcast
	g.SendFn = gs.sendTo
	gs.Game = g
	return gs
}

func (gs *GameServer) addConn(id uuid.UUID, c *websocket.Conn) {
	cl := &wsClient{
		conn: c,
		send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
	}
	gs.mu.Lock()
	gs.conns[id] = cl
	gs.mu.Unlock()
	go gs.writeLoop(id, cl)
}

func (gs *GameServer) removeConn(id uuid.UUID) {
	gs.mu.Lock()
	cl, ok := gs.conns[id]
	delete(gs.conns, id)
	gs.mu.Unlock()
	if ok {
		close(cl.done)
	}
}

// writeLoop is the sole writer for one connection. Each write gets its own
// timeout; a failed write kills the loop, the read side notices on its own.
func (gs *GameServer) writeLoop(id uuid.UUID, cl *wsClient) {
	for {
		select {
		case <-cl.done:
			return
		case data := <-cl.send:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err := cl.conn.Write(ctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				gs.logger.Warnf("write to conn %s failed, stopping its writer: %v", id, err)
				return
			}
		}
	}
}

// enqueue hands a payload to the client's writer without ever blocking the
// caller. A client with a full queue is lagging badly and loses the message;
// the next state update supersedes it.
func (gs *GameServer) enqueue(id uuid.UUID, cl *wsClient, data []byte) {
	select {
	case cl.send <- data:
	case <-cl.done:
	default:
		gs.logger.Warnf("send queue full for conn %s, dropping message", id)
	}
}

// broadcast fans an event out to every live connection. It is called while
// the game lock is held, so it only enqueues; per-client delivery order is
// the enqueue order.
func (gs *GameServer) broadcast(ev game.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		gs.logger.Errorf("failed to marshal broadcast event (%s): %v", ev.Type, err)
		return
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()
	for id, cl := range gs.conns {
		gs.enqueue(id, cl, data)
	}
}

// sendTo delivers an event to one connection through the same ordered queue.
func (gs *GameServer) sendTo(connID uuid.UUID, ev game.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		gs.logger.Errorf("failed to marshal event (%s) for conn %s: %v", ev.Type, connID, err)
		return
	}
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if cl, ok := gs.conns[connID]; ok {
		gs.enqueue(connID, cl, data)
	}
}

// sendJSON queues an arbitrary message for one connection; used by the WS
// layer for connect-time snapshots, pongs, and error replies so they share
// the broadcast ordering.
func (gs *GameServer) sendJSON(connID uuid.UUID, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		gs.logger.Errorf("failed to marshal message for conn %s: %v", connID, err)
		return
	}
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if cl, ok := gs.conns[connID]; ok {
		gs.enqueue(connID, cl, data)
	}
}

// NumConns reports the number of live connections, for the index page.
func (gs *GameServer) NumConns() int {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return len(gs.conns)
}
