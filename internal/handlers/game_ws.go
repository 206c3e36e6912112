// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/buzzkit/buzzboard/internal/game"
	"github.com/buzzkit/buzzboard/internal/middleware"
)

// Message is the typed envelope for every inbound client event. Only the
// fields belonging to the given Type are read; everything else is ignored,
// so unexpected payload shapes degrade to no-ops instead of crashes.
type Message struct {
	Type string `json:"type"`

	// Name is the display name for playerConnect / addPlayer.
	Name string `json:"name,omitempty"`

	// PlayerID targets a player for host actions and judging.
	PlayerID string `json:"playerId,omitempty"`

	// CardKey is the "cat-row" board cell for card actions.
	CardKey string `json:"cardKey,omitempty"`

	// Score is the absolute target for manualScoreUpdate.
	Score int `json:"score,omitempty"`

	// Wager is kept raw so a non-numeric submission can be clamped rather
	// than rejected with the whole message.
	Wager json.RawMessage `json:"wager,omitempty"`

	IsCorrect bool `json:"isCorrect,omitempty"`

	// Wagers carries a playerId -> amount map for submitFinalWagers.
	Wagers map[string]int `json:"wagers,omitempty"`

	// Results carries the judgeFinalAnswers batch.
	Results []FinalResultMessage `json:"results,omitempty"`
}

// FinalResultMessage is one verdict inside a judgeFinalAnswers batch.
type FinalResultMessage struct {
	PlayerID  string `json:"playerId"`
	IsCorrect bool   `json:"isCorrect"`
}

// GameWSHandler upgrades the HTTP connection to WebSocket, registers it with
// the game server, syncs the client with a snapshot, and runs the read loop
// until the connection dies.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"buzzboard"},
			OriginPatterns: []string{"*"}, // adjust for production security
		})
		if err != nil {
			logger.Warnf("WebSocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal server error during handler exit")

		if c.Subprotocol() != "buzzboard" {
			logger.Warnf("client connected with invalid subprotocol: %s", c.Subprotocol())
			c.Close(BadSubprotocolError, "client must use the 'buzzboard' subprotocol")
			return
		}

		connID := uuid.New()
		gs.addConn(connID, c)
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		// Sync the newcomer immediately so late joiners see the board.
		gs.sendJSON(connID, gs.Game.StateEvent())

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readMessages(ctx, c, gs, connID, logger)

		// Disconnects are logged only; player records keep their stale
		// session reference until the name reconnects.
		gs.removeConn(connID)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, nil)
		c.Close(websocket.StatusNormalClosure, "bye")
	}
}

// readMessages reads, decodes, and dispatches client events until the
// connection closes or the context is canceled.
func readMessages(ctx context.Context, c *websocket.Conn, gs *GameServer, connID uuid.UUID, logger *logrus.Logger) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("WebSocket closed normally for conn %s", connID)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("WebSocket context canceled for conn %s", connID)
			} else {
				logger.Warnf("error reading from WebSocket for conn %s: %v (status: %d)", connID, err, status)
			}
			return
		}
		if msgType != websocket.MessageText {
			logger.Warnf("received non-text message type %d from conn %s, ignoring", msgType, connID)
			continue
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("invalid JSON from conn %s: %v", connID, err)
			sendWsError(gs, connID, "Invalid JSON format.")
			continue
		}

		logger.Debugf("received event '%s' from conn %s", msg.Type, connID)
		dispatch(gs, connID, msg, logger)

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// dispatch routes one decoded message to the matching game handler.
func dispatch(gs *GameServer, connID uuid.UUID, msg Message, logger *logrus.Logger) {
	g := gs.Game
	switch msg.Type {
	case "playerConnect":
		g.Connect(connID, msg.Name)

	case "addPlayer":
		g.AddPlayer(connID, msg.Name)

	case "startGame":
		g.StartGame(connID)

	case "manualSetActivePlayer":
		pid, err := uuid.Parse(msg.PlayerID)
		if err != nil {
			sendWsError(gs, connID, "Invalid player id.")
			return
		}
		g.SetActivePlayer(connID, pid)

	case "manualScoreUpdate":
		pid, err := uuid.Parse(msg.PlayerID)
		if err != nil {
			sendWsError(gs, connID, "Invalid player id.")
			return
		}
		g.SetPlayerScore(connID, pid, msg.Score)

	case "undoLastAction":
		g.UndoLastAction(connID)

	case "resetScores":
		g.ResetScores(connID)

	case "newGame":
		g.NewGame(connID)

	case "selectCard":
		g.SelectCard(connID, msg.CardKey)

	case "submitWager":
		wager, numeric := parseWager(msg.Wager)
		g.SubmitWager(connID, wager, numeric)

	case "buzz":
		g.Buzz(connID)

	case "judgeAnswer":
		pid, err := uuid.Parse(msg.PlayerID)
		if err != nil {
			sendWsError(gs, connID, "Invalid player id.")
			return
		}
		g.JudgeAnswer(connID, msg.CardKey, msg.IsCorrect, pid)

	case "noOtherTakers":
		g.NoOtherTakers(connID, msg.CardKey)

	case "revealFinalQuestion":
		g.RevealFinalQuestion(connID)

	case "submitFinalWagers":
		wagers := make(map[uuid.UUID]int, len(msg.Wagers))
		for idStr, w := range msg.Wagers {
			id, err := uuid.Parse(idStr)
			if err != nil {
				logger.Warnf("skipping final wager with bad player id %q from conn %s", idStr, connID)
				continue
			}
			wagers[id] = w
		}
		g.SubmitFinalWagers(connID, wagers)

	case "judgeFinalAnswers":
		results := make([]game.FinalResult, 0, len(msg.Results))
		for _, res := range msg.Results {
			id, err := uuid.Parse(res.PlayerID)
			if err != nil {
				logger.Warnf("skipping final result with bad player id %q from conn %s", res.PlayerID, connID)
				continue
			}
			results = append(results, game.FinalResult{PlayerID: id, IsCorrect: res.IsCorrect})
		}
		g.JudgeFinalAnswers(connID, results)

	case "ping":
		gs.sendJSON(connID, map[string]string{"type": "pong"})

	default:
		logger.Warnf("unknown event type '%s' from conn %s", msg.Type, connID)
		sendWsError(gs, connID, fmt.Sprintf("Unknown event type: %s", msg.Type))
	}
}

// parseWager accepts a bare number or a quoted numeric string; anything else
// reports non-numeric so the game can clamp it.
func parseWager(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(raw)), `"`))
	w, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return w, true
}

// sendWsError queues a structured error reply for the client.
func sendWsError(gs *GameServer, connID uuid.UUID, errorMsg string) {
	gs.sendJSON(connID, map[string]interface{}{
		"type":    "error",
		"message": errorMsg,
	})
}
