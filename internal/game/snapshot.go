// internal/game/snapshot.go
package game

import "github.com/google/uuid"

// FinalInfo is the client-visible slice of the Final Jeopardy round; the
// answer stays server-side.
type FinalInfo struct {
	Category string `json:"category"`
	Question string `json:"question"`
}

// Snapshot is the full projected game state broadcast on every mutation.
// Board cards are value copies; mutating a snapshot never touches the game.
type Snapshot struct {
	GameStarted           bool                        `json:"gameStarted"`
	Players               []Player                    `json:"players"`
	CurrentPlayerID       *uuid.UUID                  `json:"currentPlayerId"`
	BoardState            map[string]Card             `json:"boardState"`
	ActiveCardKey         string                      `json:"activeCardKey,omitempty"`
	CurrentQuestionText   string                      `json:"currentQuestionText,omitempty"`
	CurrentWager          int                         `json:"currentWager"`
	CurrentBuzzerPlayerID *uuid.UUID                  `json:"currentBuzzerPlayerId"`
	AwaitingWager         bool                        `json:"awaitingWager,omitempty"`
	HistoryStackLength    int                         `json:"historyStackLength"`
	AnsweredCluesCount    int                         `json:"answeredCluesCount"`
	TurnCounter           int                         `json:"turnCounter"`
	ScoreHistory          map[uuid.UUID][]ScoreSample `json:"scoreHistory"`
	FinalJeopardy         *FinalInfo                  `json:"finalJeopardyData,omitempty"`
}

// snapshotLocked projects the current state. Assumes lock is held.
func (g *Game) snapshotLocked() Snapshot {
	snap := Snapshot{
		GameStarted:           g.Started,
		Players:               make([]Player, 0, len(g.Players)),
		CurrentPlayerID:       uuidPtr(g.PickingPlayerID),
		BoardState:            make(map[string]Card, len(g.Board)),
		ActiveCardKey:         g.ActiveCardKey,
		CurrentQuestionText:   g.QuestionText,
		CurrentWager:          g.CurrentWager,
		CurrentBuzzerPlayerID: uuidPtr(g.BuzzedPlayerID),
		AwaitingWager:         g.AwaitingWager,
		HistoryStackLength:    len(g.history),
		AnsweredCluesCount:    g.ResolvedCount,
		TurnCounter:           g.TurnCounter,
		ScoreHistory:          make(map[uuid.UUID][]ScoreSample, len(g.ScoreHistory)),
	}
	for _, p := range g.Players {
		snap.Players = append(snap.Players, *p)
	}
	for key, card := range g.Board {
		c := *card
		c.FailedPlayerIDs = append([]uuid.UUID{}, card.FailedPlayerIDs...)
		if card.ResolvedBy != nil {
			id := *card.ResolvedBy
			c.ResolvedBy = &id
		}
		snap.BoardState[key] = c
	}
	for id, samples := range g.ScoreHistory {
		snap.ScoreHistory[id] = append([]ScoreSample{}, samples...)
	}
	if g.Final != nil {
		snap.FinalJeopardy = &FinalInfo{Category: g.Final.Category, Question: g.Final.Question}
	}
	return snap
}

// broadcastState pushes the snapshot to every client. Assumes lock is held.
func (g *Game) broadcastState() {
	snap := g.snapshotLocked()
	g.fireEvent(Event{Type: EventStateUpdate, State: &snap})
}

// StateEvent returns a snapshot event for a single connection, used to sync
// a client the moment it connects.
func (g *Game) StateEvent() Event {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	snap := g.snapshotLocked()
	return Event{Type: EventStateUpdate, State: &snap}
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	out := id
	return &out
}
