// internal/game/game.go
package game

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Wager limits for Daily Doubles. The effective maximum is the larger of the
// base and the picker's current score.
const (
	MinWager           = 5
	DailyDoubleBaseMax = 1000
)

// Sentinel card keys for history entries that do not reference a board cell.
const (
	ManualUpdateKey  = "manual_update"
	FinalJeopardyKey = "final_jeopardy"
)

// PlayerColors is the fixed palette. Its length is also the player cap.
var PlayerColors = []string{
	"#4caf50", "#2196f3", "#ff9800", "#e91e63",
	"#9c27b0", "#00bcd4", "#f44336", "#ffc107",
}

// Resolution tracks how a board card was settled.
type Resolution string

const (
	ResolutionOpen    Resolution = ""
	ResolutionCorrect Resolution = "correct"
	ResolutionWrong   Resolution = "wrong"
)

// Player is one contestant. ID is stable for the player's lifetime; ConnID is
// the current transport session and changes across reconnects.
type Player struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Score  int       `json:"score"`
	Color  string    `json:"color"`
	ConnID uuid.UUID `json:"connId"`
}

// Card is one board cell.
type Card struct {
	Resolution      Resolution  `json:"state"`
	ResolvedBy      *uuid.UUID  `json:"playerId"`
	FailedPlayerIDs []uuid.UUID `json:"failedPlayerIds"`
	DailyDouble     bool        `json:"isDailyDouble"`
}

// HistoryEntry records a reversible score change for undo.
type HistoryEntry struct {
	PlayerID uuid.UUID
	Delta    int
	Turn     int
	CardKey  string
}

// ScoreSample is one point on a player's score-over-turns chart.
type ScoreSample struct {
	Turn  int `json:"turn"`
	Score int `json:"score"`
}

// FinalResult is one host verdict in a judgeFinalAnswers batch.
type FinalResult struct {
	PlayerID  uuid.UUID
	IsCorrect bool
}

// finalRound holds the chosen Final Jeopardy question. The answer never
// leaves the server until the host reveals it.
type finalRound struct {
	Category string
	Question string
	Answer   string
}

// Game holds the entire state for the trivia board in memory. All exported
// methods lock Mu themselves; callbacks are invoked with the lock held and
// must not call back into the game.
type Game struct {
	Mu sync.Mutex

	Started         bool
	Players         []*Player
	PickingPlayerID uuid.UUID
	BuzzedPlayerID  uuid.UUID

	Board         map[string]*Card
	ActiveCardKey string
	QuestionText  string // display text, answer stripped
	activeAnswer  string // host-side only
	CurrentWager  int

	ResolvedCount int
	TurnCounter   int

	history      []HistoryEntry
	ScoreHistory map[uuid.UUID][]ScoreSample

	// Daily Double wager sub-state: set between selectCard and submitWager.
	AwaitingWager bool
	wagerPlayerID uuid.UUID

	// Buzzer debounce, scoped to the card it was taken for. Cleared whenever
	// a card is activated or deactivated so a stale window cannot leak into
	// the next question.
	buzzerLockKey   string
	buzzerLockUntil time.Time

	Final       *finalRound
	FinalWagers map[uuid.UUID]int

	// Overridable timings; tests shrink these.
	BuzzerDebounce time.Duration
	ResultsDelay   time.Duration

	// BroadcastFn sends an event to every connected client. If nil, no
	// broadcast is done.
	BroadcastFn func(ev Event)

	// SendFn sends an event to a single connection.
	SendFn func(connID uuid.UUID, ev Event)

	rng          *rand.Rand
	resultsTimer *time.Timer
}

// NewGame builds an empty aggregate with an unstarted board.
func NewGame() *Game {
	g := &Game{
		BuzzerDebounce: 500 * time.Millisecond,
		ResultsDelay:   3 * time.Second,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	g.resetLocked(true)
	return g
}

// Reset replaces the whole aggregate with a fresh empty one, players
// included. Used by the newGame event.
func (g *Game) Reset() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.resetLocked(true)
}

// resetLocked clears game state in place. clearPlayers distinguishes a full
// reset (newGame) from a score reset that keeps the roster.
func (g *Game) resetLocked(clearPlayers bool) {
	g.Started = false
	if clearPlayers {
		g.Players = nil
	}
	g.PickingPlayerID = uuid.Nil
	g.BuzzedPlayerID = uuid.Nil
	g.Board = make(map[string]*Card)
	g.ActiveCardKey = ""
	g.QuestionText = ""
	g.activeAnswer = ""
	g.CurrentWager = 0
	g.ResolvedCount = 0
	g.TurnCounter = 0
	g.history = nil
	g.ScoreHistory = make(map[uuid.UUID][]ScoreSample)
	g.AwaitingWager = false
	g.wagerPlayerID = uuid.Nil
	g.clearBuzzerLock()
	g.Final = nil
	g.FinalWagers = make(map[uuid.UUID]int)
	if g.resultsTimer != nil {
		g.resultsTimer.Stop()
		g.resultsTimer = nil
	}
}

// CardKey builds the "cat-row" key for a board cell.
func CardKey(catIndex, rowIndex int) string {
	return fmt.Sprintf("%d-%d", catIndex, rowIndex)
}

// ParseCardKey splits a "cat-row" key back into indices.
func ParseCardKey(key string) (catIndex, rowIndex int, ok bool) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	c, err1 := strconv.Atoi(parts[0])
	r, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return c, r, true
}

func (g *Game) playerByID(id uuid.UUID) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *Game) playerByConn(connID uuid.UUID) *Player {
	for _, p := range g.Players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

func (g *Game) playerByName(name string) *Player {
	for _, p := range g.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// fireEvent broadcasts ev to all clients, if a broadcaster is attached.
func (g *Game) fireEvent(ev Event) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

// fireEventToConn sends ev to a single connection.
func (g *Game) fireEventToConn(connID uuid.UUID, ev Event) {
	if g.SendFn != nil && connID != uuid.Nil {
		g.SendFn(connID, ev)
	}
}

// alertConn sends a requester-only advisory message.
func (g *Game) alertConn(connID uuid.UUID, msg string) {
	g.fireEventToConn(connID, Event{Type: EventAlert, Message: msg})
}

// clearActiveCard drops all per-question state: active card, visible text,
// wager, buzzer holder, pending wager prompt, and the buzzer debounce.
func (g *Game) clearActiveCard() {
	g.ActiveCardKey = ""
	g.QuestionText = ""
	g.activeAnswer = ""
	g.CurrentWager = 0
	g.BuzzedPlayerID = uuid.Nil
	g.AwaitingWager = false
	g.wagerPlayerID = uuid.Nil
	g.clearBuzzerLock()
}

func (g *Game) clearBuzzerLock() {
	g.buzzerLockKey = ""
	g.buzzerLockUntil = time.Time{}
}

// buzzerLocked reports whether the debounce window is still open for the
// currently active card.
func (g *Game) buzzerLocked() bool {
	return g.buzzerLockKey != "" && g.buzzerLockKey == g.ActiveCardKey &&
		time.Now().Before(g.buzzerLockUntil)
}

func (g *Game) allCardsResolved() bool {
	return len(g.Board) > 0 && g.ResolvedCount >= len(g.Board)
}

// appendScoreSample records the player's score at the current turn.
func (g *Game) appendScoreSample(playerID uuid.UUID, score int) {
	g.ScoreHistory[playerID] = append(g.ScoreHistory[playerID], ScoreSample{Turn: g.TurnCounter, Score: score})
}

// seedScoreHistory resets a player's chart to the single (0,0) sample.
func (g *Game) seedScoreHistory(playerID uuid.UUID) {
	g.ScoreHistory[playerID] = []ScoreSample{{Turn: 0, Score: 0}}
}

// standings projects a roster for finalQuestionRevealed and showFinalResults
// payloads. Sorting is left to the consumer.
func standings(players []*Player) []EventStanding {
	out := make([]EventStanding, 0, len(players))
	for _, p := range players {
		out = append(out, EventStanding{ID: p.ID, Name: p.Name, Score: p.Score})
	}
	return out
}

// eligibleFinalists returns players with a strictly positive score.
func (g *Game) eligibleFinalists() []*Player {
	var out []*Player
	for _, p := range g.Players {
		if p.Score > 0 {
			out = append(out, p)
		}
	}
	return out
}

func cardHasFailed(c *Card, playerID uuid.UUID) bool {
	for _, id := range c.FailedPlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}
