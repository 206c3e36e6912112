// internal/game/handlers.go
//
// One method per inbound client event. Every method locks the game, applies
// the mutation synchronously, fires whatever signal events the action calls
// for, and ends with a full-state broadcast unless the event is advisory
// only. Rejections are alert events to the requesting connection, never
// errors that cross the transport boundary.
package game

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/buzzkit/buzzboard/internal/content"
)

// Connect binds a transport session to an existing player by display name.
// Unknown names are fine: the connection just watches until addPlayer is
// called for it. Reconnects overwrite the stale session reference.
func (g *Game) Connect(connID uuid.UUID, name string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if p := g.playerByName(name); p != nil {
		p.ConnID = connID
	}
	g.broadcastState()
}

// AddPlayer registers a new contestant, capped by the color palette size.
func (g *Game) AddPlayer(connID uuid.UUID, name string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if len(g.Players) >= len(PlayerColors) {
		g.alertConn(connID, "Maximum number of players reached.")
		return
	}
	p := &Player{
		ID:    uuid.New(),
		Name:  name,
		Color: PlayerColors[len(g.Players)%len(PlayerColors)],
	}
	g.Players = append(g.Players, p)
	g.seedScoreHistory(p.ID)
	g.broadcastState()
}

// StartGame resets scores, rebuilds the board, places Daily Doubles, and
// hands the first pick to the first player.
func (g *Game) StartGame(connID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if len(g.Players) == 0 {
		g.alertConn(connID, "Please add at least one player to start.")
		return
	}
	g.Started = true
	g.PickingPlayerID = g.Players[0].ID
	g.clearActiveCard()
	g.ResolvedCount = 0
	g.TurnCounter = 0
	g.history = nil
	g.ScoreHistory = make(map[uuid.UUID][]ScoreSample)
	for _, p := range g.Players {
		p.Score = 0
		g.seedScoreHistory(p.ID)
	}
	g.resetBoard()
	g.placeDailyDoubles()
	g.fireEvent(Event{Type: EventPlayMusic})
	g.broadcastState()
}

// SetActivePlayer is the host override for whose turn it is to pick. Only
// legal while the game is running and no card is flipped.
func (g *Game) SetActivePlayer(connID uuid.UUID, playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p := g.playerByID(playerID)
	if p == nil || !g.Started || g.ActiveCardKey != "" {
		g.alertConn(connID, "Cannot change active player right now.")
		return
	}
	if g.PickingPlayerID != playerID {
		g.TurnCounter++
	}
	g.PickingPlayerID = playerID
	g.broadcastState()
}

// SetPlayerScore applies a host-entered absolute score as a reversible delta.
func (g *Game) SetPlayerScore(connID uuid.UUID, playerID uuid.UUID, target int) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p := g.playerByID(playerID)
	if p == nil {
		return
	}
	delta := target - p.Score
	p.Score += delta
	g.history = append(g.history, HistoryEntry{
		PlayerID: playerID,
		Delta:    delta,
		Turn:     g.TurnCounter,
		CardKey:  ManualUpdateKey,
	})
	g.appendScoreSample(playerID, p.Score)
	g.TurnCounter++
	g.broadcastState()
}

// UndoLastAction pops and reverses the most recent scoring action. Undoing
// an action tied to a real card reopens that card.
func (g *Game) UndoLastAction(connID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if len(g.history) == 0 {
		g.alertConn(connID, "No actions to undo.")
		g.broadcastState() // clients still refresh their undo indicator
		return
	}
	last := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]

	if p := g.playerByID(last.PlayerID); p != nil {
		p.Score -= last.Delta
		if samples := g.ScoreHistory[last.PlayerID]; len(samples) > 0 {
			g.ScoreHistory[last.PlayerID] = samples[:len(samples)-1]
		}
		if len(g.ScoreHistory[last.PlayerID]) == 0 {
			g.seedScoreHistory(last.PlayerID)
		}
	}

	if last.CardKey != "" && last.CardKey != ManualUpdateKey && last.CardKey != FinalJeopardyKey {
		if card, ok := g.Board[last.CardKey]; ok {
			wasResolved := card.Resolution != ResolutionOpen
			card.Resolution = ResolutionOpen
			card.ResolvedBy = nil
			for i, id := range card.FailedPlayerIDs {
				if id == last.PlayerID {
					card.FailedPlayerIDs = append(card.FailedPlayerIDs[:i], card.FailedPlayerIDs[i+1:]...)
					break
				}
			}
			if wasResolved {
				g.ResolvedCount--
			}
			g.clearActiveCard()
			g.fireEvent(Event{Type: EventHideQuestionDisplay})
		}
	}
	g.broadcastState()
}

// ResetScores zeroes every score and the undo/score history, keeping the
// roster and the board.
func (g *Game) ResetScores(connID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	for _, p := range g.Players {
		p.Score = 0
		g.seedScoreHistory(p.ID)
	}
	g.history = nil
	g.TurnCounter = 0
	g.broadcastState()
	g.alertConn(connID, "All player scores have been reset to $0.")
}

// NewGame throws the whole aggregate away, players included.
func (g *Game) NewGame(connID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	g.resetLocked(true)
	g.fireEvent(Event{Type: EventStopMusic})
	g.broadcastState()
	g.alertConn(connID, "New game started. Please add players.")
}

// SelectCard flips a card for the current picker. Daily Doubles detour
// through a private wager prompt before the question is shown; everything
// else opens the buzzer immediately.
func (g *Game) SelectCard(connID uuid.UUID, key string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p := g.playerByConn(connID)
	if p == nil || p.ID != g.PickingPlayerID {
		g.alertConn(connID, "It's not your turn to select a question!")
		return
	}
	card, ok := g.Board[key]
	if !ok || card.Resolution != ResolutionOpen {
		g.alertConn(connID, "This card has already been answered.")
		return
	}

	catIndex, rowIndex, ok := ParseCardKey(key)
	if !ok {
		g.alertConn(connID, "Unknown card.")
		return
	}
	raw, ok := content.Question(catIndex, rowIndex)
	if !ok {
		g.alertConn(connID, "Unknown card.")
		return
	}
	value, _ := content.Value(catIndex, rowIndex)

	g.ActiveCardKey = key
	g.QuestionText, g.activeAnswer = content.SplitAnswer(raw)
	g.CurrentWager = value
	g.clearBuzzerLock() // new card, stale debounce windows die here

	if card.DailyDouble {
		g.AwaitingWager = true
		g.wagerPlayerID = p.ID
		maxW := dailyDoubleMax(p.Score)
		g.fireEventToConn(connID, Event{
			Type:    EventPromptWager,
			CardKey: key,
			Message: fmt.Sprintf("DAILY DOUBLE!\n%s, enter your wager (min $%d, max $%d):", p.Name, MinWager, maxW),
		})
		g.broadcastState()
		return
	}

	g.BuzzedPlayerID = uuid.Nil
	g.fireEvent(Event{Type: EventQuestionDisplayed, Question: g.QuestionText, CardKey: key})
	g.fireEvent(Event{Type: EventStopMusic})
	g.broadcastState()
}

// SubmitWager completes a Daily Double pick. Out-of-range or non-numeric
// input clamps to the minimum with a warning to the picker only. The picker
// implicitly holds the buzzer: no one else may answer a Daily Double.
func (g *Game) SubmitWager(connID uuid.UUID, wager int, numeric bool) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p := g.playerByConn(connID)
	if !g.AwaitingWager || p == nil || p.ID != g.wagerPlayerID {
		g.alertConn(connID, "No wager is pending for you.")
		return
	}
	maxW := dailyDoubleMax(p.Score)
	if !numeric || wager < MinWager || wager > maxW {
		g.alertConn(connID, fmt.Sprintf("Invalid wager. Wager defaulted to $%d.", MinWager))
		wager = MinWager
	}
	g.CurrentWager = wager
	g.AwaitingWager = false
	g.wagerPlayerID = uuid.Nil

	g.fireEvent(Event{Type: EventDailyDoubleSound})
	g.fireEvent(Event{Type: EventQuestionDisplayed, Question: g.QuestionText, CardKey: g.ActiveCardKey})
	g.fireEvent(Event{Type: EventStopMusic})

	g.BuzzedPlayerID = p.ID
	g.fireEvent(Event{Type: EventShowJudgeControls, CardKey: g.ActiveCardKey, Player: &EventUser{ID: p.ID}})
	g.broadcastState()
}

// Buzz arbitrates the race for the active card. Ignored while the debounce
// window is open, while no card is up, while a wager is pending, or once
// someone already holds the buzzer. Players who failed the card are out.
func (g *Game) Buzz(connID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.buzzerLocked() || g.ActiveCardKey == "" || g.AwaitingWager || g.BuzzedPlayerID != uuid.Nil {
		return
	}
	p := g.playerByConn(connID)
	if p == nil {
		return
	}
	card := g.Board[g.ActiveCardKey]
	if card != nil && cardHasFailed(card, p.ID) {
		g.alertConn(connID, "You have already failed this question!")
		return
	}

	g.buzzerLockKey = g.ActiveCardKey
	g.buzzerLockUntil = time.Now().Add(g.BuzzerDebounce)
	g.BuzzedPlayerID = p.ID

	g.fireEvent(Event{Type: EventBuzzerSound})
	g.fireEvent(Event{Type: EventBuzzerActive, Player: &EventUser{ID: p.ID}})
	g.fireEvent(Event{Type: EventShowJudgeControls, CardKey: g.ActiveCardKey, Player: &EventUser{ID: p.ID}})
	g.broadcastState()
}

// JudgeAnswer applies the host's verdict on the current buzzer holder.
func (g *Game) JudgeAnswer(connID uuid.UUID, cardKey string, isCorrect bool, playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if cardKey != g.ActiveCardKey || playerID != g.BuzzedPlayerID {
		log.Printf("judge attempt for non-active card %q or wrong player %s, ignoring", cardKey, playerID)
		return
	}
	p := g.playerByID(playerID)
	if p == nil {
		return
	}
	card := g.Board[cardKey]
	if card == nil {
		return
	}

	delta := g.CurrentWager
	if !isCorrect {
		delta = -delta
	}
	p.Score += delta
	g.history = append(g.history, HistoryEntry{
		PlayerID: playerID,
		Delta:    delta,
		Turn:     g.TurnCounter,
		CardKey:  cardKey,
	})
	g.appendScoreSample(playerID, p.Score)
	g.TurnCounter++

	if isCorrect {
		g.fireEvent(Event{Type: EventCorrectSound})
	} else {
		g.fireEvent(Event{Type: EventWrongSound})
	}
	g.fireEvent(Event{Type: EventHideJudgeControls})
	g.fireEvent(Event{Type: EventHideQuestionDisplay})

	if isCorrect {
		card.Resolution = ResolutionCorrect
		resolver := playerID
		card.ResolvedBy = &resolver
		g.ResolvedCount++
		g.clearActiveCard()
		if g.allCardsResolved() {
			g.fireEvent(Event{Type: EventFinalSetup})
		} else {
			g.PickingPlayerID = playerID // winner picks next
		}
		g.broadcastState()
		return
	}

	if !cardHasFailed(card, playerID) {
		card.FailedPlayerIDs = append(card.FailedPlayerIDs, playerID)
	}

	remaining := 0
	for _, pl := range g.Players {
		if !cardHasFailed(card, pl.ID) {
			remaining++
		}
	}

	if card.DailyDouble || remaining == 0 {
		// No steal on a Daily Double, and a card everyone missed is dead.
		card.Resolution = ResolutionWrong
		g.ResolvedCount++
		g.clearActiveCard()
		if g.allCardsResolved() {
			g.fireEvent(Event{Type: EventFinalSetup})
		} else {
			g.advancePickingTurn()
		}
	} else {
		// Reopen the buzzer for the remaining players.
		g.BuzzedPlayerID = uuid.Nil
	}
	g.broadcastState()
}

// NoOtherTakers closes out the active card when nobody else wants to steal.
func (g *Game) NoOtherTakers(connID uuid.UUID, cardKey string) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if cardKey != g.ActiveCardKey {
		return
	}
	card := g.Board[cardKey]
	if card == nil {
		return
	}
	card.Resolution = ResolutionWrong
	g.ResolvedCount++
	g.clearActiveCard()
	g.fireEvent(Event{Type: EventHideJudgeControls})
	g.fireEvent(Event{Type: EventHideQuestionDisplay})
	if g.allCardsResolved() {
		g.fireEvent(Event{Type: EventFinalSetup})
	} else {
		g.advancePickingTurn()
	}
	g.broadcastState()
}

// RevealFinalQuestion starts Final Jeopardy for every player with a positive
// score. With no eligible players the round is skipped and results go out
// immediately.
func (g *Game) RevealFinalQuestion(connID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	eligible := g.eligibleFinalists()
	if len(eligible) == 0 {
		g.alertConn(connID, "No players have a positive score eligible for Final Jeopardy!")
		g.fireEvent(Event{Type: EventShowFinalResults, Players: standings(g.Players)})
		return
	}

	pool := content.FinalQuestions()
	pick := pool[g.rng.Intn(len(pool))]
	g.Final = &finalRound{Category: pick.Category, Question: pick.Question, Answer: pick.Answer}
	g.FinalWagers = make(map[uuid.UUID]int)

	g.fireEvent(Event{Type: EventStopMusic})
	g.fireEvent(Event{Type: EventFinalSound})
	g.fireEvent(Event{
		Type:     EventFinalQuestionRevealed,
		Category: pick.Category,
		Question: pick.Question,
		Players:  standings(eligible),
	})
	g.broadcastState()
}

// SubmitFinalWagers merges wagers into the collected map, last write per
// player wins. Once every eligible player is covered the wagers lock.
func (g *Game) SubmitFinalWagers(connID uuid.UUID, wagers map[uuid.UUID]int) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	for id, w := range wagers {
		g.FinalWagers[id] = w
	}

	all := true
	for _, p := range g.eligibleFinalists() {
		if _, ok := g.FinalWagers[p.ID]; !ok {
			all = false
			break
		}
	}
	if all {
		g.fireEvent(Event{Type: EventWagersLockedIn})
	}
	g.broadcastState()
}

// JudgeFinalAnswers scores the whole final round in one batch, reveals the
// stored answer, and after a short viewing delay pushes the final standings
// and clears the round.
func (g *Game) JudgeFinalAnswers(connID uuid.UUID, results []FinalResult) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Final == nil {
		return
	}
	for _, res := range results {
		p := g.playerByID(res.PlayerID)
		wager, ok := g.FinalWagers[res.PlayerID]
		if p == nil || !ok {
			continue
		}
		delta := wager
		if !res.IsCorrect {
			delta = -delta
		}
		p.Score += delta
		g.history = append(g.history, HistoryEntry{
			PlayerID: res.PlayerID,
			Delta:    delta,
			Turn:     g.TurnCounter,
			CardKey:  FinalJeopardyKey,
		})
		g.appendScoreSample(res.PlayerID, p.Score)
	}
	g.TurnCounter++ // one bump for the whole batch

	g.fireEvent(Event{Type: EventFinalAnswerRevealed, Answer: g.Final.Answer})
	g.broadcastState()

	g.resultsTimer = time.AfterFunc(g.ResultsDelay, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		// The round may have been torn down by a reset while this callback
		// waited on the lock.
		if g.Final == nil {
			return
		}
		g.fireEvent(Event{Type: EventShowFinalResults, Players: standings(g.Players)})
		g.Final = nil
		g.FinalWagers = make(map[uuid.UUID]int)
		g.broadcastState()
	})
}

// dailyDoubleMax is the wager ceiling: the base, or the player's score when
// that is higher.
func dailyDoubleMax(score int) int {
	if score > DailyDoubleBaseMax {
		return score
	}
	return DailyDoubleBaseMax
}
