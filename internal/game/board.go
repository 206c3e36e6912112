// internal/game/board.go
package game

import (
	"github.com/google/uuid"

	"github.com/buzzkit/buzzboard/internal/content"
)

// resetBoard builds one open card per (category, row) cell. Assumes lock is
// held.
func (g *Game) resetBoard() {
	g.Board = make(map[string]*Card, content.NumCategories()*content.NumRows())
	for c := 0; c < content.NumCategories(); c++ {
		for r := 0; r < content.NumRows(); r++ {
			g.Board[CardKey(c, r)] = &Card{
				Resolution:      ResolutionOpen,
				FailedPlayerIDs: []uuid.UUID{},
			}
		}
	}
}

// eligibleDailyDoubleKeys lists cells that may host a Daily Double: row
// index >= 1 (the lowest value row is excluded), unresolved, and untouched
// by any failed attempt. Assumes lock is held.
func (g *Game) eligibleDailyDoubleKeys() []string {
	var keys []string
	for r := 1; r < content.NumRows(); r++ {
		for c := 0; c < content.NumCategories(); c++ {
			k := CardKey(c, r)
			card, ok := g.Board[k]
			if !ok {
				continue
			}
			if card.Resolution == ResolutionOpen && len(card.FailedPlayerIDs) == 0 {
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// placeDailyDoubles clears any existing Daily Double marks and places one at
// random among eligible cells, plus a second when the board is big enough
// (>= 5 categories and >= 3 rows) and an eligible cell remains. A board with
// no eligible cells simply gets none. Assumes lock is held.
func (g *Game) placeDailyDoubles() {
	for _, card := range g.Board {
		card.DailyDouble = false
	}

	eligible := g.eligibleDailyDoubleKeys()
	if len(eligible) == 0 {
		return
	}

	first := g.rng.Intn(len(eligible))
	g.Board[eligible[first]].DailyDouble = true
	eligible = append(eligible[:first], eligible[first+1:]...)

	if content.NumCategories() >= 5 && content.NumRows() >= 3 && len(eligible) > 0 {
		second := g.rng.Intn(len(eligible))
		g.Board[eligible[second]].DailyDouble = true
	}
}

// advancePickingTurn rotates the picker to the next player in roster order
// and bumps the turn counter. With fewer than two players there is no one to
// rotate to, so the picker is cleared instead. Assumes lock is held.
func (g *Game) advancePickingTurn() {
	if len(g.Players) <= 1 {
		g.PickingPlayerID = uuid.Nil
		return
	}
	idx := -1
	for i, p := range g.Players {
		if p.ID == g.PickingPlayerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		idx = 0
	}
	idx = (idx + 1) % len(g.Players)
	g.PickingPlayerID = g.Players[idx].ID
	g.TurnCounter++
}
