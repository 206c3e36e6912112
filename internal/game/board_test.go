// internal/game/board_test.go
package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buzzkit/buzzboard/internal/content"
)

func TestResetBoardBuildsEveryCell(t *testing.T) {
	g := NewGame()
	g.Mu.Lock()
	g.resetBoard()
	g.Mu.Unlock()

	assert.Len(t, g.Board, content.NumCategories()*content.NumRows())
	for c := 0; c < content.NumCategories(); c++ {
		for r := 0; r < content.NumRows(); r++ {
			card, ok := g.Board[CardKey(c, r)]
			require.True(t, ok)
			assert.Equal(t, ResolutionOpen, card.Resolution)
			assert.NotNil(t, card.FailedPlayerIDs)
			assert.Empty(t, card.FailedPlayerIDs)
			assert.Nil(t, card.ResolvedBy)
		}
	}
}

func TestPlaceDailyDoublesAvoidsLowestRow(t *testing.T) {
	g := NewGame()
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.resetBoard()

	// Placement is random, so hammer it.
	for i := 0; i < 200; i++ {
		g.placeDailyDoubles()
		count := 0
		for key, card := range g.Board {
			if !card.DailyDouble {
				continue
			}
			count++
			_, row, ok := ParseCardKey(key)
			require.True(t, ok)
			assert.GreaterOrEqual(t, row, 1)
		}
		assert.Contains(t, []int{1, 2}, count)
	}
}

func TestPlaceDailyDoublesClearsOldMarks(t *testing.T) {
	g := NewGame()
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.resetBoard()
	g.Board[CardKey(0, 0)].DailyDouble = true

	g.placeDailyDoubles()

	assert.False(t, g.Board[CardKey(0, 0)].DailyDouble)
}

func TestEligibleDailyDoubleKeysSkipsTouchedCards(t *testing.T) {
	g := NewGame()
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.resetBoard()

	resolved := CardKey(2, 3)
	failed := CardKey(4, 2)
	g.Board[resolved].Resolution = ResolutionCorrect
	g.Board[failed].FailedPlayerIDs = append(g.Board[failed].FailedPlayerIDs, uuid.New())

	keys := g.eligibleDailyDoubleKeys()

	assert.NotContains(t, keys, resolved)
	assert.NotContains(t, keys, failed)
	for _, key := range keys {
		_, row, ok := ParseCardKey(key)
		require.True(t, ok)
		assert.GreaterOrEqual(t, row, 1)
	}
}

func TestAdvancePickingTurnRotatesRoster(t *testing.T) {
	g, players, _ := setupTestGame(t, 3)
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.PickingPlayerID = players[0].ID

	g.advancePickingTurn()
	assert.Equal(t, players[1].ID, g.PickingPlayerID)
	g.advancePickingTurn()
	assert.Equal(t, players[2].ID, g.PickingPlayerID)
	g.advancePickingTurn()
	assert.Equal(t, players[0].ID, g.PickingPlayerID, "rotation wraps to the first player")
}

func TestAdvancePickingTurnWithUnknownPickerRestarts(t *testing.T) {
	g, players, _ := setupTestGame(t, 3)
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.PickingPlayerID = uuid.New()

	g.advancePickingTurn()

	assert.Equal(t, players[1].ID, g.PickingPlayerID)
}

func TestAdvancePickingTurnClearsWithSoloPlayer(t *testing.T) {
	g, players, _ := setupTestGame(t, 1)
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.PickingPlayerID = players[0].ID

	g.advancePickingTurn()

	assert.Equal(t, uuid.Nil, g.PickingPlayerID)
}

func TestCardKeyRoundTrip(t *testing.T) {
	key := CardKey(4, 2)
	assert.Equal(t, "4-2", key)

	c, r, ok := ParseCardKey(key)
	require.True(t, ok)
	assert.Equal(t, 4, c)
	assert.Equal(t, 2, r)

	_, _, ok = ParseCardKey("nonsense")
	assert.False(t, ok)
	_, _, ok = ParseCardKey("3")
	assert.False(t, ok)
}
