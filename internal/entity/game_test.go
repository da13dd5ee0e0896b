package entity

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-session/internal/apperror"
)

func ongoingGame(t *testing.T) *Game {
	t.Helper()

	game := NewGame()
	_, err := game.AssignPlayer("conn-x")
	require.NoError(t, err)
	_, err = game.AssignPlayer("conn-o")
	require.NoError(t, err)

	return game
}

func TestNewGame(t *testing.T) {
	// When: a new game is created
	game := NewGame()

	// Then: it waits for players with an empty board
	assert.Equal(t, [9]string{}, game.Board)
	assert.Equal(t, PlayerX, game.CurrentPlayer)
	assert.Equal(t, StatusWaiting, game.Status)
	assert.Equal(t, map[string]string{PlayerX: "", PlayerO: ""}, game.Players)
	assert.Equal(t, map[string]bool{PlayerX: false, PlayerO: false}, game.ReadyToRestart)
}

func TestCheckWin(t *testing.T) {
	for _, mark := range []string{PlayerX, PlayerO} {
		for _, combo := range WinCombos {
			t.Run(fmt.Sprintf("%s wins on %v", mark, combo), func(t *testing.T) {
				// Given: a board filled with the opponent except for one triple
				var board [9]string
				for i := range board {
					board[i] = toggleMark(mark)
				}
				for _, idx := range combo {
					board[idx] = mark
				}

				// Then: the triple wins for mark regardless of the other cells
				assert.True(t, CheckWin(board, mark))
			})
		}
	}

	t.Run("No win without a full triple", func(t *testing.T) {
		board := [9]string{
			PlayerX, PlayerX, EmptyCell,
			PlayerO, PlayerO, EmptyCell,
			EmptyCell, EmptyCell, EmptyCell,
		}

		assert.False(t, CheckWin(board, PlayerX))
		assert.False(t, CheckWin(board, PlayerO))
	})

	t.Run("Empty mark never wins", func(t *testing.T) {
		assert.False(t, CheckWin([9]string{}, EmptyCell))
	})
}

func TestCheckDraw(t *testing.T) {
	t.Run("Full board without a triple is a draw", func(t *testing.T) {
		board := [9]string{
			PlayerX, PlayerO, PlayerX,
			PlayerX, PlayerO, PlayerO,
			PlayerO, PlayerX, PlayerX,
		}

		assert.True(t, CheckDraw(board))
		assert.False(t, CheckWin(board, PlayerX))
		assert.False(t, CheckWin(board, PlayerO))
	})

	t.Run("Any empty cell is never a draw", func(t *testing.T) {
		for i := range 9 {
			board := [9]string{
				PlayerX, PlayerO, PlayerX,
				PlayerX, PlayerO, PlayerO,
				PlayerO, PlayerX, PlayerX,
			}
			board[i] = EmptyCell

			assert.False(t, CheckDraw(board), "cell %d empty", i)
		}
	})
}

func TestGame_AssignPlayer(t *testing.T) {
	t.Run("First connection takes X and the game keeps waiting", func(t *testing.T) {
		game := NewGame()

		mark, err := game.AssignPlayer("a")

		require.NoError(t, err)
		assert.Equal(t, PlayerX, mark)
		assert.Equal(t, StatusWaiting, game.Status)
	})

	t.Run("Second connection takes O and starts the game", func(t *testing.T) {
		game := NewGame()
		_, err := game.AssignPlayer("a")
		require.NoError(t, err)

		mark, err := game.AssignPlayer("b")

		require.NoError(t, err)
		assert.Equal(t, PlayerO, mark)
		assert.Equal(t, StatusOngoing, game.Status)
	})

	t.Run("Third connection is rejected without mutation", func(t *testing.T) {
		game := ongoingGame(t)
		before := game.Snapshot()

		mark, err := game.AssignPlayer("c")

		require.ErrorIs(t, err, apperror.ErrGameFull)
		assert.Empty(t, mark)
		assert.Equal(t, before, game.Snapshot())
	})

	t.Run("Seated connection is not assigned twice", func(t *testing.T) {
		game := NewGame()
		_, err := game.AssignPlayer("a")
		require.NoError(t, err)

		mark, err := game.AssignPlayer("a")

		require.ErrorIs(t, err, apperror.ErrAlreadySeated)
		assert.Equal(t, PlayerX, mark)
		assert.Empty(t, game.Players[PlayerO])
	})
}

func TestGame_MakeTurn(t *testing.T) {
	t.Run("Successful turn flips the current player", func(t *testing.T) {
		game := ongoingGame(t)

		err := game.MakeTurn(PlayerX, 4)

		require.NoError(t, err)
		assert.Equal(t, PlayerX, game.Board[4])
		assert.Equal(t, PlayerO, game.CurrentPlayer)
		assert.Equal(t, StatusOngoing, game.Status)
	})

	rejections := []struct {
		name  string
		setup func(game *Game)
		mark  string
		cell  int
		err   error
	}{
		{
			name:  "game not ongoing",
			setup: func(game *Game) { game.Status = StatusWaiting },
			mark:  PlayerX,
			cell:  0,
			err:   apperror.ErrGameIsNotStarted,
		},
		{
			name:  "game finished",
			setup: func(game *Game) { game.Status = StatusWon },
			mark:  PlayerX,
			cell:  0,
			err:   apperror.ErrGameFinished,
		},
		{
			name: "wrong turn",
			mark: PlayerO,
			cell: 0,
			err:  apperror.ErrNotYourTurn,
		},
		{
			name: "negative cell",
			mark: PlayerX,
			cell: -1,
			err:  apperror.ErrInvalidCell,
		},
		{
			name: "cell past the board",
			mark: PlayerX,
			cell: 9,
			err:  apperror.ErrInvalidCell,
		},
		{
			name:  "occupied cell",
			setup: func(game *Game) { game.Board[0] = PlayerO },
			mark:  PlayerX,
			cell:  0,
			err:   apperror.ErrCellOccupied,
		},
	}

	for _, tc := range rejections {
		t.Run("Rejects "+tc.name, func(t *testing.T) {
			// Given: an ongoing game where only one clause is violated
			game := ongoingGame(t)
			if tc.setup != nil {
				tc.setup(game)
			}
			before := game.Snapshot()

			// When: the turn is attempted
			err := game.MakeTurn(tc.mark, tc.cell)

			// Then: it is rejected and nothing changes
			require.ErrorIs(t, err, tc.err)
			assert.Equal(t, before, game.Snapshot())
		})
	}

	t.Run("Winning move finishes the game without flipping the turn", func(t *testing.T) {
		game := ongoingGame(t)
		for _, move := range []struct {
			mark string
			cell int
		}{{PlayerX, 4}, {PlayerO, 0}, {PlayerX, 1}, {PlayerO, 3}, {PlayerX, 7}} {
			require.NoError(t, game.MakeTurn(move.mark, move.cell))
		}

		assert.Equal(t, StatusWon, game.Status)
		assert.Equal(t, PlayerX, game.CurrentPlayer)
	})

	t.Run("Filling move without a triple is a draw", func(t *testing.T) {
		game := ongoingGame(t)
		for _, cell := range []int{0, 1, 2, 4, 3, 5, 7, 6, 8} {
			require.NoError(t, game.MakeTurn(game.CurrentPlayer, cell))
		}

		assert.Equal(t, StatusDraw, game.Status)
	})
}

func TestGame_Restart(t *testing.T) {
	// Given: a finished game where both players asked for a rematch
	game := ongoingGame(t)
	game.Board = [9]string{PlayerX, PlayerX, PlayerX, PlayerO, PlayerO}
	game.Status = StatusWon
	game.CurrentPlayer = PlayerX

	assert.False(t, game.MarkReady(PlayerO))
	assert.True(t, game.MarkReady(PlayerX))

	// When: the board is restarted
	game.Restart()

	// Then: the board is clear and seats are kept
	assert.Equal(t, [9]string{}, game.Board)
	assert.Equal(t, StatusOngoing, game.Status)
	assert.Equal(t, PlayerX, game.CurrentPlayer)
	assert.Equal(t, map[string]bool{PlayerX: false, PlayerO: false}, game.ReadyToRestart)
	assert.Equal(t, map[string]string{PlayerX: "conn-x", PlayerO: "conn-o"}, game.Players)

	mark, ok := game.MarkOf("conn-o")
	assert.True(t, ok)
	assert.Equal(t, PlayerO, mark)
}

func TestGame_Reset(t *testing.T) {
	// Given: an ongoing game with moves on the board
	game := ongoingGame(t)
	require.NoError(t, game.MakeTurn(PlayerX, 0))
	game.ReadyToRestart[PlayerO] = true

	// When: the session is reset
	game.Reset()

	// Then: seats are released and the reverse lookup is cleared too
	assert.Equal(t, NewGame().Snapshot(), game.Snapshot())

	_, ok := game.MarkOf("conn-x")
	assert.False(t, ok)
}

func TestGame_Snapshot(t *testing.T) {
	game := NewGame()
	_, err := game.AssignPlayer("a")
	require.NoError(t, err)

	snapshot := game.Snapshot()

	require.NotNil(t, snapshot.Players[PlayerX])
	assert.Equal(t, "a", *snapshot.Players[PlayerX])
	assert.Nil(t, snapshot.Players[PlayerO])

	// the snapshot is detached from later mutations
	game.Board[0] = PlayerX
	game.ReadyToRestart[PlayerX] = true
	assert.Equal(t, EmptyCell, snapshot.Board[0])
	assert.False(t, snapshot.ReadyToRestart[PlayerX])
}
