package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-session/internal/apperror"
)

const (
	StatusWaiting = "waiting"
	StatusOngoing = "ongoing"
	StatusWon     = "won"
	StatusDraw    = "draw"

	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""
)

// WinCombos - the 8 triples of board indices: rows, columns, diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Game is the single shared session. It is reset in place, never recreated.
type Game struct {
	Board          [9]string
	CurrentPlayer  string
	Status         string
	Players        map[string]string // mark -> connection id
	ReadyToRestart map[string]bool

	marks map[string]string // connection id -> mark
}

func NewGame() *Game {
	game := &Game{}
	game.Reset()

	return game
}

// CheckWin reports whether mark occupies all three cells of at least one triple.
func CheckWin(board [9]string, mark string) bool {
	if mark == EmptyCell {
		return false
	}

	for _, combo := range WinCombos {
		if board[combo[0]] == mark && board[combo[1]] == mark && board[combo[2]] == mark {
			return true
		}
	}

	return false
}

// CheckDraw reports whether the board has no empty cell left.
func CheckDraw(board [9]string) bool {
	for _, cell := range board {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// AssignPlayer - seats the connection in the first free slot, X before O.
func (that *Game) AssignPlayer(connID string) (string, error) {
	if mark, ok := that.marks[connID]; ok {
		return mark, apperror.ErrAlreadySeated
	}

	switch {
	case that.Players[PlayerX] == "":
		that.seat(PlayerX, connID)
		return PlayerX, nil
	case that.Players[PlayerO] == "":
		that.seat(PlayerO, connID)
		that.Status = StatusOngoing
		return PlayerO, nil
	default:
		return "", apperror.ErrGameFull
	}
}

func (that *Game) seat(mark, connID string) {
	that.Players[mark] = connID
	that.marks[connID] = mark
}

// MarkOf - resolves a connection to its mark.
func (that *Game) MarkOf(connID string) (string, bool) {
	mark, ok := that.marks[connID]
	return mark, ok
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusDraw
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsOngoing():
		return nil
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	default:
		return fmt.Errorf("unknown game status %q", that.Status)
	}
}

// MakeTurn - places mark on cell and advances the game. A rejected turn leaves the game untouched.
func (that *Game) MakeTurn(mark string, cell int) error {
	if err := that.ConfirmOngoingState(); err != nil {
		return err
	}

	if that.CurrentPlayer != mark {
		return apperror.ErrNotYourTurn
	}

	if cell < 0 || cell >= len(that.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that.Board[cell] != EmptyCell {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	that.Board[cell] = mark

	switch {
	case CheckWin(that.Board, mark):
		that.Status = StatusWon
	case CheckDraw(that.Board):
		that.Status = StatusDraw
	default:
		that.CurrentPlayer = toggleMark(mark)
	}

	return nil
}

// MarkReady - records a restart request and reports whether both players agreed.
func (that *Game) MarkReady(mark string) bool {
	that.ReadyToRestart[mark] = true

	return that.ReadyToRestart[PlayerX] && that.ReadyToRestart[PlayerO]
}

// Restart - clears the board for a new round, keeping both seats.
func (that *Game) Restart() {
	that.Board = [9]string{}
	that.CurrentPlayer = PlayerX
	that.Status = StatusOngoing
	that.ReadyToRestart = map[string]bool{PlayerX: false, PlayerO: false}
}

// Reset - returns the session to its initial shape, releasing both seats.
func (that *Game) Reset() {
	that.Board = [9]string{}
	that.CurrentPlayer = PlayerX
	that.Status = StatusWaiting
	that.Players = map[string]string{PlayerX: "", PlayerO: ""}
	that.ReadyToRestart = map[string]bool{PlayerX: false, PlayerO: false}
	that.marks = make(map[string]string, 2)
}

// Snapshot - returns a detached copy suitable for broadcasting.
func (that *Game) Snapshot() Snapshot {
	players := make(map[string]*string, 2)
	for _, mark := range []string{PlayerX, PlayerO} {
		if connID := that.Players[mark]; connID != "" {
			players[mark] = &connID
		} else {
			players[mark] = nil
		}
	}

	return Snapshot{
		Board:         that.Board,
		CurrentPlayer: that.CurrentPlayer,
		Status:        that.Status,
		Players:       players,
		ReadyToRestart: map[string]bool{
			PlayerX: that.ReadyToRestart[PlayerX],
			PlayerO: that.ReadyToRestart[PlayerO],
		},
	}
}

func toggleMark(currentMark string) string {
	if currentMark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
