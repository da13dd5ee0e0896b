package entity

// Inbound actions.
const (
	ActionConnect    = "connect"
	ActionMakeMove   = "make-move"
	ActionPlayAgain  = "play-again"
	ActionDisconnect = "disconnect"
)

// Outbound actions.
const (
	ActionPlayerAssignment   = "player-assignment"
	ActionGameFull           = "game-full"
	ActionGameStart          = "game-start"
	ActionGameState          = "game-state"
	ActionPlayerReadyRestart = "player-ready-restart"
	ActionGameOver           = "game-over"
	ActionPlayerDisconnected = "player-disconnected"
)

// Event is an outbound notification addressed to one connection or to all of them.
type Event struct {
	Action  string `json:"action"`
	Payload any    `json:"payload,omitempty"`
}

// Snapshot is the full session state carried by game-state.
type Snapshot struct {
	Board          [9]string          `json:"board"`
	CurrentPlayer  string             `json:"currentPlayer"`
	Status         string             `json:"status"`
	Players        map[string]*string `json:"players"`
	ReadyToRestart map[string]bool    `json:"readyToRestart"`
}

// GameOver carries the winner mark, or null on a draw.
type GameOver struct {
	Winner *string `json:"winner"`
}

func NewGameOver(winner string) GameOver {
	if winner == "" {
		return GameOver{}
	}

	return GameOver{Winner: &winner}
}
