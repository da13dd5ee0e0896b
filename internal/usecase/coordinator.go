package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-session/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-session/internal/entity"
)

type notifier interface {
	Send(connID string, event entity.Event)
	Broadcast(event entity.Event)
}

// SessionCoordinator owns the single game session. Every handler runs
// validate, mutate and notify under one lock; notifier calls must not block.
type SessionCoordinator struct {
	logger   *slog.Logger
	notifier notifier

	mu   sync.Mutex
	game *entity.Game
}

func NewSessionCoordinator(logger *slog.Logger, notifier notifier) *SessionCoordinator {
	return &SessionCoordinator{
		logger:   logger.With("component", "coordinator"),
		notifier: notifier,
		game:     entity.NewGame(),
	}
}

// OnConnect - seats the connection or tells it the game is full.
func (that *SessionCoordinator) OnConnect(connID string) (string, error) {
	log := that.logger.With("method", "OnConnect", "connID", connID)

	that.mu.Lock()
	defer that.mu.Unlock()

	mark, err := that.game.AssignPlayer(connID)
	if errors.Is(err, apperror.ErrGameFull) {
		that.notifier.Send(connID, entity.Event{Action: entity.ActionGameFull})
		log.Info("game is full")

		return "", err
	}

	if err != nil {
		return mark, fmt.Errorf("failed to assign player: %w", err)
	}

	that.notifier.Send(connID, entity.Event{Action: entity.ActionPlayerAssignment, Payload: mark})

	if mark == entity.PlayerO {
		that.notifier.Broadcast(entity.Event{Action: entity.ActionGameStart})
	}

	that.broadcastState()

	log.Info("player assigned", "mark", mark)

	return mark, nil
}

// OnMove - applies a move. Rejected moves change nothing and notify nobody.
func (that *SessionCoordinator) OnMove(connID string, position int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	mark, ok := that.game.MarkOf(connID)
	if !ok {
		return apperror.ErrUnknownPlayer
	}

	if err := that.game.MakeTurn(mark, position); err != nil {
		return fmt.Errorf("move rejected: %w", err)
	}

	switch that.game.Status {
	case entity.StatusWon:
		that.notifier.Broadcast(entity.Event{Action: entity.ActionGameOver, Payload: entity.NewGameOver(mark)})
		that.logger.Info("game won", "mark", mark)
	case entity.StatusDraw:
		that.notifier.Broadcast(entity.Event{Action: entity.ActionGameOver, Payload: entity.NewGameOver("")})
		that.logger.Info("game drawn")
	}

	that.broadcastState()

	return nil
}

// OnRestartRequest - records readiness; the board restarts once both players agree.
func (that *SessionCoordinator) OnRestartRequest(connID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	mark, ok := that.game.MarkOf(connID)
	if !ok {
		return apperror.ErrUnknownPlayer
	}

	if !that.game.MarkReady(mark) {
		that.notifier.Broadcast(entity.Event{Action: entity.ActionPlayerReadyRestart, Payload: mark})
		return nil
	}

	that.game.Restart()
	that.broadcastState()

	that.logger.Info("game restarted")

	return nil
}

// OnDisconnect - a seated player leaving resets the whole session, both seats included.
func (that *SessionCoordinator) OnDisconnect(connID string) {
	log := that.logger.With("method", "OnDisconnect", "connID", connID)

	that.mu.Lock()
	defer that.mu.Unlock()

	mark, ok := that.game.MarkOf(connID)
	if !ok {
		log.Debug("spectator disconnected")
		return
	}

	that.game.Reset()
	that.notifier.Broadcast(entity.Event{Action: entity.ActionPlayerDisconnected})

	log.Info("player disconnected, session reset", "mark", mark)
}

// Snapshot - returns a copy of the current session state.
func (that *SessionCoordinator) Snapshot() entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.Snapshot()
}

func (that *SessionCoordinator) broadcastState() {
	that.notifier.Broadcast(entity.Event{Action: entity.ActionGameState, Payload: that.game.Snapshot()})
}
