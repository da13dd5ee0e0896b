package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMissingPayload = errors.New("payload is required")

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (that *Server) handleMakeMove(client *Client, message *Message) error {
	if len(message.Payload) == 0 {
		return ErrMissingPayload
	}

	var position int
	if err := json.Unmarshal(message.Payload, &position); err != nil {
		return fmt.Errorf("failed to unmarshal position: %w", err)
	}

	if err := that.coordinator.OnMove(client.id, position); err != nil {
		return fmt.Errorf("failed to make move: %w", err)
	}

	return nil
}

func (that *Server) handlePlayAgain(client *Client, _ *Message) error {
	if err := that.coordinator.OnRestartRequest(client.id); err != nil {
		return fmt.Errorf("failed to request restart: %w", err)
	}

	return nil
}
