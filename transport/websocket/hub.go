package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-session/internal/entity"
)

// Hub keeps every open connection and fans events out to them.
// Send and Broadcast never block: a client with a full buffer is dropped.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With("component", "hub"),
		clients: make(map[string]*Client),
	}
}

func (that *Hub) register(client *Client) {
	that.mu.Lock()
	that.clients[client.id] = client
	that.mu.Unlock()
}

// unregister - removes the client and closes its send queue; reports whether it was registered.
func (that *Hub) unregister(client *Client) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if current, ok := that.clients[client.id]; !ok || current != client {
		return false
	}

	delete(that.clients, client.id)
	close(client.send)

	return true
}

// Send - delivers event to a single connection.
func (that *Hub) Send(connID string, event entity.Event) {
	data, ok := that.marshal(event)
	if !ok {
		return
	}

	that.mu.RLock()
	client, found := that.clients[connID]
	delivered := found && client.enqueue(data)
	that.mu.RUnlock()

	if found && !delivered {
		that.drop(client)
	}
}

// Broadcast - delivers event to every open connection.
func (that *Hub) Broadcast(event entity.Event) {
	data, ok := that.marshal(event)
	if !ok {
		return
	}

	var slow []*Client

	that.mu.RLock()
	for _, client := range that.clients {
		if !client.enqueue(data) {
			slow = append(slow, client)
		}
	}
	that.mu.RUnlock()

	for _, client := range slow {
		that.drop(client)
	}
}

// Len - number of open connections.
func (that *Hub) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.clients)
}

func (that *Hub) drop(client *Client) {
	if that.unregister(client) {
		that.logger.Warn("send buffer is full, dropping connection", "connID", client.id)
	}
}

func (that *Hub) marshal(event entity.Event) ([]byte, bool) {
	data, err := json.Marshal(event)
	if err != nil {
		that.logger.Error("failed to marshal event", "action", event.Action, "error", err)
		return nil, false
	}

	return data, true
}
