package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-session/internal/entity"
)

const (
	defaultSendBuffer     = 64
	defaultMaxMessageSize = 512
	shutdownTimeout       = 5 * time.Second
)

var ErrUnknownAction = errors.New("unknown action")

type coordinator interface {
	OnConnect(connID string) (string, error)
	OnMove(connID string, position int) error
	OnRestartRequest(connID string) error
	OnDisconnect(connID string)
}

type Options struct {
	SendBuffer     int
	MaxMessageSize int64
}

type Server struct {
	logger      *slog.Logger
	coordinator coordinator
	hub         *Hub
	options     Options

	upgrader websocket.Upgrader
	handlers map[string]func(client *Client, message *Message) error
}

func New(logger *slog.Logger, coordinator coordinator, hub *Hub, options Options) *Server {
	if options.SendBuffer <= 0 {
		options.SendBuffer = defaultSendBuffer
	}

	if options.MaxMessageSize <= 0 {
		options.MaxMessageSize = defaultMaxMessageSize
	}

	server := &Server{
		logger:      logger.With("component", "websocket"),
		coordinator: coordinator,
		hub:         hub,
		options:     options,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		handlers: make(map[string]func(*Client, *Message) error),
	}

	server.handlers[entity.ActionMakeMove] = server.handleMakeMove
	server.handlers[entity.ActionPlayAgain] = server.handlePlayAgain

	return server
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", that)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// ServeHTTP - upgrades the connection to WebSocket and serves it until it closes.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(uuid.NewString(), conn, that.options.SendBuffer)
	log = log.With("connID", client.id)

	that.hub.register(client)
	go client.writePump()

	log.Info("user connected", "remote", req.RemoteAddr)

	if _, err = that.coordinator.OnConnect(client.id); err != nil {
		log.Debug("connection not seated", "error", err)
	}

	that.readPump(client)

	log.Info("user disconnected")
}

// readPump - dispatches inbound messages of one connection in arrival order.
func (that *Server) readPump(client *Client) {
	log := that.logger.With("method", "readPump", "connID", client.id)

	defer func() {
		that.hub.unregister(client)
		that.coordinator.OnDisconnect(client.id)
		_ = client.conn.Close()
	}()

	client.conn.SetReadLimit(that.options.MaxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("unexpected close", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Debug("failed to unmarshal message", "error", err)
			continue
		}

		if err = that.processMessage(client, &message); err != nil {
			log.Debug("message dropped", "action", message.Action, "error", err)
		}
	}
}

// processMessage - routes a message to the handler of its action.
func (that *Server) processMessage(client *Client, message *Message) error {
	handler, ok := that.handlers[message.Action]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, message.Action)
	}

	return handler(client, message)
}
