package relay

import (
	"context"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-session/internal/entity"
)

const (
	defaultBuffer  = 256
	publishTimeout = 2 * time.Second
)

// Sink receives mirrored broadcasts outside the coordinator's critical section.
type Sink interface {
	Name() string
	Publish(ctx context.Context, event entity.Event) error
}

// Relay queues broadcasts and hands them to every sink from a single worker.
type Relay struct {
	logger *slog.Logger
	sinks  []Sink
	queue  chan entity.Event
}

func New(logger *slog.Logger, buffer int, sinks ...Sink) *Relay {
	if buffer <= 0 {
		buffer = defaultBuffer
	}

	return &Relay{
		logger: logger.With("component", "relay"),
		sinks:  sinks,
		queue:  make(chan entity.Event, buffer),
	}
}

// Enqueue - never blocks; a full queue drops the event.
func (that *Relay) Enqueue(event entity.Event) {
	if len(that.sinks) == 0 {
		return
	}

	select {
	case that.queue <- event:
	default:
		that.logger.Warn("relay queue is full, event dropped", "action", event.Action)
	}
}

// Run - delivers queued events until ctx is canceled.
func (that *Relay) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")

	for {
		select {
		case <-ctx.Done():
			log.Info("relay stopped")
			return
		case event := <-that.queue:
			that.deliver(ctx, event)
		}
	}
}

func (that *Relay) deliver(ctx context.Context, event entity.Event) {
	for _, sink := range that.sinks {
		publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		if err := sink.Publish(publishCtx, event); err != nil {
			that.logger.Error("failed to publish event", "sink", sink.Name(), "action", event.Action, "error", err)
		}
		cancel()
	}
}

type notifier interface {
	Send(connID string, event entity.Event)
	Broadcast(event entity.Event)
}

// Tee forwards to the connections and mirrors broadcasts into the relay.
type Tee struct {
	primary notifier
	relay   *Relay
}

func NewTee(primary notifier, relay *Relay) *Tee {
	return &Tee{primary: primary, relay: relay}
}

func (that *Tee) Send(connID string, event entity.Event) {
	that.primary.Send(connID, event)
}

func (that *Tee) Broadcast(event entity.Event) {
	that.primary.Broadcast(event)
	that.relay.Enqueue(event)
}
