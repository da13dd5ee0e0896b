package nats

import (
	"context"
	"encoding/json"
	"fmt"

	natsio "github.com/nats-io/nats.go"

	"github.com/rocketscienceinc/tictactoe-session/internal/entity"
)

const DefaultSubject = "tictactoe.events"

// Publisher mirrors broadcasts to <subject>.<action>.
type Publisher struct {
	conn    *natsio.Conn
	subject string
}

// Connect - dials the NATS server at url.
func Connect(url string) (*natsio.Conn, error) {
	conn, err := natsio.Connect(url, natsio.Name("tictactoe-session"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return conn, nil
}

func NewPublisher(conn *natsio.Conn, subject string) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}

	return &Publisher{
		conn:    conn,
		subject: subject,
	}
}

func (that *Publisher) Name() string {
	return "nats"
}

func (that *Publisher) Subject(action string) string {
	return that.subject + "." + action
}

func (that *Publisher) Publish(ctx context.Context, event entity.Event) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("publish canceled: %w", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	if err = that.conn.Publish(that.Subject(event.Action), data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
