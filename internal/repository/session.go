package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-session/internal/entity"
)

const (
	DefaultChannel     = "tictactoe:events"
	DefaultSnapshotKey = "tictactoe:session"
)

var ErrSnapshotNotFound = errors.New("session snapshot not found")

// SessionRepository mirrors broadcasts into Redis. It is never read back on startup.
type SessionRepository interface {
	Name() string
	Publish(ctx context.Context, event entity.Event) error
	GetLatest(ctx context.Context) (*entity.Snapshot, error)
}

type dbSession struct {
	client      *redis.Client
	channel     string
	snapshotKey string
}

func NewSessionRepository(client *redis.Client, channel, snapshotKey string) SessionRepository {
	if channel == "" {
		channel = DefaultChannel
	}

	if snapshotKey == "" {
		snapshotKey = DefaultSnapshotKey
	}

	return &dbSession{
		client:      client,
		channel:     channel,
		snapshotKey: snapshotKey,
	}
}

func (that *dbSession) Name() string {
	return "redis"
}

func (that *dbSession) Publish(ctx context.Context, event entity.Event) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	if event.Action == entity.ActionGameState {
		snapshotJSON, err := json.Marshal(event.Payload)
		if err != nil {
			return fmt.Errorf("could not marshal snapshot: %w", err)
		}

		if err = that.client.Set(ctx, that.snapshotKey, snapshotJSON, 0).Err(); err != nil {
			return fmt.Errorf("failed to set snapshot: %w", err)
		}
	}

	if err = that.client.Publish(ctx, that.channel, eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

func (that *dbSession) GetLatest(ctx context.Context) (*entity.Snapshot, error) {
	response, err := that.client.Get(ctx, that.snapshotKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snapshot entity.Snapshot
	if err = json.Unmarshal([]byte(response), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
