package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"jan-server/services/pairing-api/internal/domain/session"
)

// publishClient is the subset of the Redis client used for pub/sub.
type publishClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher fans session lifecycle events out over a Redis channel.
type RedisPublisher struct {
	client  publishClient
	closer  func() error
	channel string
	log     zerolog.Logger
}

// NewRedisPublisher connects to redisURL and verifies the connection.
func NewRedisPublisher(ctx context.Context, redisURL, channel string, log zerolog.Logger) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	p := newRedisPublisher(client, channel, log)
	p.closer = client.Close
	return p, nil
}

func newRedisPublisher(client publishClient, channel string, log zerolog.Logger) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		closer:  func() error { return nil },
		channel: channel,
		log:     log.With().Str("component", "session-events").Logger(),
	}
}

// Publish sends event as JSON on the configured channel.
func (p *RedisPublisher) Publish(ctx context.Context, event session.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	receivers, err := p.client.Publish(ctx, p.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	p.log.Debug().
		Str("event", string(event.Type)).
		Str("session_id", event.SessionID).
		Int64("receivers", receivers).
		Msg("session event published")
	return nil
}

// Close releases the Redis connection.
func (p *RedisPublisher) Close() error {
	return p.closer()
}

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, session.Event) error { return nil }

func (NopPublisher) Close() error { return nil }
