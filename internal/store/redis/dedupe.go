package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// eventKeyTTL keeps dedupe keys around long past any gateway retry window.
const eventKeyTTL = 30 * 24 * time.Hour

// Dedupe remembers payment gateway event references so redelivered webhooks
// can be absorbed without touching the database.
type Dedupe struct {
	client *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*Dedupe, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &Dedupe{client: client}, nil
}

func (d *Dedupe) Close() error {
	if err := d.client.Close(); err != nil {
		return fmt.Errorf("redis.Dedupe.Close: %w", err)
	}
	return nil
}

// Seen reports whether ref has already been fully processed. It never
// records anything: the key is only written by MarkSeen after the durable
// write commits, so a failed delivery is re-processed on the next retry.
func (d *Dedupe) Seen(ctx context.Context, ref string) (bool, error) {
	n, err := d.client.Exists(ctx, EventKey(ref)).Result()
	if err != nil {
		return false, fmt.Errorf("redis.Dedupe.Seen: %w", err)
	}
	return n > 0, nil
}

// MarkSeen records ref as processed. Called only after the subscription row
// exists; until then the durable GatewayRef lookup is the authoritative guard.
func (d *Dedupe) MarkSeen(ctx context.Context, ref string) error {
	if err := d.client.Set(ctx, EventKey(ref), 1, eventKeyTTL).Err(); err != nil {
		return fmt.Errorf("redis.Dedupe.MarkSeen: %w", err)
	}
	return nil
}

// EventKey returns the Redis key under which a gateway event reference is
// recorded.
func EventKey(ref string) string {
	return "gateway:event:" + ref
}
