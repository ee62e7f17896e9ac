package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshChannel is the pub/sub channel admin dashboards subscribe to.
const RefreshChannel = "verification:refresh"

// Admin views invalidated by review operations.
const (
	ViewVerifications = "/admin/verifications"
	ViewAccounts      = "/admin/accounts"
)

type refreshMessage struct {
	Views []string  `json:"views"`
	At    time.Time `json:"at"`
}

// RedisRefresher publishes view invalidations.
type RedisRefresher struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedisRefresher(client redis.Cmdable) *RedisRefresher {
	return &RedisRefresher{client: client, now: time.Now}
}

// Refresh tells listening dashboards that the given views are stale.
func (r *RedisRefresher) Refresh(ctx context.Context, views ...string) error {
	if len(views) == 0 {
		return nil
	}
	payload, err := encodeRefresh(views, r.now().UTC())
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, RefreshChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish refresh: %w", err)
	}
	return nil
}

func encodeRefresh(views []string, at time.Time) ([]byte, error) {
	payload, err := json.Marshal(refreshMessage{Views: views, At: at})
	if err != nil {
		return nil, fmt.Errorf("marshal refresh: %w", err)
	}
	return payload, nil
}

// NoopRefresher drops refresh signals.
type NoopRefresher struct{}

func (NoopRefresher) Refresh(context.Context, ...string) error { return nil }
