package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/01moynul/travelbridge/internal/models"
)

// ErrLocked is returned when another review of the same account holds the lock.
var ErrLocked = errors.New("account is locked by another review")

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockKey is the Redis key guarding reviews of one account.
func LockKey(accountType models.AccountType, id string) string {
	return fmt.Sprintf("verification:lock:%s:%s", accountType, id)
}

// RedisLocker serializes review operations per account.
type RedisLocker struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisLocker creates a locker. Locks expire after ttl even if never released.
func NewRedisLocker(client redis.Cmdable, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLocker{client: client, ttl: ttl}
}

// WithLock runs fn while holding the account lock. It fails fast with
// ErrLocked instead of waiting.
func (l *RedisLocker) WithLock(ctx context.Context, accountType models.AccountType, id string, fn func(context.Context) error) error {
	key := LockKey(accountType, id)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return ErrLocked
	}

	defer func() {
		// Release on a fresh context so a cancelled request still frees the key.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
	}()

	return fn(ctx)
}

// NoopLocker runs fn without any cross-process coordination. Used when Redis
// is not configured; the store's row lock still applies.
type NoopLocker struct{}

func (NoopLocker) WithLock(ctx context.Context, _ models.AccountType, _ string, fn func(context.Context) error) error {
	return fn(ctx)
}
