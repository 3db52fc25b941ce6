package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	accountLockTTL  = 30 * time.Second
	lockRetryPeriod = 50 * time.Millisecond
)

// releaseScript deletes the lock only if it is still held by the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireAccountLock attempts to acquire the transfer lock for a ledger account.
// Returns the lock token, or "" if the lock is already held.
func (s *LockStore) AcquireAccountLock(ctx context.Context, accountID string, ttl time.Duration) (string, error) {
	token := uuid.NewString()

	ok, err := s.client.SetNX(ctx, accountLockKey(accountID), token, ttl).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}

	return token, nil
}

// ReleaseAccountLock releases the transfer lock if token still owns it.
func (s *LockStore) ReleaseAccountLock(ctx context.Context, accountID, token string) error {
	return releaseScript.Run(ctx, s.client, []string{accountLockKey(accountID)}, token).Err()
}

// LockAccount blocks until the account's transfer lock is held or ctx is done,
// so transfers from one account are serialised across instances.
func (s *LockStore) LockAccount(ctx context.Context, accountID string) (func(), error) {
	ticker := time.NewTicker(lockRetryPeriod)
	defer ticker.Stop()

	for {
		token, err := s.AcquireAccountLock(ctx, accountID, accountLockTTL)
		if err != nil {
			return nil, err
		}
		if token != "" {
			return func() {
				// Release on a fresh context; the request context may already be cancelled.
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = s.ReleaseAccountLock(releaseCtx, accountID, token)
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for account lock: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func accountLockKey(accountID string) string {
	return fmt.Sprintf("lock:account:%s", accountID)
}
