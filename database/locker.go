package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrLockNotAcquired = errors.New("failed to acquire lock")

// Unlock releases a lock obtained from a Locker. Calling it more than once is
// harmless.
type Unlock func()

// Locker serializes work on a key. Work on different keys proceeds
// independently.
type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}

const releaseLockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`

var releaseScript = redis.NewScript(releaseLockScript)

// RedisLocker is a distributed lock built on SET NX with an expiry. The value
// is a per-acquisition UUID so only the owner can release it.
type RedisLocker struct {
	client     *redis.Client
	ttl        time.Duration
	retryDelay time.Duration
}

// NewRedisLocker returns a locker whose locks expire after ttl. Lock waits up
// to ttl for a busy key, since by then the holder has released it or it has
// expired.
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, retryDelay: 25 * time.Millisecond}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	value := uuid.New().String()
	deadline := time.Now().Add(l.ttl)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		locked, err := l.client.SetNX(ctx, key, value, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLockNotAcquired, err)
		}
		if locked {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s is busy", ErrLockNotAcquired, key)
		}

		timer := time.NewTimer(l.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// the request context may already be done
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := l.release(releaseCtx, key, value); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("failed to release lock")
			}
		})
	}, nil
}

func (l *RedisLocker) release(ctx context.Context, key, value string) error {
	result, err := releaseScript.Run(ctx, l.client, []string{key}, value).Int64()
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	if result == 0 {
		return errors.New("lock release failed: not the lock owner")
	}
	return nil
}

// KeyedLocker is an in-process Locker for single instance deployments.
type KeyedLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sem  chan struct{}
	refs int
}

func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{locks: make(map[string]*keyedLock)}
}

func (l *KeyedLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyedLock{sem: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.sem <- struct{}{}:
	case <-ctx.Done():
		l.drop(key, kl)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-kl.sem
			l.drop(key, kl)
		})
	}, nil
}

func (l *KeyedLocker) drop(key string, kl *keyedLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}

// size is the number of keys currently tracked.
func (l *KeyedLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
