package oauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"eventflow/internal/config"
)

var ErrCodeNotFound = errors.New("code not found")

const (
	statePrefix = "oauth:state:"
	codePrefix  = "oauth:code:"
)

// RedisStore backs OAuth login state and one-time login codes with a
// shared TTL. Both kinds of keys are single use.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisStore{
		rdb: rdb,
		ttl: cfg.StateTTL,
	}
}

var _ Env = (*RedisStore)(nil)

// Save stores a state payload until the provider round-trip completes.
func (r *RedisStore) Save(ctx context.Context, key, val string) error {
	if err := r.rdb.Set(ctx, statePrefix+key, val, r.ttl).Err(); err != nil {
		return fmt.Errorf("store state in redis: %w", err)
	}
	return nil
}

// Take retrieves and deletes a state payload in one step, so a state can
// never be replayed.
func (r *RedisStore) Take(ctx context.Context, key string) (string, error) {
	val, err := r.rdb.GetDel(ctx, statePrefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", fmt.Errorf("state not found")
		}
		return "", fmt.Errorf("retrieve state from redis: %w", err)
	}
	return val, nil
}

// CreateCode stores a session token under a fresh one-time code and
// returns the code. The callback redirect carries the code instead of the
// token itself, so tokens never appear in browser history.
func (r *RedisStore) CreateCode(ctx context.Context, token string) (string, error) {
	for range 3 {
		code := randState(24)
		ok, err := r.rdb.SetNX(ctx, codePrefix+code, token, r.ttl).Result()
		if err != nil {
			return "", fmt.Errorf("store code in redis: %w", err)
		}
		if ok {
			return code, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique code")
}

// RedeemCode exchanges a one-time code for the session token it holds.
func (r *RedisStore) RedeemCode(ctx context.Context, code string) (string, error) {
	token, err := r.rdb.GetDel(ctx, codePrefix+code).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrCodeNotFound
		}
		return "", fmt.Errorf("retrieve code from redis: %w", err)
	}
	return token, nil
}

func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
