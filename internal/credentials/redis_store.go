package credentials

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Rym09/resume-screener/pkg/domain"
)

const (
	redisTokenKey = "screener:credentials:token"
	redisRoleKey  = "screener:credentials:role"
)

// RedisStore persists credentials in Redis for setups where several
// processes on one host share a session (e.g. a kiosk terminal).
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis. A zero TTL means credentials do not
// expire client-side; the server still bounds token lifetime.
func NewRedisStore(addr, password string, ttl time.Duration) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &RedisStore{client: client, ttl: ttl}
}

// Get reads the credential pair. Any Redis error reads as "no session" so a
// flaky Redis degrades to unauthenticated requests instead of failures.
func (r *RedisStore) Get() (Credentials, bool) {
	ctx := context.Background()
	token, err := r.client.Get(ctx, redisTokenKey).Result()
	if err != nil || token == "" {
		return Credentials{}, false
	}
	role, err := r.client.Get(ctx, redisRoleKey).Result()
	if err != nil {
		return Credentials{}, false
	}
	return Credentials{Token: token, Role: domain.Role(role)}, true
}

// Set stores the credential pair under fixed keys.
func (r *RedisStore) Set(c Credentials) error {
	ctx := context.Background()
	if err := r.client.Set(ctx, redisTokenKey, c.Token, r.ttl).Err(); err != nil {
		return err
	}
	return r.client.Set(ctx, redisRoleKey, string(c.Role), r.ttl).Err()
}

// Clear deletes both keys. Deleting absent keys is a no-op in Redis.
func (r *RedisStore) Clear() error {
	return r.client.Del(context.Background(), redisTokenKey, redisRoleKey).Err()
}
