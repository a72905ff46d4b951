package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisClaimStore persists role claims in Redis so every instance issuing
// tokens sees role changes immediately.
type RedisClaimStore struct {
	client *redis.Client
}

func NewRedisClaimStore(client *redis.Client) *RedisClaimStore {
	return &RedisClaimStore{client: client}
}

func claimKey(uid string) string {
	return "identity:role:" + uid
}

func (r *RedisClaimStore) SetRole(ctx context.Context, uid, role string) error {
	// Claims have no TTL: they stay until the next role change.
	if err := r.client.Set(ctx, claimKey(uid), role, 0).Err(); err != nil {
		return fmt.Errorf("set role claim: %w", err)
	}
	return nil
}

// GetRole returns the stored role for uid, or "" when no claim is set.
func (r *RedisClaimStore) GetRole(ctx context.Context, uid string) (string, error) {
	role, err := r.client.Get(ctx, claimKey(uid)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("get role claim: %w", err)
	}
	return role, nil
}
