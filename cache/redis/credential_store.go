// Package redis provides a Redis-backed credential store for deployments
// running more than one server process, where an in-memory map would make
// login affinity matter.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// CredentialStore implements the cache.CredentialStore interface using Redis.
type CredentialStore struct {
	client *redis.Client
	prefix string // Optional prefix for keys
}

// NewCredentialStore creates a new [CredentialStore] instance.
func NewCredentialStore(client *redis.Client, prefix string) *CredentialStore {
	return &CredentialStore{
		client: client,
		prefix: prefix,
	}
}

// redisKey returns the Redis key for a given user id.
func (r *CredentialStore) redisKey(userID string) string {
	return fmt.Sprintf("%s:credential:%s", r.prefix, userID)
}

// Put stores the delegated token for the user, overwriting any prior value.
// No TTL is set: invalidation is explicit.
func (r *CredentialStore) Put(ctx context.Context, userID, token string) error {
	if err := r.client.Set(ctx, r.redisKey(userID), token, 0).Err(); err != nil {
		return fmt.Errorf("failed to set credential in Redis: %w", err)
	}
	return nil
}

// Get retrieves the delegated token for the user.
func (r *CredentialStore) Get(ctx context.Context, userID string) (string, bool) {
	token, err := r.client.Get(ctx, r.redisKey(userID)).Result()
	if err != nil {
		// A miss and a Redis failure look the same to the caller: the
		// user has to re-authenticate either way.
		return "", false
	}
	return token, true
}

// Invalidate removes the stored token for the user.
func (r *CredentialStore) Invalidate(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, r.redisKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete credential from Redis: %w", err)
	}
	return nil
}
