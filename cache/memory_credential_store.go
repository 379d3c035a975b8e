package cache

import (
	"context"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryCredentialStore implements CredentialStore using ttlcache. Entries
// are stored without a TTL: invalidation is always explicit, driven by an
// upstream rejection or a re-login overwrite.
type MemoryCredentialStore struct {
	cache *ttlcache.Cache[string, string]
}

// NewMemoryCredentialStore creates a new in-memory credential store.
//
//nolint:ireturn
func NewMemoryCredentialStore() CredentialStore {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, string](ttlcache.NoTTL),
		ttlcache.WithDisableTouchOnHit[string, string](),
	)

	// Start the cleanup process. Entries carry no TTL, but Stop (via Close)
	// hands off to this goroutine and would block without it.
	go cache.Start()

	return &MemoryCredentialStore{
		cache: cache,
	}
}

// Put implements CredentialStore.Put.
func (s *MemoryCredentialStore) Put(_ context.Context, userID, token string) error {
	s.cache.Set(userID, token, ttlcache.NoTTL)
	return nil
}

// Get implements CredentialStore.Get.
func (s *MemoryCredentialStore) Get(_ context.Context, userID string) (string, bool) {
	item := s.cache.Get(userID)
	if item == nil {
		return "", false
	}
	return item.Value(), true
}

// Invalidate implements CredentialStore.Invalidate.
func (s *MemoryCredentialStore) Invalidate(_ context.Context, userID string) error {
	s.cache.Delete(userID)
	return nil
}

// Close releases the cache resources.
func (s *MemoryCredentialStore) Close() error {
	s.cache.Stop()
	return nil
}
