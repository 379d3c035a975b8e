package cache

import "context"

// CredentialStore holds delegated platform access tokens keyed by local user
// id. Tokens carry no expiry of their own: they are invalidated lazily, the
// first time the platform rejects one. At most one token is held per user; a
// fresh login overwrites the previous value.
type CredentialStore interface {
	Put(ctx context.Context, userID, token string) error
	// Get returns the stored token, or ok=false when none is held.
	Get(ctx context.Context, userID string) (token string, ok bool)
	Invalidate(ctx context.Context, userID string) error
}
