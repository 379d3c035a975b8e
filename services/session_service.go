package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"

	"github.com/guildforms/guildforms/domain"
	"github.com/guildforms/guildforms/errors"
)

// SessionService mints and validates local session credentials. Tokens are
// opaque random values resolved by server-side lookup, so a revocation takes
// effect immediately. A short-TTL cache sits in front of the repository to
// keep the per-request identity check off the database.
type SessionService struct {
	sessions domain.SessionRepository
	cache    *ttlcache.Cache[string, *domain.Session]
	tokenTTL time.Duration
}

const sessionCacheTTL = 30 * time.Second

// NewSessionService creates a new SessionService.
func NewSessionService(sessions domain.SessionRepository, tokenTTL time.Duration) *SessionService {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, *domain.Session](sessionCacheTTL),
		ttlcache.WithDisableTouchOnHit[string, *domain.Session](),
	)
	go cache.Start()

	return &SessionService{
		sessions: sessions,
		cache:    cache,
		tokenTTL: tokenTTL,
	}
}

// Stop should be called on server shutdown to clean up the cache.
func (s *SessionService) Stop() {
	s.cache.Stop()
}

// Mint creates a new session bound to the given user and returns it. The
// token value is the bearer credential handed back to the browser.
func (s *SessionService) Mint(ctx context.Context, userID string) (*domain.Session, error) {
	now := time.Now().UTC()
	session := &domain.Session{
		ID:         uuid.NewString(),
		UserID:     userID,
		TokenValue: uuid.NewString(),
		ExpiresAt:  now.Add(s.tokenTTL),
		CreatedAt:  now,
		LastUsedAt: now,
	}
	if err := s.sessions.Store(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Validate resolves a bearer token value to its session. Missing, revoked
// and expired sessions all fail with Unauthenticated.
func (s *SessionService) Validate(ctx context.Context, tokenValue string) (*domain.Session, error) {
	var session *domain.Session
	if item := s.cache.Get(tokenValue); item != nil {
		session = item.Value()
	} else {
		stored, err := s.sessions.GetByToken(ctx, tokenValue)
		if err != nil {
			if errors.Is(err, errors.NotFound) {
				return nil, errors.NewUnauthenticated("invalid session token")
			}
			return nil, err
		}
		session = stored
		s.cache.Set(tokenValue, session, ttlcache.DefaultTTL)
	}

	if session.IsRevoked {
		return nil, errors.NewUnauthenticated("session has been revoked")
	}
	if time.Now().UTC().After(session.ExpiresAt) {
		return nil, errors.NewUnauthenticated("session has expired")
	}
	return session, nil
}

// Revoke invalidates a session by its token value.
func (s *SessionService) Revoke(ctx context.Context, tokenValue string) error {
	s.cache.Delete(tokenValue)
	return s.sessions.Revoke(ctx, tokenValue)
}
