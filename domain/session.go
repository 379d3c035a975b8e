package domain

import "time"

// Session represents an active local login session. The TokenValue is the
// opaque bearer credential handed to the browser after a federated login;
// validation is a server-side lookup, so revocation is immediate.
type Session struct {
	ID         string    `bson:"_id,omitempty"`
	UserID     string    `bson:"user_id"`
	TokenValue string    `bson:"token_value,unique"`
	ExpiresAt  time.Time `bson:"expires_at"`
	CreatedAt  time.Time `bson:"created_at"`
	LastUsedAt time.Time `bson:"last_used_at,omitempty"`
	IsRevoked  bool      `bson:"is_revoked,omitempty"`
}
