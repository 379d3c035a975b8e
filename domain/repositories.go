package domain

import (
	"context"
	"time"
)

// IdentityRepository persists local identity records.
type IdentityRepository interface {
	// Upsert creates the identity or refreshes its display attributes.
	Upsert(ctx context.Context, identity *Identity) error
	GetByID(ctx context.Context, userID string) (*Identity, error)
}

// PermissionRepository persists the admin-guild sets backing the
// authorization guard.
type PermissionRepository interface {
	// MergeAdminGuilds unions guildIDs into the user's persisted set,
	// creating the record if absent. It never removes entries.
	MergeAdminGuilds(ctx context.Context, userID string, guildIDs []string) error
	// IsAdmin reports whether guildID is in the user's persisted set.
	IsAdmin(ctx context.Context, userID, guildID string) (bool, error)
}

// GuildSettingsRepository persists per-guild settings. Reads are always
// against the store; premium gates paid behavior and must not be served
// stale.
type GuildSettingsRepository interface {
	Get(ctx context.Context, guildID string) (*GuildSettings, error)
	SetPremium(ctx context.Context, guildID string, premium bool) error
}

// FormRepository persists guild-scoped forms.
type FormRepository interface {
	Create(ctx context.Context, form *Form) error
	Update(ctx context.Context, form *Form) error
	Delete(ctx context.Context, guildID, formID string) error
	GetByID(ctx context.Context, formID string) (*Form, error)
	ListByGuild(ctx context.Context, guildID string) ([]*Form, error)
}

// ApplicationFilter narrows ListByGuild results. Zero values match all.
type ApplicationFilter struct {
	FormID string
	Status ApplicationStatus
}

// ApplicationRepository persists applications and applies the one-shot
// decision transition.
type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, guildID, appID string) (*Application, error)
	ListByGuild(ctx context.Context, guildID string, filter ApplicationFilter) ([]*Application, error)
	// Decide atomically moves the application from pending to the given
	// terminal status, recording reviewer and decision time. It returns a
	// Conflict error when the application is no longer pending, leaving the
	// record untouched.
	Decide(ctx context.Context, guildID, appID string, status ApplicationStatus, reviewerID, reviewerName string, decidedAt time.Time) (*Application, error)
}

// SessionRepository persists local login sessions.
type SessionRepository interface {
	Store(ctx context.Context, session *Session) error
	GetByToken(ctx context.Context, tokenValue string) (*Session, error)
	Revoke(ctx context.Context, tokenValue string) error
}
