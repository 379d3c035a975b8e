package domain

import "time"

// Identity is a local user record. The ID is the platform user id (a
// snowflake), so the same key is used for the credential store, the
// permission record and the reviewer/submitter references.
type Identity struct {
	ID          string    `bson:"_id"`
	DisplayName string    `bson:"display_name"`
	AvatarURL   string    `bson:"avatar_url,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// PermissionRecord maps a user to the set of guilds where they hold the
// administrator permission. AdminGuilds only ever grows between logins:
// a fresh login merges its set in, it never replaces. Stale entries may
// remain; the live membership listing is the accurate view.
type PermissionRecord struct {
	UserID      string    `bson:"_id"`
	AdminGuilds []string  `bson:"admin_guilds"`
	UpdatedAt   time.Time `bson:"updated_at"`
}
