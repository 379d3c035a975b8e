package discord

import "context"

// UserInfo holds the platform identity resolved from a delegated token.
type UserInfo struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Avatar    string `json:"avatar"`
	AvatarURL string `json:"-"`
}

// GuildMembership is one entry of a user's guild listing, including the
// caller's permission mask within that guild.
type GuildMembership struct {
	GuildID     string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Permissions string `json:"permissions"`
}

// Guild is the subset of guild attributes the service needs.
type Guild struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Member is a user's membership record within one guild.
type Member struct {
	User  UserInfo `json:"user"`
	Nick  string   `json:"nick"`
	Roles []string `json:"roles"`
}

// Platform is the capability surface the service core consumes. The first
// three methods operate with a user's delegated token; the rest act as the
// resident bot. Transport details and rate limiting live behind this
// interface.
type Platform interface {
	// ExchangeCode exchanges an authorization code from the consent
	// redirect for a delegated access token.
	ExchangeCode(ctx context.Context, code string) (string, error)

	// GetIdentity resolves the identity bound to a delegated token.
	GetIdentity(ctx context.Context, accessToken string) (*UserInfo, error)

	// GetGuildMemberships lists the guilds of the token's user together
	// with the user's permission mask in each.
	GetGuildMemberships(ctx context.Context, accessToken string) ([]GuildMembership, error)

	// FetchGuild fetches a guild the bot is a member of. ErrNotFound means
	// the bot is not present there.
	FetchGuild(ctx context.Context, guildID string) (*Guild, error)

	// FetchMember fetches a guild member. ErrNotFound means the user is
	// not (or no longer) a member of the guild.
	FetchMember(ctx context.Context, guildID, userID string) (*Member, error)

	// AddMemberRoles grants the given roles to a guild member.
	AddMemberRoles(ctx context.Context, guildID, userID string, roleIDs []string) error

	// RemoveMemberRoles revokes the given roles from a guild member.
	RemoveMemberRoles(ctx context.Context, guildID, userID string, roleIDs []string) error

	// SendChannelMessage posts content to a guild channel.
	SendChannelMessage(ctx context.Context, channelID, content string) error

	// SendDirectMessage opens (or reuses) a direct message channel with the
	// user and posts content there.
	SendDirectMessage(ctx context.Context, userID, content string) error
}
