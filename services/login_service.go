package services

import (
	"context"
	goerrors "errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/guildforms/guildforms/cache"
	"github.com/guildforms/guildforms/domain"
	"github.com/guildforms/guildforms/errors"
	"github.com/guildforms/guildforms/internal/discord"
)

// LoginService runs the federated login flow: code exchange, identity
// resolution, credential storage, permission merge, identity upsert and
// local session minting.
type LoginService struct {
	platform    discord.Platform
	credentials cache.CredentialStore
	permissions domain.PermissionRepository
	identities  domain.IdentityRepository
	settings    domain.GuildSettingsRepository
	sessions    *SessionService
}

// NewLoginService creates a new LoginService.
func NewLoginService(
	platform discord.Platform,
	credentials cache.CredentialStore,
	permissions domain.PermissionRepository,
	identities domain.IdentityRepository,
	settings domain.GuildSettingsRepository,
	sessions *SessionService,
) *LoginService {
	return &LoginService{
		platform:    platform,
		credentials: credentials,
		permissions: permissions,
		identities:  identities,
		settings:    settings,
		sessions:    sessions,
	}
}

// HandleCallback processes the consent redirect's authorization code and
// returns the minted local session. Any failure before the permission merge
// aborts the whole flow: without an identity and a permission set, no
// privileged action is possible later. The identity upsert alone is
// cosmetic and survives a failure.
func (s *LoginService) HandleCallback(ctx context.Context, code string) (*domain.Session, error) {
	accessToken, err := s.platform.ExchangeCode(ctx, code)
	if err != nil {
		return nil, errors.NewUpstreamAuthFailure(fmt.Sprintf("code exchange failed: %v", err))
	}

	user, err := s.platform.GetIdentity(ctx, accessToken)
	if err != nil {
		return nil, errors.NewUpstreamAuthFailure(fmt.Sprintf("identity resolution failed: %v", err))
	}

	// The identity's id becomes the key for everything downstream: the
	// credential store, the permission record and the session subject.
	if err := s.credentials.Put(ctx, user.ID, accessToken); err != nil {
		return nil, errors.NewUpstreamAuthFailure(fmt.Sprintf("failed to store delegated credential: %v", err))
	}

	memberships, err := s.platform.GetGuildMemberships(ctx, accessToken)
	if err != nil {
		return nil, errors.NewUpstreamAuthFailure(fmt.Sprintf("guild membership resolution failed: %v", err))
	}

	var adminGuildIDs []string
	for _, m := range memberships {
		if discord.HasAdministrator(m.Permissions) {
			adminGuildIDs = append(adminGuildIDs, m.GuildID)
		}
	}

	// A login without its permission set behind it would make every admin
	// route lie, so this failure aborts the whole flow.
	if err := s.permissions.MergeAdminGuilds(ctx, user.ID, adminGuildIDs); err != nil {
		return nil, errors.NewUpstreamAuthFailure(fmt.Sprintf("failed to record admin guilds: %v", err))
	}

	identity := &domain.Identity{
		ID:          user.ID,
		DisplayName: user.Username,
		AvatarURL:   user.AvatarURL,
	}
	if err := s.identities.Upsert(ctx, identity); err != nil {
		// Display attributes are cosmetic; the login still succeeds.
		log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to upsert identity record")
	}

	return s.sessions.Mint(ctx, user.ID)
}

// GuildOverview is one entry of the caller's guild listing, decorated with
// the bits the dashboard needs.
type GuildOverview struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	IsAdmin     bool   `json:"isAdmin"`
	IsBotMember bool   `json:"isBotMember"`
	IsPremium   bool   `json:"isPremium"`
}

// ListGuilds fetches the caller's guilds live from the platform using their
// delegated token. A platform rejection invalidates the stored credential so
// the next call fails fast instead of hammering a dead token.
func (s *LoginService) ListGuilds(ctx context.Context, userID string) ([]GuildOverview, error) {
	accessToken, ok := s.credentials.Get(ctx, userID)
	if !ok {
		return nil, errors.NewUnauthenticated("platform token missing, log in again")
	}

	memberships, err := s.platform.GetGuildMemberships(ctx, accessToken)
	if err != nil {
		if goerrors.Is(err, discord.ErrUnauthorized) {
			if invErr := s.credentials.Invalidate(ctx, userID); invErr != nil {
				log.Warn().Err(invErr).Str("user_id", userID).Msg("Failed to invalidate delegated credential")
			}
			return nil, errors.NewUnauthenticated("platform token expired, log in again")
		}
		return nil, errors.NewUpstreamAPIError(fmt.Sprintf("guild listing failed: %v", err))
	}

	overviews := make([]GuildOverview, 0, len(memberships))
	for _, m := range memberships {
		overview := GuildOverview{
			ID:      m.GuildID,
			Name:    m.Name,
			Icon:    m.Icon,
			IsAdmin: discord.HasAdministrator(m.Permissions),
		}

		if _, fetchErr := s.platform.FetchGuild(ctx, m.GuildID); fetchErr == nil {
			overview.IsBotMember = true
		}

		settings, settingsErr := s.settings.Get(ctx, m.GuildID)
		if settingsErr != nil {
			log.Warn().Err(settingsErr).Str("guild_id", m.GuildID).Msg("Failed to load guild settings")
		} else {
			overview.IsPremium = settings.IsPremium
		}

		overviews = append(overviews, overview)
	}
	return overviews, nil
}
