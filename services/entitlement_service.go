package services

import (
	"context"

	"github.com/guildforms/guildforms/domain"
)

// EntitlementService answers whether a guild is on the premium tier and lets
// an administrator flip it. Admin enforcement happens at the transport
// boundary; there is no caching here, every read reflects the persisted
// value.
type EntitlementService struct {
	settings domain.GuildSettingsRepository
}

// NewEntitlementService creates a new EntitlementService.
func NewEntitlementService(settings domain.GuildSettingsRepository) *EntitlementService {
	return &EntitlementService{settings: settings}
}

// IsPremium reports whether the guild is on the premium tier. Unknown
// guilds are not premium.
func (s *EntitlementService) IsPremium(ctx context.Context, guildID string) (bool, error) {
	settings, err := s.settings.Get(ctx, guildID)
	if err != nil {
		return false, err
	}
	return settings.IsPremium, nil
}

// SetPremium writes the premium flag for the guild.
func (s *EntitlementService) SetPremium(ctx context.Context, guildID string, premium bool) error {
	return s.settings.SetPremium(ctx, guildID, premium)
}
