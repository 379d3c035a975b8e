package services

import (
	"context"
	"fmt"

	"github.com/guildforms/guildforms/domain"
	"github.com/guildforms/guildforms/errors"
	"github.com/guildforms/guildforms/internal/discord"
)

// NotificationService delivers advisory messages to channels and users.
// Both operations are best-effort from the caller's perspective: errors are
// returned, never escalated, so the lifecycle engine can always continue
// past a failed delivery.
type NotificationService struct {
	platform discord.Platform
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(platform discord.Platform) *NotificationService {
	return &NotificationService{platform: platform}
}

// SendToChannel posts message to a guild channel. A malformed channel id is
// rejected up front, without a network call.
func (s *NotificationService) SendToChannel(ctx context.Context, channelID, message string) error {
	if !domain.ValidSnowflake(channelID) {
		return errors.NewBadRequest(fmt.Sprintf("invalid channel id %q", channelID))
	}
	if err := s.platform.SendChannelMessage(ctx, channelID, message); err != nil {
		return errors.NewNotificationDeliveryFailure(fmt.Sprintf("channel message delivery failed: %v", err))
	}
	return nil
}

// SendDirect sends message to a user's direct message channel. A malformed
// user id is rejected up front, without a network call.
func (s *NotificationService) SendDirect(ctx context.Context, userID, message string) error {
	if !domain.ValidSnowflake(userID) {
		return errors.NewBadRequest(fmt.Sprintf("invalid user id %q", userID))
	}
	if err := s.platform.SendDirectMessage(ctx, userID, message); err != nil {
		return errors.NewNotificationDeliveryFailure(fmt.Sprintf("direct message delivery failed: %v", err))
	}
	return nil
}
