package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guildforms/guildforms/domain"
)

func TestIsPremium_ReflectsPersistedValue(t *testing.T) {
	settings := new(MockGuildSettingsRepository)
	svc := NewEntitlementService(settings)

	settings.On("Get", mock.Anything, testGuildID).
		Return(&domain.GuildSettings{GuildID: testGuildID, IsPremium: true}, nil).Twice()

	// Re-reads without an intervening write return the same value, and each
	// read hits the store.
	for i := 0; i < 2; i++ {
		premium, err := svc.IsPremium(context.Background(), testGuildID)
		require.NoError(t, err)
		assert.True(t, premium)
	}
	settings.AssertNumberOfCalls(t, "Get", 2)
}

func TestSetPremiumThenIsPremium(t *testing.T) {
	settings := new(MockGuildSettingsRepository)
	svc := NewEntitlementService(settings)

	settings.On("SetPremium", mock.Anything, testGuildID, true).Return(nil).Run(func(args mock.Arguments) {
		settings.On("Get", mock.Anything, testGuildID).
			Return(&domain.GuildSettings{GuildID: testGuildID, IsPremium: true}, nil)
	})

	require.NoError(t, svc.SetPremium(context.Background(), testGuildID, true))

	premium, err := svc.IsPremium(context.Background(), testGuildID)
	require.NoError(t, err)
	assert.True(t, premium)
}

func TestIsPremium_UnknownGuildDefaultsFalse(t *testing.T) {
	settings := new(MockGuildSettingsRepository)
	svc := NewEntitlementService(settings)

	settings.On("Get", mock.Anything, "444444444444444444").
		Return(&domain.GuildSettings{GuildID: "444444444444444444", IsPremium: false}, nil)

	premium, err := svc.IsPremium(context.Background(), "444444444444444444")
	require.NoError(t, err)
	assert.False(t, premium)
}
