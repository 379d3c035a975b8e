package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guildforms/guildforms/domain"
	"github.com/guildforms/guildforms/errors"
	"github.com/guildforms/guildforms/internal/discord"
)

const (
	adminGuildID = "222222222222222222"
	plainGuildID = "333333333333333333"
)

type loginFixture struct {
	svc         *LoginService
	platform    *MockPlatform
	credentials *MockCredentialStore
	permissions *MockPermissionRepository
	identities  *MockIdentityRepository
	settings    *MockGuildSettingsRepository
	sessions    *MockSessionRepository
}

func newLoginFixture(t *testing.T) *loginFixture {
	t.Helper()
	f := &loginFixture{
		platform:    new(MockPlatform),
		credentials: new(MockCredentialStore),
		permissions: new(MockPermissionRepository),
		identities:  new(MockIdentityRepository),
		settings:    new(MockGuildSettingsRepository),
		sessions:    new(MockSessionRepository),
	}
	sessionService := NewSessionService(f.sessions, time.Hour)
	t.Cleanup(sessionService.Stop)

	f.svc = NewLoginService(f.platform, f.credentials, f.permissions, f.identities, f.settings, sessionService)
	return f
}

func testMemberships() []discord.GuildMembership {
	return []discord.GuildMembership{
		{GuildID: adminGuildID, Name: "Admin Guild", Permissions: "8"},
		{GuildID: plainGuildID, Name: "Plain Guild", Permissions: "3072"},
	}
}

func TestHandleCallback_FullFlow(t *testing.T) {
	f := newLoginFixture(t)

	f.platform.On("ExchangeCode", mock.Anything, "good-code").Return("delegated-token", nil)
	f.platform.On("GetIdentity", mock.Anything, "delegated-token").
		Return(&discord.UserInfo{ID: testUserID, Username: "Ana", AvatarURL: "https://cdn.example/a.png"}, nil)
	f.credentials.On("Put", mock.Anything, testUserID, "delegated-token").Return(nil)
	f.platform.On("GetGuildMemberships", mock.Anything, "delegated-token").Return(testMemberships(), nil)
	// Only the guild with the administrator bit lands in the merge.
	f.permissions.On("MergeAdminGuilds", mock.Anything, testUserID, []string{adminGuildID}).Return(nil)
	f.identities.On("Upsert", mock.Anything, mock.MatchedBy(func(id *domain.Identity) bool {
		return id.ID == testUserID && id.DisplayName == "Ana"
	})).Return(nil)
	f.sessions.On("Store", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(nil)

	session, err := f.svc.HandleCallback(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, testUserID, session.UserID)
	assert.NotEmpty(t, session.TokenValue)

	f.platform.AssertExpectations(t)
	f.permissions.AssertExpectations(t)
}

func TestHandleCallback_ExchangeFailureWritesNothing(t *testing.T) {
	f := newLoginFixture(t)

	f.platform.On("ExchangeCode", mock.Anything, "bad-code").
		Return("", discord.ErrExchangeCodeFailed)

	_, err := f.svc.HandleCallback(context.Background(), "bad-code")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.UpstreamAuthFailure))
	f.credentials.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
	f.permissions.AssertNotCalled(t, "MergeAdminGuilds", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleCallback_MembershipFailureIsFatal(t *testing.T) {
	f := newLoginFixture(t)

	f.platform.On("ExchangeCode", mock.Anything, "good-code").Return("delegated-token", nil)
	f.platform.On("GetIdentity", mock.Anything, "delegated-token").
		Return(&discord.UserInfo{ID: testUserID, Username: "Ana"}, nil)
	f.credentials.On("Put", mock.Anything, testUserID, "delegated-token").Return(nil)
	f.platform.On("GetGuildMemberships", mock.Anything, "delegated-token").
		Return(nil, discord.ErrRequestFailed)

	_, err := f.svc.HandleCallback(context.Background(), "good-code")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.UpstreamAuthFailure))
	f.sessions.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
}

func TestHandleCallback_PermissionMergeFailureIsFatal(t *testing.T) {
	f := newLoginFixture(t)

	f.platform.On("ExchangeCode", mock.Anything, "good-code").Return("delegated-token", nil)
	f.platform.On("GetIdentity", mock.Anything, "delegated-token").
		Return(&discord.UserInfo{ID: testUserID, Username: "Ana"}, nil)
	f.credentials.On("Put", mock.Anything, testUserID, "delegated-token").Return(nil)
	f.platform.On("GetGuildMemberships", mock.Anything, "delegated-token").Return(testMemberships(), nil)
	f.permissions.On("MergeAdminGuilds", mock.Anything, testUserID, []string{adminGuildID}).
		Return(errors.NewPersistenceError("store down"))

	_, err := f.svc.HandleCallback(context.Background(), "good-code")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.UpstreamAuthFailure))
	f.sessions.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
}

func TestHandleCallback_IdentityUpsertFailureIsCosmetic(t *testing.T) {
	f := newLoginFixture(t)

	f.platform.On("ExchangeCode", mock.Anything, "good-code").Return("delegated-token", nil)
	f.platform.On("GetIdentity", mock.Anything, "delegated-token").
		Return(&discord.UserInfo{ID: testUserID, Username: "Ana"}, nil)
	f.credentials.On("Put", mock.Anything, testUserID, "delegated-token").Return(nil)
	f.platform.On("GetGuildMemberships", mock.Anything, "delegated-token").Return(testMemberships(), nil)
	f.permissions.On("MergeAdminGuilds", mock.Anything, testUserID, []string{adminGuildID}).Return(nil)
	f.identities.On("Upsert", mock.Anything, mock.Anything).
		Return(errors.NewPersistenceError("store down"))
	f.sessions.On("Store", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(nil)

	session, err := f.svc.HandleCallback(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, testUserID, session.UserID)
}

func TestListGuilds_MissingCredential(t *testing.T) {
	f := newLoginFixture(t)

	f.credentials.On("Get", mock.Anything, testUserID).Return("", false)

	_, err := f.svc.ListGuilds(context.Background(), testUserID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.Unauthenticated))
}

func TestListGuilds_ExpiredTokenInvalidatesCredential(t *testing.T) {
	f := newLoginFixture(t)

	f.credentials.On("Get", mock.Anything, testUserID).Return("stale-token", true)
	f.platform.On("GetGuildMemberships", mock.Anything, "stale-token").
		Return(nil, discord.ErrUnauthorized)
	f.credentials.On("Invalidate", mock.Anything, testUserID).Return(nil)

	_, err := f.svc.ListGuilds(context.Background(), testUserID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.Unauthenticated))
	f.credentials.AssertCalled(t, "Invalidate", mock.Anything, testUserID)
}

func TestListGuilds_DecoratesEntries(t *testing.T) {
	f := newLoginFixture(t)

	f.credentials.On("Get", mock.Anything, testUserID).Return("delegated-token", true)
	f.platform.On("GetGuildMemberships", mock.Anything, "delegated-token").Return(testMemberships(), nil)
	// Bot is a member of the admin guild only.
	f.platform.On("FetchGuild", mock.Anything, adminGuildID).
		Return(&discord.Guild{ID: adminGuildID, Name: "Admin Guild"}, nil)
	f.platform.On("FetchGuild", mock.Anything, plainGuildID).
		Return(nil, discord.ErrNotFound)
	f.settings.On("Get", mock.Anything, adminGuildID).
		Return(&domain.GuildSettings{GuildID: adminGuildID, IsPremium: true}, nil)
	f.settings.On("Get", mock.Anything, plainGuildID).
		Return(&domain.GuildSettings{GuildID: plainGuildID, IsPremium: false}, nil)

	guilds, err := f.svc.ListGuilds(context.Background(), testUserID)
	require.NoError(t, err)
	require.Len(t, guilds, 2)

	assert.Equal(t, adminGuildID, guilds[0].ID)
	assert.True(t, guilds[0].IsAdmin)
	assert.True(t, guilds[0].IsBotMember)
	assert.True(t, guilds[0].IsPremium)

	assert.Equal(t, plainGuildID, guilds[1].ID)
	assert.False(t, guilds[1].IsAdmin)
	assert.False(t, guilds[1].IsBotMember)
	assert.False(t, guilds[1].IsPremium)
}
