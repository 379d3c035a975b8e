package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/guildforms/guildforms/domain"
	"github.com/guildforms/guildforms/internal/discord"
)

// --- Mock FormRepository ---
type MockFormRepository struct {
	mock.Mock
}

func (m *MockFormRepository) Create(ctx context.Context, form *domain.Form) error {
	args := m.Called(ctx, form)
	return args.Error(0)
}

func (m *MockFormRepository) Update(ctx context.Context, form *domain.Form) error {
	args := m.Called(ctx, form)
	return args.Error(0)
}

func (m *MockFormRepository) Delete(ctx context.Context, guildID, formID string) error {
	args := m.Called(ctx, guildID, formID)
	return args.Error(0)
}

func (m *MockFormRepository) GetByID(ctx context.Context, formID string) (*domain.Form, error) {
	args := m.Called(ctx, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Form), args.Error(1)
}

func (m *MockFormRepository) ListByGuild(ctx context.Context, guildID string) ([]*domain.Form, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Form), args.Error(1)
}

// --- Mock ApplicationRepository ---
type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *MockApplicationRepository) GetByID(ctx context.Context, guildID, appID string) (*domain.Application, error) {
	args := m.Called(ctx, guildID, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepository) ListByGuild(ctx context.Context, guildID string, filter domain.ApplicationFilter) ([]*domain.Application, error) {
	args := m.Called(ctx, guildID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Application), args.Error(1)
}

func (m *MockApplicationRepository) Decide(ctx context.Context, guildID, appID string, status domain.ApplicationStatus, reviewerID, reviewerName string, decidedAt time.Time) (*domain.Application, error) {
	args := m.Called(ctx, guildID, appID, status, reviewerID, reviewerName, decidedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

// --- Mock PermissionRepository ---
type MockPermissionRepository struct {
	mock.Mock
}

func (m *MockPermissionRepository) MergeAdminGuilds(ctx context.Context, userID string, guildIDs []string) error {
	args := m.Called(ctx, userID, guildIDs)
	return args.Error(0)
}

func (m *MockPermissionRepository) IsAdmin(ctx context.Context, userID, guildID string) (bool, error) {
	args := m.Called(ctx, userID, guildID)
	return args.Bool(0), args.Error(1)
}

// --- Mock IdentityRepository ---
type MockIdentityRepository struct {
	mock.Mock
}

func (m *MockIdentityRepository) Upsert(ctx context.Context, identity *domain.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

func (m *MockIdentityRepository) GetByID(ctx context.Context, userID string) (*domain.Identity, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

// --- Mock GuildSettingsRepository ---
type MockGuildSettingsRepository struct {
	mock.Mock
}

func (m *MockGuildSettingsRepository) Get(ctx context.Context, guildID string) (*domain.GuildSettings, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GuildSettings), args.Error(1)
}

func (m *MockGuildSettingsRepository) SetPremium(ctx context.Context, guildID string, premium bool) error {
	args := m.Called(ctx, guildID, premium)
	return args.Error(0)
}

// --- Mock SessionRepository ---
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Store(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByToken(ctx context.Context, tokenValue string) (*domain.Session, error) {
	args := m.Called(ctx, tokenValue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) Revoke(ctx context.Context, tokenValue string) error {
	args := m.Called(ctx, tokenValue)
	return args.Error(0)
}

// --- Mock Platform ---
type MockPlatform struct {
	mock.Mock
}

func (m *MockPlatform) ExchangeCode(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *MockPlatform) GetIdentity(ctx context.Context, accessToken string) (*discord.UserInfo, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discord.UserInfo), args.Error(1)
}

func (m *MockPlatform) GetGuildMemberships(ctx context.Context, accessToken string) ([]discord.GuildMembership, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]discord.GuildMembership), args.Error(1)
}

func (m *MockPlatform) FetchGuild(ctx context.Context, guildID string) (*discord.Guild, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discord.Guild), args.Error(1)
}

func (m *MockPlatform) FetchMember(ctx context.Context, guildID, userID string) (*discord.Member, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discord.Member), args.Error(1)
}

func (m *MockPlatform) AddMemberRoles(ctx context.Context, guildID, userID string, roleIDs []string) error {
	args := m.Called(ctx, guildID, userID, roleIDs)
	return args.Error(0)
}

func (m *MockPlatform) RemoveMemberRoles(ctx context.Context, guildID, userID string, roleIDs []string) error {
	args := m.Called(ctx, guildID, userID, roleIDs)
	return args.Error(0)
}

func (m *MockPlatform) SendChannelMessage(ctx context.Context, channelID, content string) error {
	args := m.Called(ctx, channelID, content)
	return args.Error(0)
}

func (m *MockPlatform) SendDirectMessage(ctx context.Context, userID, content string) error {
	args := m.Called(ctx, userID, content)
	return args.Error(0)
}

// --- Mock CredentialStore ---
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) Put(ctx context.Context, userID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func (m *MockCredentialStore) Get(ctx context.Context, userID string) (string, bool) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Bool(1)
}

func (m *MockCredentialStore) Invalidate(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
