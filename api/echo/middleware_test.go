package echo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guildforms/guildforms/domain"
	"github.com/guildforms/guildforms/errors"
	"github.com/guildforms/guildforms/services"
)

// --- Mock SessionRepository ---
type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) Store(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessionRepo) GetByToken(ctx context.Context, tokenValue string) (*domain.Session, error) {
	args := m.Called(ctx, tokenValue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *mockSessionRepo) Revoke(ctx context.Context, tokenValue string) error {
	args := m.Called(ctx, tokenValue)
	return args.Error(0)
}

// --- Mock IdentityRepository ---
type mockIdentityRepo struct {
	mock.Mock
}

func (m *mockIdentityRepo) Upsert(ctx context.Context, identity *domain.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

func (m *mockIdentityRepo) GetByID(ctx context.Context, userID string) (*domain.Identity, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

// --- Mock PermissionRepository ---
type mockPermissionRepo struct {
	mock.Mock
}

func (m *mockPermissionRepo) MergeAdminGuilds(ctx context.Context, userID string, guildIDs []string) error {
	args := m.Called(ctx, userID, guildIDs)
	return args.Error(0)
}

func (m *mockPermissionRepo) IsAdmin(ctx context.Context, userID, guildID string) (bool, error) {
	args := m.Called(ctx, userID, guildID)
	return args.Bool(0), args.Error(1)
}

const (
	mwUserID  = "123456789012345678"
	mwGuildID = "210987654321098765"
)

func newGuardFixture(t *testing.T) (*API, *mockSessionRepo, *mockIdentityRepo, *mockPermissionRepo) {
	t.Helper()
	sessions := new(mockSessionRepo)
	identities := new(mockIdentityRepo)
	permissions := new(mockPermissionRepo)

	sessionService := services.NewSessionService(sessions, time.Hour)
	t.Cleanup(sessionService.Stop)

	a := &API{
		sessions:    sessionService,
		identities:  identities,
		permissions: permissions,
	}
	return a, sessions, identities, permissions
}

func activeSession(token string) *domain.Session {
	return &domain.Session{
		ID:         "s1",
		UserID:     mwUserID,
		TokenValue: token,
		ExpiresAt:  time.Now().UTC().Add(time.Hour),
	}
}

func runGuarded(a *API, req *http.Request, guildAdmin bool) (*httptest.ResponseRecorder, bool) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if guildAdmin {
		c.SetParamNames("guildId")
		c.SetParamValues(mwGuildID)
	}

	reached := false
	handler := func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	}

	var chain echo.HandlerFunc
	if guildAdmin {
		chain = a.RequireSession(a.RequireGuildAdmin(handler))
	} else {
		chain = a.RequireSession(handler)
	}
	_ = chain(c)
	return rec, reached
}

func TestRequireSession_MissingHeader(t *testing.T) {
	a, _, _, _ := newGuardFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/guilds", nil)
	rec, reached := runGuarded(a, req, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestRequireSession_MalformedHeader(t *testing.T) {
	a, _, _, _ := newGuardFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/guilds", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec, reached := runGuarded(a, req, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestRequireSession_ValidToken(t *testing.T) {
	a, sessions, identities, _ := newGuardFixture(t)

	sessions.On("GetByToken", mock.Anything, "good-token").Return(activeSession("good-token"), nil)
	identities.On("GetByID", mock.Anything, mwUserID).
		Return(&domain.Identity{ID: mwUserID, DisplayName: "Ana"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/guilds", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec, reached := runGuarded(a, req, false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestRequireGuildAdmin_Forbidden(t *testing.T) {
	a, sessions, identities, permissions := newGuardFixture(t)

	sessions.On("GetByToken", mock.Anything, "good-token").Return(activeSession("good-token"), nil)
	identities.On("GetByID", mock.Anything, mwUserID).
		Return(&domain.Identity{ID: mwUserID, DisplayName: "Ana"}, nil)
	permissions.On("IsAdmin", mock.Anything, mwUserID, mwGuildID).Return(false, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/guilds/"+mwGuildID+"/forms", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec, reached := runGuarded(a, req, true)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}

func TestRequireGuildAdmin_LookupErrorIsInternal(t *testing.T) {
	a, sessions, identities, permissions := newGuardFixture(t)

	sessions.On("GetByToken", mock.Anything, "good-token").Return(activeSession("good-token"), nil)
	identities.On("GetByID", mock.Anything, mwUserID).
		Return(&domain.Identity{ID: mwUserID}, nil)
	permissions.On("IsAdmin", mock.Anything, mwUserID, mwGuildID).
		Return(false, errors.NewPersistenceError("store down"))

	req := httptest.NewRequest(http.MethodGet, "/api/guilds/"+mwGuildID+"/forms", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec, reached := runGuarded(a, req, true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, reached)
}

func TestRequireGuildAdmin_Allowed(t *testing.T) {
	a, sessions, identities, permissions := newGuardFixture(t)

	sessions.On("GetByToken", mock.Anything, "good-token").Return(activeSession("good-token"), nil)
	identities.On("GetByID", mock.Anything, mwUserID).
		Return(&domain.Identity{ID: mwUserID, DisplayName: "Ana"}, nil)
	permissions.On("IsAdmin", mock.Anything, mwUserID, mwGuildID).Return(true, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/guilds/"+mwGuildID+"/forms", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec, reached := runGuarded(a, req, true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}
