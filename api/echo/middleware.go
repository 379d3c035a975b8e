package echo

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/guildforms/guildforms/domain"
	"github.com/guildforms/guildforms/errors"
)

const (
	sessionContextKey  = "auth_session"
	identityContextKey = "auth_identity"
)

// RequireSession is the identity check: it validates the caller's bearer
// session credential and places the session and the resolved identity on
// the request context. Downstream logic only sees a caller identity after
// this succeeds.
func (a *API) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if header == "" {
			return respondError(c, errors.NewUnauthenticated("missing authorization header"))
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return respondError(c, errors.NewUnauthenticated("invalid authorization header format: expected Bearer token"))
		}

		session, err := a.sessions.Validate(c.Request().Context(), parts[1])
		if err != nil {
			return respondError(c, err)
		}
		c.Set(sessionContextKey, session)

		identity, err := a.identities.GetByID(c.Request().Context(), session.UserID)
		if err != nil {
			// The session is valid even when the display record is missing;
			// fall back to a bare identity.
			identity = &domain.Identity{ID: session.UserID}
		}
		c.Set(identityContextKey, identity)

		return next(c)
	}
}

// RequireGuildAdmin is the guild-admin check. It runs after RequireSession
// (it needs the resolved user id), requires a guild id on the request path,
// and consults the permission cache.
func (a *API) RequireGuildAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity := CallerIdentity(c)
		if identity == nil {
			return respondError(c, errors.NewUnauthenticated("no authenticated caller"))
		}

		guildID := c.Param("guildId")
		if guildID == "" {
			return respondError(c, errors.NewBadRequest("guild id is required"))
		}

		isAdmin, err := a.permissions.IsAdmin(c.Request().Context(), identity.ID, guildID)
		if err != nil {
			return respondError(c, errors.NewInternal("could not verify guild permissions"))
		}
		if !isAdmin {
			return respondError(c, errors.NewForbidden("administrator permission required for this guild"))
		}

		return next(c)
	}
}

// CallerIdentity returns the identity resolved by RequireSession, or nil.
func CallerIdentity(c echo.Context) *domain.Identity {
	identity, _ := c.Get(identityContextKey).(*domain.Identity)
	return identity
}
