//nolint:varnamelen
package echo

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/guildforms/guildforms/domain"
	"github.com/guildforms/guildforms/errors"
	"github.com/guildforms/guildforms/internal/discord"
	"github.com/guildforms/guildforms/services"
)

// API struct to hold dependencies.
type API struct {
	login        *services.LoginService
	sessions     *services.SessionService
	applications *services.ApplicationService
	entitlements *services.EntitlementService
	forms        domain.FormRepository
	identities   domain.IdentityRepository
	permissions  domain.PermissionRepository
	platform     *discord.RestClient
	frontendURL  string
}

// NewAPI initializes the HTTP API.
func NewAPI(
	login *services.LoginService,
	sessions *services.SessionService,
	applications *services.ApplicationService,
	entitlements *services.EntitlementService,
	forms domain.FormRepository,
	identities domain.IdentityRepository,
	permissions domain.PermissionRepository,
	platform *discord.RestClient,
	frontendURL string,
) *API {
	return &API{
		login:        login,
		sessions:     sessions,
		applications: applications,
		entitlements: entitlements,
		forms:        forms,
		identities:   identities,
		permissions:  permissions,
		platform:     platform,
		frontendURL:  frontendURL,
	}
}

// RegisterRoutes registers all routes. Identity-gated routes sit behind
// RequireSession; privileged ones additionally behind RequireGuildAdmin.
func (a *API) RegisterRoutes(e *echo.Echo) {
	e.GET("/auth/login", a.LoginRedirectHandler)
	e.GET("/auth/callback", a.CallbackHandler)

	api := e.Group("/api", a.RequireSession)
	api.POST("/auth/logout", a.LogoutHandler)
	api.GET("/guilds", a.ListGuildsHandler)
	api.GET("/forms/:formId", a.GetFormHandler)
	api.POST("/guilds/:guildId/forms/:formId/applications", a.SubmitApplicationHandler)

	admin := api.Group("/guilds/:guildId", a.RequireGuildAdmin)
	admin.GET("/forms", a.ListFormsHandler)
	admin.POST("/forms", a.CreateFormHandler)
	admin.PUT("/forms/:formId", a.UpdateFormHandler)
	admin.DELETE("/forms/:formId", a.DeleteFormHandler)
	admin.GET("/applications", a.ListApplicationsHandler)
	admin.POST("/applications/:appId/decide", a.DecideApplicationHandler)
	admin.GET("/premium", a.GetPremiumHandler)
	admin.PUT("/premium", a.SetPremiumHandler)
}

// respondError maps a service error to its HTTP status with the standard
// error body.
func respondError(c echo.Context, err error) error {
	var body *errors.Error
	if e, ok := err.(*errors.Error); ok {
		body = e
	} else {
		body = errors.NewInternal("internal server error")
	}
	return c.JSON(errors.HTTPStatus(err), body)
}

// LoginRedirectHandler sends the user to the platform's consent screen.
func (a *API) LoginRedirectHandler(c echo.Context) error {
	return c.Redirect(http.StatusFound, a.platform.AuthCodeURL(uuid.NewString()))
}

// CallbackHandler finishes the federated login flow. Consent errors and
// flow failures are user-visible: they redirect back to the frontend login
// page with an error description, never a bare 5xx.
func (a *API) CallbackHandler(c echo.Context) error {
	if errCode := c.QueryParam("error"); errCode != "" {
		description := c.QueryParam("error_description")
		if description == "" {
			description = errCode
		}
		log.Warn().Str("error", errCode).Str("description", description).Msg("Consent redirect returned an error")
		return a.redirectLoginError(c, description)
	}

	code := c.QueryParam("code")
	if code == "" {
		return a.redirectLoginError(c, "no authorization code received")
	}

	session, err := a.login.HandleCallback(c.Request().Context(), code)
	if err != nil {
		log.Error().Err(err).Msg("Federated login flow failed")
		return a.redirectLoginError(c, "authentication failed")
	}

	return c.Redirect(http.StatusFound,
		fmt.Sprintf("%s/login?token=%s", a.frontendURL, url.QueryEscape(session.TokenValue)))
}

func (a *API) redirectLoginError(c echo.Context, description string) error {
	return c.Redirect(http.StatusFound,
		fmt.Sprintf("%s/login?error=%s", a.frontendURL, url.QueryEscape(description)))
}

// LogoutHandler revokes the caller's session. The token value comes from
// the session RequireSession already validated.
func (a *API) LogoutHandler(c echo.Context) error {
	session, _ := c.Get(sessionContextKey).(*domain.Session)
	if session == nil {
		return respondError(c, errors.NewUnauthenticated("no active session"))
	}
	if err := a.sessions.Revoke(c.Request().Context(), session.TokenValue); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListGuildsHandler returns the caller's guilds decorated with admin, bot
// and premium bits.
func (a *API) ListGuildsHandler(c echo.Context) error {
	identity := CallerIdentity(c)

	guilds, err := a.login.ListGuilds(c.Request().Context(), identity.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, guilds)
}

// GetFormHandler returns a single form for the submission UI.
func (a *API) GetFormHandler(c echo.Context) error {
	form, err := a.forms.GetByID(c.Request().Context(), c.Param("formId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, form)
}

// ListFormsHandler lists a guild's forms.
func (a *API) ListFormsHandler(c echo.Context) error {
	forms, err := a.forms.ListByGuild(c.Request().Context(), c.Param("guildId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, forms)
}

// CreateFormHandler creates a form for the guild. The id is server
// assigned and immutable from then on.
func (a *API) CreateFormHandler(c echo.Context) error {
	var form domain.Form
	if err := c.Bind(&form); err != nil {
		return respondError(c, errors.NewBadRequest("malformed form payload"))
	}
	if form.Title == "" {
		return respondError(c, errors.NewBadRequest("form title is required"))
	}

	form.ID = uuid.NewString()
	form.GuildID = c.Param("guildId")

	if err := a.forms.Create(c.Request().Context(), &form); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, form)
}

// UpdateFormHandler replaces a form's editable fields.
func (a *API) UpdateFormHandler(c echo.Context) error {
	var form domain.Form
	if err := c.Bind(&form); err != nil {
		return respondError(c, errors.NewBadRequest("malformed form payload"))
	}

	// Identity is taken from the path, not the payload.
	form.ID = c.Param("formId")
	form.GuildID = c.Param("guildId")

	if err := a.forms.Update(c.Request().Context(), &form); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, form)
}

// DeleteFormHandler removes a form.
func (a *API) DeleteFormHandler(c echo.Context) error {
	if err := a.forms.Delete(c.Request().Context(), c.Param("guildId"), c.Param("formId")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type submitApplicationRequest struct {
	Answers []domain.Answer `json:"answers"`
}

// SubmitApplicationHandler files a new application by the authenticated
// caller against a guild form.
func (a *API) SubmitApplicationHandler(c echo.Context) error {
	identity := CallerIdentity(c)

	var req submitApplicationRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errors.NewBadRequest("malformed submission payload"))
	}

	submitter := domain.Submitter{
		UserID:      identity.ID,
		DisplayName: identity.DisplayName,
		AvatarURL:   identity.AvatarURL,
	}

	app, err := a.applications.Submit(c.Request().Context(),
		c.Param("guildId"), c.Param("formId"), submitter, req.Answers)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, app)
}

// ListApplicationsHandler lists a guild's applications, optionally filtered
// by form id and status query params.
func (a *API) ListApplicationsHandler(c echo.Context) error {
	filter := domain.ApplicationFilter{
		FormID: c.QueryParam("formId"),
		Status: domain.ApplicationStatus(c.QueryParam("status")),
	}

	apps, err := a.applications.List(c.Request().Context(), c.Param("guildId"), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, apps)
}

type decideApplicationRequest struct {
	Outcome           string `json:"outcome"`
	SendDirectMessage bool   `json:"sendDirectMessage"`
}

// DecideApplicationHandler applies an accept/reject decision and returns
// the aggregate result of the transition and its side effects.
func (a *API) DecideApplicationHandler(c echo.Context) error {
	identity := CallerIdentity(c)

	var req decideApplicationRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errors.NewBadRequest("malformed decision payload"))
	}

	result, err := a.applications.Decide(c.Request().Context(),
		c.Param("guildId"), c.Param("appId"),
		domain.ApplicationStatus(req.Outcome),
		identity.ID, identity.DisplayName,
		req.SendDirectMessage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetPremiumHandler returns the guild's premium flag.
func (a *API) GetPremiumHandler(c echo.Context) error {
	premium, err := a.entitlements.IsPremium(c.Request().Context(), c.Param("guildId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"isPremium": premium})
}

type setPremiumRequest struct {
	IsPremium bool `json:"isPremium"`
}

// SetPremiumHandler writes the guild's premium flag.
func (a *API) SetPremiumHandler(c echo.Context) error {
	var req setPremiumRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errors.NewBadRequest("malformed premium payload"))
	}

	if err := a.entitlements.SetPremium(c.Request().Context(), c.Param("guildId"), req.IsPremium); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"isPremium": req.IsPremium})
}
