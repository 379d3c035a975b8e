// Package discord implements the platform capability surface over the
// platform's REST API. User-delegated calls authenticate with a Bearer
// token obtained through the OAuth2 code exchange; guild mutations and
// messaging authenticate as the resident bot.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

var (
	APIBaseURL       = "https://discord.com/api/v10"
	AuthEndpointURL  = "https://discord.com/api/oauth2/authorize"
	TokenEndpointURL = "https://discord.com/api/oauth2/token"
	CDNBaseURL       = "https://cdn.discordapp.com"
)

// Config holds the OAuth2 application and bot credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	BotToken     string
	Scopes       []string
}

// RestClient implements the Platform interface against the live REST API.
type RestClient struct {
	config     Config
	httpClient *http.Client
	baseURL    string
}

// NewRestClient creates a new RestClient.
func NewRestClient(config Config) *RestClient {
	if len(config.Scopes) == 0 {
		config.Scopes = []string{"identify", "guilds"}
	}
	return &RestClient{
		config:     config,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    APIBaseURL,
	}
}

// oauth2Config builds the oauth2.Config for the code exchange.
func (c *RestClient) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.config.ClientID,
		ClientSecret: c.config.ClientSecret,
		RedirectURL:  c.config.RedirectURL,
		Scopes:       c.config.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   AuthEndpointURL,
			TokenURL:  TokenEndpointURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// AuthCodeURL returns the consent URL the user should be redirected to.
func (c *RestClient) AuthCodeURL(state string) string {
	return c.oauth2Config().AuthCodeURL(state)
}

// ExchangeCode implements Platform.ExchangeCode.
func (c *RestClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.oauth2Config().Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeCodeFailed, err)
	}
	if token.AccessToken == "" {
		return "", ErrExchangeCodeFailed
	}
	return token.AccessToken, nil
}

// GetIdentity implements Platform.GetIdentity.
func (c *RestClient) GetIdentity(ctx context.Context, accessToken string) (*UserInfo, error) {
	var user UserInfo
	if err := c.getJSON(ctx, "/users/@me", bearerAuth(accessToken), &user); err != nil {
		return nil, err
	}
	if user.Avatar != "" {
		user.AvatarURL = fmt.Sprintf("%s/avatars/%s/%s.png", CDNBaseURL, user.ID, user.Avatar)
	}
	return &user, nil
}

// GetGuildMemberships implements Platform.GetGuildMemberships.
func (c *RestClient) GetGuildMemberships(ctx context.Context, accessToken string) ([]GuildMembership, error) {
	var guilds []GuildMembership
	if err := c.getJSON(ctx, "/users/@me/guilds", bearerAuth(accessToken), &guilds); err != nil {
		return nil, err
	}
	return guilds, nil
}

// FetchGuild implements Platform.FetchGuild.
func (c *RestClient) FetchGuild(ctx context.Context, guildID string) (*Guild, error) {
	var guild Guild
	path := fmt.Sprintf("/guilds/%s", url.PathEscape(guildID))
	if err := c.getJSON(ctx, path, c.botAuth(), &guild); err != nil {
		return nil, err
	}
	return &guild, nil
}

// FetchMember implements Platform.FetchMember.
func (c *RestClient) FetchMember(ctx context.Context, guildID, userID string) (*Member, error) {
	var member Member
	path := fmt.Sprintf("/guilds/%s/members/%s", url.PathEscape(guildID), url.PathEscape(userID))
	if err := c.getJSON(ctx, path, c.botAuth(), &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// AddMemberRoles implements Platform.AddMemberRoles. The API mutates one
// role per call; the first failure aborts the remainder.
func (c *RestClient) AddMemberRoles(ctx context.Context, guildID, userID string, roleIDs []string) error {
	for _, roleID := range roleIDs {
		path := fmt.Sprintf("/guilds/%s/members/%s/roles/%s",
			url.PathEscape(guildID), url.PathEscape(userID), url.PathEscape(roleID))
		if err := c.do(ctx, http.MethodPut, path, c.botAuth(), nil, nil); err != nil {
			return fmt.Errorf("add role %s: %w", roleID, err)
		}
	}
	return nil
}

// RemoveMemberRoles implements Platform.RemoveMemberRoles.
func (c *RestClient) RemoveMemberRoles(ctx context.Context, guildID, userID string, roleIDs []string) error {
	for _, roleID := range roleIDs {
		path := fmt.Sprintf("/guilds/%s/members/%s/roles/%s",
			url.PathEscape(guildID), url.PathEscape(userID), url.PathEscape(roleID))
		if err := c.do(ctx, http.MethodDelete, path, c.botAuth(), nil, nil); err != nil {
			return fmt.Errorf("remove role %s: %w", roleID, err)
		}
	}
	return nil
}

// SendChannelMessage implements Platform.SendChannelMessage.
func (c *RestClient) SendChannelMessage(ctx context.Context, channelID, content string) error {
	path := fmt.Sprintf("/channels/%s/messages", url.PathEscape(channelID))
	payload := map[string]string{"content": content}
	return c.do(ctx, http.MethodPost, path, c.botAuth(), payload, nil)
}

// SendDirectMessage implements Platform.SendDirectMessage.
func (c *RestClient) SendDirectMessage(ctx context.Context, userID, content string) error {
	var channel struct {
		ID string `json:"id"`
	}
	payload := map[string]string{"recipient_id": userID}
	if err := c.do(ctx, http.MethodPost, "/users/@me/channels", c.botAuth(), payload, &channel); err != nil {
		return fmt.Errorf("open dm channel: %w", err)
	}
	return c.SendChannelMessage(ctx, channel.ID, content)
}

func bearerAuth(token string) string {
	return "Bearer " + token
}

func (c *RestClient) botAuth() string {
	return "Bot " + c.config.BotToken
}

func (c *RestClient) getJSON(ctx context.Context, path, authorization string, out any) error {
	return c.do(ctx, http.MethodGet, path, authorization, nil, out)
}

// do performs one API call and decodes the response into out when non-nil.
func (c *RestClient) do(ctx context.Context, method, path, authorization string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", authorization)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%w: status %d, body: %s", ErrRequestFailed, resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Ensure RestClient implements the interface.
var _ Platform = (*RestClient)(nil)
