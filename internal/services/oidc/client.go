package oidc

import (
	"context"
	"strings"

	"golang.org/x/oauth2"
)

// Config is the provider configuration, supplied through the environment.
type Config struct {
	Issuer       string
	JWKSURL      string
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Enabled reports whether token verification is configured at all. Without
// an issuer the API runs open, which is the single-user default.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Issuer) != ""
}

// Client wraps the OAuth2 authorization-code flow for the provider.
type Client struct {
	config *oauth2.Config
}

// NewClient creates an OAuth2 client from the provider config.
func NewClient(cfg Config) *Client {
	return &Client{config: &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.Issuer + "/oauth2/authorize",
			TokenURL: cfg.Issuer + "/oauth2/token",
		},
	}}
}

// ExchangeCode exchanges an authorization code for tokens.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return c.config.Exchange(ctx, code)
}

// AuthCodeURL returns the authorization URL for the given state.
func (c *Client) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state)
}
