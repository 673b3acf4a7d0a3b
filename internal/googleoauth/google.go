// Package googleoauth is the bridge to Google's identity provider. It turns
// either an authorization code (browser flow) or an ID token (mobile flow)
// into a verified profile claim set. The auth service consumes the resolved
// Profile without caring which entry path produced it.
package googleoauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/garotinhosDePrograma/mylinks-api/internal/config"
)

const (
	userinfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
	tokeninfoURL = "https://oauth2.googleapis.com/tokeninfo"
)

var (
	// ErrInvalidCode means the authorization code exchange was rejected.
	ErrInvalidCode = errors.New("googleoauth: invalid authorization code")

	// ErrInvalidIDToken means the ID token failed verification or was
	// issued for a different OAuth client.
	ErrInvalidIDToken = errors.New("googleoauth: invalid id token")
)

// Profile is the resolved claim set consumed by the auth service.
type Profile struct {
	// Subject is Google's stable account identifier.
	Subject string

	// Email is the account email. May be empty when the account hides it;
	// the auth service rejects that case.
	Email string

	// Name is the display name claim, used to derive a username.
	Name string

	// Picture is the avatar URL claim, stored as the profile photo
	// reference when present.
	Picture string
}

// Client talks to Google's OAuth endpoints. Safe for concurrent use.
type Client struct {
	conf       *oauth2.Config
	clientID   string
	httpClient *http.Client

	// Endpoint overrides for tests.
	userinfoEndpoint  string
	tokeninfoEndpoint string
}

// New creates a Client from the loaded Google config.
func New(cfg config.GoogleConfig) *Client {
	return &Client{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		clientID:          cfg.ClientID,
		httpClient:        &http.Client{Timeout: 10 * time.Second},
		userinfoEndpoint:  userinfoURL,
		tokeninfoEndpoint: tokeninfoURL,
	}
}

// AuthURL builds the Google authorization URL carrying the given CSRF state.
// prompt=select_account forces the account chooser even for a single
// signed-in account, matching the web client's expectations.
func (c *Client) AuthURL(state string) string {
	return c.conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// ResolveCode exchanges an authorization code for tokens and fetches the
// userinfo profile. Exchange rejections surface as ErrInvalidCode; transport
// failures are returned as-is for the caller to treat as a dependency error.
func (c *Client) ResolveCode(ctx context.Context, code string) (*Profile, error) {
	tok, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return nil, ErrInvalidCode
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userinfoEndpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding google userinfo: %w", err)
	}

	return &Profile{
		Subject: info.ID,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}

// VerifyIDToken verifies an ID token obtained by a mobile client via the
// tokeninfo endpoint and checks the audience matches our OAuth client.
func (c *Client) VerifyIDToken(ctx context.Context, idToken string) (*Profile, error) {
	endpoint := c.tokeninfoEndpoint + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verifying google id token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidIDToken
	}

	var info struct {
		Aud     string `json:"aud"`
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding google tokeninfo: %w", err)
	}

	// A token minted for another client must not log users in here.
	if info.Aud != c.clientID {
		return nil, ErrInvalidIDToken
	}

	return &Profile{
		Subject: info.Sub,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
