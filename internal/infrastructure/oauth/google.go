package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/greenpath/platform/internal/core/ports"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// GoogleConfig holds the OAuth client registration.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Google implements ports.OAuthConnector for Google sign-in.
type Google struct {
	cfg         *oauth2.Config
	userInfoURL string
}

func NewGoogle(cfg GoogleConfig) *Google {
	return &Google{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoints.Google,
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (g *Google) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// Exchange trades the authorization code for a token and reads the
// account's subject and verified email.
func (g *Google) Exchange(ctx context.Context, code string) (*ports.ExternalAccount, error) {
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo: unexpected status %d", resp.StatusCode)
	}
	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("userinfo decode: %w", err)
	}
	if info.Sub == "" || info.Email == "" {
		return nil, errors.New("userinfo: missing subject or email")
	}
	if !info.EmailVerified {
		return nil, errors.New("userinfo: email not verified")
	}
	return &ports.ExternalAccount{Subject: info.Sub, Email: info.Email}, nil
}
