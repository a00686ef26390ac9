// Package oauth integrates the Google OAuth 2.0 authorization-code flow.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// Profile is the identity the provider vouches for after a code exchange.
type Profile struct {
	ID          string
	Email       string
	GivenName   string
	FamilyName  string
	DisplayName string
}

type GoogleProvider struct {
	cfg         oauth2.Config
	userInfoURL string
}

func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		cfg: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: defaultUserInfoURL,
	}
}

// LoginURL builds the consent-screen URL carrying the CSRF state.
func (p *GoogleProvider) LoginURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

// Exchange swaps the authorization code for tokens and fetches the user's
// profile from the userinfo endpoint.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	resp, err := p.cfg.Client(ctx, token).Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info endpoint responded %d", resp.StatusCode)
	}

	var info struct {
		Sub        string `json:"sub"`
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Name       string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}

	return &Profile{
		ID:          info.Sub,
		Email:       info.Email,
		GivenName:   info.GivenName,
		FamilyName:  info.FamilyName,
		DisplayName: info.Name,
	}, nil
}
