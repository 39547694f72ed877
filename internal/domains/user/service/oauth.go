package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"productstore-backend/internal/config"
	"productstore-backend/internal/domains/user"
	"productstore-backend/pkg/logger"
)

// OAuthProviders holds the configured social login providers.
// A provider with an empty ClientID is left out of the map.
type OAuthProviders struct {
	configs map[string]*oauth2.Config
}

func NewOAuthProviders(cfg config.OAuthConfig) *OAuthProviders {
	p := &OAuthProviders{configs: make(map[string]*oauth2.Config)}

	if cfg.Google.ClientID != "" {
		p.configs[user.ProviderGoogle.String()] = &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		}
	}

	if cfg.GitHub.ClientID != "" {
		p.configs[user.ProviderGitHub.String()] = &oauth2.Config{
			ClientID:     cfg.GitHub.ClientID,
			ClientSecret: cfg.GitHub.ClientSecret,
			RedirectURL:  cfg.GitHub.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		}
	}

	if len(p.configs) == 0 {
		logger.Warn("no OAuth provider configured, social login disabled", nil)
	}

	return p
}

func (p *OAuthProviders) get(provider string) (*oauth2.Config, error) {
	if provider != user.ProviderGoogle.String() && provider != user.ProviderGitHub.String() {
		return nil, user.ErrUnsupportedProvider
	}
	cfg, ok := p.configs[provider]
	if !ok {
		return nil, user.ErrOAuthNotConfigured
	}
	return cfg, nil
}

// OAuthRedirectURL returns the provider consent page URL
func (s *userService) OAuthRedirectURL(provider string, state string) (string, error) {
	cfg, err := s.oauth.get(provider)
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(state), nil
}

// CompleteOAuth exchanges the callback code, resolves the remote identity,
// upserts the local account and activates a session.
func (s *userService) CompleteOAuth(ctx context.Context, provider string, code string) (*user.LoginResponse, error) {
	cfg, err := s.oauth.get(provider)
	if err != nil {
		return nil, err
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		logger.Error("oauth code exchange failed", err)
		return nil, user.ErrOAuthExchangeFailed
	}

	client := cfg.Client(ctx, token)

	var email, fullName string
	switch provider {
	case user.ProviderGoogle.String():
		email, fullName, err = fetchGoogleIdentity(client)
	case user.ProviderGitHub.String():
		email, fullName, err = fetchGitHubIdentity(client)
	}
	if err != nil {
		logger.Error("oauth userinfo fetch failed", err)
		return nil, user.ErrOAuthExchangeFailed
	}

	u, err := s.repo.UpsertOAuthUser(ctx, email, fullName, user.Provider(provider))
	if err != nil {
		return nil, fmt.Errorf("upsert oauth user: %w", err)
	}

	// activateSession publishes the sign-in on the session cache channel,
	// which is how the rest of the app learns the redirect completed.
	return s.activateSession(ctx, u)
}

func fetchGoogleIdentity(client *http.Client) (email, fullName string, err error) {
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", "", err
	}
	if info.Email == "" {
		return "", "", fmt.Errorf("google userinfo has no email")
	}
	if info.Name == "" {
		info.Name = info.Email
	}
	return info.Email, info.Name, nil
}

func fetchGitHubIdentity(client *http.Client) (email, fullName string, err error) {
	resp, err := client.Get("https://api.github.com/user")
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	var info struct {
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", "", err
	}

	if info.Email == "" {
		// Private email: ask the emails endpoint for the primary address
		info.Email, err = fetchGitHubPrimaryEmail(client)
		if err != nil {
			return "", "", err
		}
	}
	if info.Name == "" {
		info.Name = info.Login
	}
	return info.Email, info.Name, nil
}

func fetchGitHubPrimaryEmail(client *http.Client) (string, error) {
	resp, err := client.Get("https://api.github.com/user/emails")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var emails []struct {
		Email   string `json:"email"`
		Primary bool   `json:"primary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary {
			return e.Email, nil
		}
	}
	if len(emails) > 0 {
		return emails[0].Email, nil
	}
	return "", fmt.Errorf("github account has no email")
}
