// Package providers talks to the external identity providers: OAuth
// authorization-code exchange plus userinfo, and phone one-time-code
// assertion verification.
package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"peoplehub/internal/identity/models"
	"peoplehub/internal/platform/config"
	dErrors "peoplehub/pkg/domain-errors"
	"peoplehub/pkg/email"
)

// OAuthProvider exchanges an authorization code for the caller's identity.
type OAuthProvider struct {
	cfg        config.OAuthConfig
	httpClient *http.Client
}

func NewOAuthProvider(cfg config.OAuthConfig, httpClient *http.Client) *OAuthProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &OAuthProvider{cfg: cfg, httpClient: httpClient}
}

func (p *OAuthProvider) Name() string { return p.cfg.ProviderName }

// Identify runs the code exchange and userinfo fetch. Provider rejections
// surface as unauthorized; transport failures as internal errors.
func (p *OAuthProvider) Identify(ctx context.Context, code, redirectURI string) (models.OAuthIdentity, error) {
	accessToken, err := p.exchangeCode(ctx, code, redirectURI)
	if err != nil {
		return models.OAuthIdentity{}, err
	}
	return p.fetchUserInfo(ctx, accessToken)
}

func (p *OAuthProvider) exchangeCode(ctx context.Context, code, redirectURI string) (string, error) {
	if redirectURI == "" {
		redirectURI = p.cfg.RedirectURI
	}
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)
	form.Set("client_id", p.cfg.ClientID)
	form.Set("client_secret", p.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to build token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "token exchange request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", dErrors.New(dErrors.CodeUnauthorized, "oauth code was rejected")
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnauthorized, "malformed token response")
	}
	if payload.AccessToken == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "token response missing access token")
	}
	return payload.AccessToken, nil
}

func (p *OAuthProvider) fetchUserInfo(ctx context.Context, accessToken string) (models.OAuthIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.UserInfoURL, nil)
	if err != nil {
		return models.OAuthIdentity{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build userinfo request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return models.OAuthIdentity{}, dErrors.Wrap(err, dErrors.CodeInternal, "userinfo request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.OAuthIdentity{}, dErrors.New(dErrors.CodeUnauthorized, "userinfo request was rejected")
	}

	var payload struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified *bool  `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.OAuthIdentity{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "malformed userinfo response")
	}
	if payload.Sub == "" || payload.Email == "" {
		return models.OAuthIdentity{}, dErrors.New(dErrors.CodeUnauthorized, "userinfo missing subject or email")
	}
	if payload.EmailVerified != nil && !*payload.EmailVerified {
		return models.OAuthIdentity{}, dErrors.New(dErrors.CodeUnauthorized, "provider email is not verified")
	}

	return models.OAuthIdentity{
		Email:     email.Normalize(payload.Email),
		Subject:   payload.Sub,
		Name:      strings.TrimSpace(payload.Name),
		AvatarURL: payload.Picture,
	}, nil
}

// ErrUnknownProvider is returned by Registry.Get for unconfigured providers.
var ErrUnknownProvider = errors.New("unknown oauth provider")

// Registry holds the configured OAuth providers by name.
type Registry struct {
	providers map[string]*OAuthProvider
}

func NewRegistry(providers ...*OAuthProvider) *Registry {
	r := &Registry{providers: make(map[string]*OAuthProvider, len(providers))}
	for _, p := range providers {
		if p != nil && p.cfg.ClientID != "" {
			r.providers[strings.ToLower(p.Name())] = p
		}
	}
	return r
}

func (r *Registry) Get(name string) (*OAuthProvider, error) {
	p, ok := r.providers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}

// Identify exchanges code with the named provider. An unconfigured provider
// is reported as not found.
func (r *Registry) Identify(ctx context.Context, name, code, redirectURI string) (models.OAuthIdentity, error) {
	p, err := r.Get(name)
	if err != nil {
		return models.OAuthIdentity{}, dErrors.Wrap(err, dErrors.CodeNotFound, "oauth provider is not configured")
	}
	return p.Identify(ctx, code, redirectURI)
}
