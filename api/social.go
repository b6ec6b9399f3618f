package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pdh8788/club/config"
	"github.com/pdh8788/club/logger"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const stateCookie = "CLUBOAUTHSTATE"

// OIDCManager holds the configured social-login providers.
type OIDCManager struct {
	providers map[string]*providerData
}

type providerData struct {
	provider    *oidc.Provider
	oauthConfig *oauth2.Config
}

// NewOIDCManager performs provider discovery for every configured provider.
// Discovery happens once at startup; the provider set is read-only afterwards.
func NewOIDCManager(ctx context.Context, configs map[string]config.OIDCProvider) (*OIDCManager, error) {
	providers := make(map[string]*providerData)

	for name, cfg := range configs {
		provider, err := oidc.NewProvider(ctx, cfg.Issuer)
		if err != nil {
			return nil, fmt.Errorf("failed to get provider %s: %w", name, err)
		}

		providers[name] = &providerData{
			provider: provider,
			oauthConfig: &oauth2.Config{
				ClientID:     cfg.ClientID,
				ClientSecret: cfg.ClientSecret,
				Endpoint:     provider.Endpoint(),
				RedirectURL:  cfg.RedirectURL,
				Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			},
		}
	}

	return &OIDCManager{providers: providers}, nil
}

func (m *OIDCManager) get(name string) (*providerData, error) {
	if m == nil {
		return nil, errors.New("social login not configured")
	}
	p, ok := m.providers[name]
	if !ok {
		return nil, errors.New("provider not found")
	}
	return p, nil
}

// HandleSocialAuth starts the provider redirect flow.
func (h *Handler) HandleSocialAuth(c echo.Context) error {
	p, err := h.oidc.get(c.Param("provider"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	state := uuid.New().String()
	c.SetCookie(&http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
	})
	return c.Redirect(http.StatusFound, p.oauthConfig.AuthCodeURL(state))
}

// HandleSocialCallback finishes the flow: code exchange, ID-token
// verification, identity reconciliation, session establishment, then the
// success outcome handler.
func (h *Handler) HandleSocialCallback(c echo.Context) error {
	providerName := c.Param("provider")
	p, err := h.oidc.get(providerName)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cookie, err := c.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != c.QueryParam("state") {
		return echo.NewHTTPError(http.StatusBadRequest, "state mismatch")
	}

	ctx := c.Request().Context()
	tok, err := p.oauthConfig.Exchange(ctx, c.QueryParam("code"))
	if err != nil {
		return h.failLogin(c, fmt.Errorf("failed to exchange token: %w", err))
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok {
		return h.failLogin(c, errors.New("no id_token in token response"))
	}

	verifier := p.provider.Verifier(&oidc.Config{ClientID: p.oauthConfig.ClientID})
	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return h.failLogin(c, fmt.Errorf("failed to verify id token: %w", err))
	}

	var claims map[string]any
	if err := idToken.Claims(&claims); err != nil {
		return h.failLogin(c, fmt.Errorf("failed to parse claims: %w", err))
	}

	principal, err := h.social.FromSocialLogin(ctx, providerName, claims)
	if err != nil {
		return h.failLogin(c, err)
	}

	if err := h.establishSession(c, principal.Email); err != nil {
		return err
	}

	logger.Log.Info("social login",
		zap.String("provider", providerName),
		zap.String("email", principal.Email),
	)

	if redirected, err := h.loginSuccess(c, principal); redirected || err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/")
}
