package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pdh8788/club/auth"
	"github.com/pdh8788/club/logger"
	"github.com/pdh8788/club/member"
	"github.com/pdh8788/club/session"
	"go.uber.org/zap"
)

// HandleFormLogin is the browser login path. It shares the authenticator with
// the API path but establishes a cookie session instead of issuing a token.
func (h *Handler) HandleFormLogin(c echo.Context) error {
	attempt := auth.Attempt{
		Email:  c.FormValue("email"),
		Secret: c.FormValue("pw"),
	}

	principal, err := h.authenticator.Authenticate(c.Request().Context(), attempt)
	if err != nil {
		return h.failLogin(c, err)
	}

	if err := h.establishSession(c, principal.Email); err != nil {
		return err
	}

	if redirected, err := h.loginSuccess(c, principal); redirected || err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"email": principal.Email,
		"name":  principal.Name,
	})
}

// HandleLogout destroys the browser session, if any.
func (h *Handler) HandleLogout(c echo.Context) error {
	if cookie, err := c.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(c.Request().Context(), cookie.Value); err != nil {
			logger.Log.Warn("session delete failed", zap.Error(err))
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.String(http.StatusOK, "logged out")
}

// establishSession persists a session for the member and writes the cookie.
func (h *Handler) establishSession(c echo.Context, email string) error {
	s, err := h.sessions.Create(c.Request().Context(), email)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    s.ID,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
	})
	return nil
}

// loginSuccess is the success outcome handler for the form/social path. A
// member who came from a social provider and still carries the placeholder
// password is redirected to complete their account; anyone else proceeds.
func (h *Handler) loginSuccess(c echo.Context, p *member.Principal) (bool, error) {
	if !p.FromSocial {
		return false, nil
	}
	if !h.hasher.Compare(auth.PlaceholderPassword, p.Password) {
		return false, nil
	}
	logger.Log.Info("social member with placeholder password, redirecting",
		zap.String("email", p.Email),
	)
	return true, c.Redirect(http.StatusFound, "/member/modify?from=social")
}
