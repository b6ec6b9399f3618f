package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pdh8788/club/auth"
	"github.com/pdh8788/club/logger"
	"github.com/pdh8788/club/member"
	"github.com/pdh8788/club/rbac"
	"github.com/pdh8788/club/session"
	"go.uber.org/zap"
)

// ContextSubject is the echo context key under which the token guard stores
// the validated token subject for downstream handlers.
const ContextSubject = "auth_subject"

const bearerPrefix = "Bearer "

// Subject returns the validated token subject threaded forward by the token
// guard, or "" when the request did not pass through it.
func Subject(c echo.Context) string {
	s, _ := c.Get(ContextSubject).(string)
	return s
}

// Principal returns the session principal resolved by the session filter, or
// nil for requests without a valid session.
func Principal(c echo.Context) *member.Principal {
	p, _ := c.Get(rbac.ContextPrincipal).(*member.Principal)
	return p
}

// matchProtected reports whether the path falls under the protected pattern.
// The pattern names a path family: it matches itself and everything below it.
func matchProtected(pattern, path string) bool {
	pattern = strings.TrimSuffix(pattern, "/")
	return path == pattern || strings.HasPrefix(path, pattern+"/")
}

// TokenCheckFilter is the token-guard stage. On a protected path it requires
// a valid bearer token and fails closed on anything else: missing header,
// wrong scheme, or a token the codec rejects all terminate the request with
// 403 and the fixed JSON body. Non-matching paths pass through uninspected.
func (h *Handler) TokenCheckFilter(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !matchProtected(h.protectedPath, c.Request().URL.Path) {
			return next(c)
		}

		authHeader := c.Request().Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			return h.failTokenCheck(c)
		}

		subject, err := h.codec.ValidateAndExtract(strings.TrimPrefix(authHeader, bearerPrefix))
		if err != nil {
			logger.Log.Info("token check failed",
				zap.String("path", c.Request().URL.Path),
				zap.Error(err),
			)
			return h.failTokenCheck(c)
		}

		c.Set(ContextSubject, subject)
		return next(c)
	}
}

// failTokenCheck writes the terminal 403 response of the token guard. All
// token failure kinds collapse into the one fixed message.
func (h *Handler) failTokenCheck(c echo.Context) error {
	return jsonBlob(c, http.StatusForbidden, "application/json;charset=utf-8", map[string]string{
		"code":    "403",
		"message": "FAIL CHECK API TOKEN",
	})
}

// APILoginFilter is the login-submission stage. It intercepts POST /api/login,
// drives the authenticator, and on success writes the issued token as the
// whole response body. No cookie or session is established on this path.
func (h *Handler) APILoginFilter(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if req.URL.Path != "/api/login" || req.Method != http.MethodPost {
			return next(c)
		}

		attempt := auth.Attempt{
			Email:  c.FormValue("email"),
			Secret: c.FormValue("pw"),
		}

		principal, err := h.authenticator.Authenticate(req.Context(), attempt)
		if err != nil {
			return h.failLogin(c, err)
		}

		tok, err := h.codec.Issue(principal.Email)
		if err != nil {
			return h.failLogin(c, err)
		}

		logger.Log.Info("api login", zap.String("email", principal.Email))
		return c.String(http.StatusOK, tok)
	}
}

// failLogin is the failure outcome handler: every authentication failure
// becomes the same 401 envelope with the underlying message. Which half of
// the credential pair was wrong is not distinguishable from the status.
func (h *Handler) failLogin(c echo.Context, err error) error {
	logger.Log.Info("login failed", zap.String("reason", err.Error()))
	return jsonBlob(c, http.StatusUnauthorized, "application/json; charset=utf-8", map[string]string{
		"code":    "401",
		"message": err.Error(),
	})
}

// SessionFilter resolves the session cookie into a principal for browser
// requests. It never rejects: routes that need a principal enforce it via
// rbac.RequireRole or their own checks.
func (h *Handler) SessionFilter(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(session.CookieName)
		if err != nil || cookie.Value == "" {
			return next(c)
		}

		ctx := c.Request().Context()
		s, err := h.sessions.Validate(ctx, cookie.Value)
		if err != nil {
			return next(c)
		}

		m, err := h.members.GetMemberByEmail(ctx, s.Email, false)
		if err != nil {
			// Social members live under the social flag.
			m, err = h.members.GetMemberByEmail(ctx, s.Email, true)
			if err != nil {
				return next(c)
			}
		}

		c.Set(rbac.ContextPrincipal, member.FromMember(m))
		return next(c)
	}
}
