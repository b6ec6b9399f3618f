// Package rbac provides the authorization check applied at the routing layer.
// Roles are carried on the Principal, so the check is a pure function; there
// is no reflective or annotation-driven dispatch.
package rbac

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pdh8788/club/member"
)

// ContextPrincipal is the echo context key under which the session middleware
// stores the resolved *member.Principal.
const ContextPrincipal = "principal"

// HasRole reports whether the principal carries the required role. A nil
// principal never qualifies.
func HasRole(p *member.Principal, role string) bool {
	if p == nil {
		return false
	}
	return p.HasRole(role)
}

// RequireRole returns an echo middleware that rejects requests whose session
// principal lacks the role: 401 without a principal, 403 without the role.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, _ := c.Get(ContextPrincipal).(*member.Principal)
			if p == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			if !HasRole(p, role) {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden: missing required role")
			}
			return next(c)
		}
	}
}
