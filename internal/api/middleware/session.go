package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/memberhub/portal/internal/core/domain"
)

// SessionCookieName carries the signed session token between requests.
const SessionCookieName = "portal_session"

// claimsKey is the echo context key the guard stores decoded claims under.
const claimsKey = "session_claims"

// SignInPath is where unauthenticated requests to protected paths are sent.
const SignInPath = "/signin"

// TokenValidator verifies a session token and returns its claims.
type TokenValidator interface {
	Validate(token string) (*domain.SessionClaims, error)
}

// Session is the access guard. It extracts the session token from the cookie
// or bearer header and validates it. A valid token puts the decoded claims on
// the request context. An invalid or absent token on a protected path prefix
// redirects to the sign-in page; everywhere else the request passes through
// anonymously.
func Session(sessions TokenValidator, protectedPrefixes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := extractToken(c); token != "" {
				if claims, err := sessions.Validate(token); err == nil {
					c.Set(claimsKey, claims)
					return next(c)
				}
			}

			if isProtected(c.Request().URL.Path, protectedPrefixes) {
				return c.Redirect(http.StatusFound, SignInPath)
			}
			return next(c)
		}
	}
}

// Claims returns the decoded session claims the guard attached, or nil for an
// anonymous request.
func Claims(c echo.Context) *domain.SessionClaims {
	claims, _ := c.Get(claimsKey).(*domain.SessionClaims)
	return claims
}

func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

func isProtected(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
