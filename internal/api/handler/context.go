package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/memberhub/portal/internal/api/middleware"
	"github.com/memberhub/portal/internal/core/domain"
)

// ctxClaims extracts the session claims injected by the access guard and
// fast-fails when they are missing: the guard redirects browsers away from
// protected paths, so a missing claim set here means the route was wired
// outside the guard.
func ctxClaims(c echo.Context) (*domain.SessionClaims, error) {
	claims := middleware.Claims(c)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return claims, nil
}
