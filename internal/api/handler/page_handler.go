package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/memberhub/portal/internal/core/domain"
)

// PageHandler serves the session-gated pages and the sign-in entry point.
// Rendering is deliberately thin: the pages return the decoded session claims
// and leave presentation to whatever front end sits in front of the API.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

type pageResponse struct {
	Page string                `json:"page"`
	User *domain.SessionClaims `json:"user,omitempty"`
}

// SignInPage is the redirect target for unauthenticated access to protected
// paths.
func (h *PageHandler) SignInPage(c echo.Context) error {
	return c.JSON(http.StatusOK, pageResponse{Page: "signin"})
}

// Dashboard requires a valid session.
func (h *PageHandler) Dashboard(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pageResponse{Page: "dashboard", User: claims})
}

// Profile requires a valid session.
func (h *PageHandler) Profile(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pageResponse{Page: "profile", User: claims})
}
