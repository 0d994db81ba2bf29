package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/memberhub/portal/internal/api/metrics"
	"github.com/memberhub/portal/internal/core/domain"
	"github.com/memberhub/portal/internal/core/ports"
	"github.com/memberhub/portal/internal/infrastructure/config"
)

const stateCookieName = "oauth_state"

// oauthProvider pairs an oauth2 endpoint configuration with the provider's
// profile API and its response shape.
type oauthProvider struct {
	config      *oauth2.Config
	userInfoURL string
	parse       func(data []byte) (domain.ProviderProfile, error)
}

// OAuthHandler runs the authorization-code flow for Google and GitHub.
// Identity verification is delegated entirely to the provider: on success a
// session is issued from the provider-supplied profile, with no password or
// lockout logic involved.
type OAuthHandler struct {
	sessions   ports.SessionService
	providers  map[string]oauthProvider
	sessionTTL time.Duration
	log        zerolog.Logger
}

func NewOAuthHandler(sessions ports.SessionService, cfg config.OAuthConfig, sessionTTL time.Duration, log zerolog.Logger) *OAuthHandler {
	providers := make(map[string]oauthProvider)

	if cfg.GoogleClientID != "" {
		providers["google"] = oauthProvider{
			config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURL:  cfg.BaseURL + "/auth/oauth/google/callback",
				Scopes: []string{
					"https://www.googleapis.com/auth/userinfo.email",
					"https://www.googleapis.com/auth/userinfo.profile",
				},
				Endpoint: google.Endpoint,
			},
			userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
			parse:       parseGoogleProfile,
		}
	}

	if cfg.GitHubClientID != "" {
		providers["github"] = oauthProvider{
			config: &oauth2.Config{
				ClientID:     cfg.GitHubClientID,
				ClientSecret: cfg.GitHubClientSecret,
				RedirectURL:  cfg.BaseURL + "/auth/oauth/github/callback",
				Scopes:       []string{"read:user", "user:email"},
				Endpoint:     github.Endpoint,
			},
			userInfoURL: "https://api.github.com/user",
			parse:       parseGitHubProfile,
		}
	}

	return &OAuthHandler{
		sessions:   sessions,
		providers:  providers,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

// Start redirects the browser to the provider's consent screen.
//
// @Summary      Begin OAuth sign-in
// @Tags         auth
// @Router       /auth/oauth/{provider} [get]
func (h *OAuthHandler) Start(c echo.Context) error {
	provider, ok := h.providers[c.Param("provider")]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown provider")
	}

	state, err := randomState()
	if err != nil {
		return fmt.Errorf("oauth state: %w", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth/oauth",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusFound, provider.config.AuthCodeURL(state))
}

// Callback exchanges the authorization code, fetches the provider profile,
// and starts a session. Any failure sends the browser back to the sign-in
// page rather than surfacing provider internals.
//
// @Summary      Complete OAuth sign-in
// @Tags         auth
// @Router       /auth/oauth/{provider}/callback [get]
func (h *OAuthHandler) Callback(c echo.Context) error {
	name := c.Param("provider")
	provider, ok := h.providers[name]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown provider")
	}

	stateCookie, err := c.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != c.QueryParam("state") {
		h.log.Warn().Str("provider", name).Msg("oauth state mismatch")
		return c.Redirect(http.StatusFound, "/signin")
	}

	ctx := c.Request().Context()
	token, err := provider.config.Exchange(ctx, c.QueryParam("code"))
	if err != nil {
		h.log.Error().Err(err).Str("provider", name).Msg("oauth code exchange failed")
		return c.Redirect(http.StatusFound, "/signin")
	}

	profile, err := h.fetchProfile(ctx, provider, token)
	if err != nil {
		h.log.Error().Err(err).Str("provider", name).Msg("oauth profile fetch failed")
		return c.Redirect(http.StatusFound, "/signin")
	}
	profile.Provider = name

	session, err := h.sessions.IssueFor(domain.AuthResult{OAuth: &profile})
	if err != nil {
		return fmt.Errorf("issue oauth session: %w", err)
	}

	setSessionCookie(c, session, h.sessionTTL)
	metrics.SessionsIssuedTotal.WithLabelValues("oauth_" + name).Inc()
	return c.Redirect(http.StatusFound, "/dashboard")
}

func (h *OAuthHandler) fetchProfile(ctx context.Context, provider oauthProvider, token *oauth2.Token) (domain.ProviderProfile, error) {
	client := provider.config.Client(ctx, token)
	resp, err := client.Get(provider.userInfoURL)
	if err != nil {
		return domain.ProviderProfile{}, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ProviderProfile{}, fmt.Errorf("profile endpoint returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.ProviderProfile{}, fmt.Errorf("read profile: %w", err)
	}
	return provider.parse(data)
}

func parseGoogleProfile(data []byte) (domain.ProviderProfile, error) {
	var p struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.ProviderProfile{}, fmt.Errorf("decode google profile: %w", err)
	}
	return domain.ProviderProfile{ID: p.ID, Email: p.Email, Name: p.Name, Picture: p.Picture}, nil
}

func parseGitHubProfile(data []byte) (domain.ProviderProfile, error) {
	var p struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.ProviderProfile{}, fmt.Errorf("decode github profile: %w", err)
	}
	name := p.Name
	if name == "" {
		name = p.Login
	}
	return domain.ProviderProfile{ID: strconv.FormatInt(p.ID, 10), Email: p.Email, Name: name, Picture: p.AvatarURL}, nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
