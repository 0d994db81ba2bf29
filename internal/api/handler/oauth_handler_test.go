package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/memberhub/portal/internal/api/middleware"
	"github.com/memberhub/portal/internal/infrastructure/config"
)

func newOAuthTestContext(t *testing.T, target string, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newGitHubOAuthHandler(sessions *stubSessionService) *OAuthHandler {
	cfg := config.OAuthConfig{
		BaseURL:            "http://localhost:8080",
		GitHubClientID:     "client-id",
		GitHubClientSecret: "client-secret",
	}
	return NewOAuthHandler(sessions, cfg, time.Hour, zerolog.Nop())
}

func TestOAuthHandler_Start_UnknownProvider(t *testing.T) {
	handler := newGitHubOAuthHandler(&stubSessionService{})

	c, _ := newOAuthTestContext(t, "/auth/oauth/gitlab")
	c.SetParamNames("provider")
	c.SetParamValues("gitlab")

	err := handler.Start(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown provider, got %v", err)
	}
}

func TestOAuthHandler_Start_RedirectsWithStateCookie(t *testing.T) {
	handler := newGitHubOAuthHandler(&stubSessionService{})

	c, rec := newOAuthTestContext(t, "/auth/oauth/github")
	c.SetParamNames("provider")
	c.SetParamValues("github")

	if err := handler.Start(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}

	cookie := findCookie(rec, stateCookieName)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected state cookie to be set")
	}
	if !cookie.HttpOnly {
		t.Fatal("state cookie must be http-only")
	}

	location, err := url.Parse(rec.Header().Get(echo.HeaderLocation))
	if err != nil {
		t.Fatalf("invalid redirect location: %v", err)
	}
	if got := location.Query().Get("state"); got != cookie.Value {
		t.Fatalf("redirect state %q does not match cookie %q", got, cookie.Value)
	}
	if got := location.Query().Get("client_id"); got != "client-id" {
		t.Fatalf("unexpected client_id %q", got)
	}
}

func TestOAuthHandler_Callback_StateMismatchRedirectsToSignIn(t *testing.T) {
	sessions := &stubSessionService{token: "must-not-issue"}
	handler := newGitHubOAuthHandler(sessions)

	c, rec := newOAuthTestContext(t, "/auth/oauth/github/callback?state=forged&code=abc",
		&http.Cookie{Name: stateCookieName, Value: "genuine"})
	c.SetParamNames("provider")
	c.SetParamValues("github")

	if err := handler.Callback(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != "/signin" {
		t.Fatalf("expected redirect to /signin, got %q", got)
	}
	if findCookie(rec, middleware.SessionCookieName) != nil {
		t.Fatal("session cookie must not be set on state mismatch")
	}
}

func TestOAuthHandler_Callback_MissingStateCookieRedirectsToSignIn(t *testing.T) {
	handler := newGitHubOAuthHandler(&stubSessionService{})

	c, rec := newOAuthTestContext(t, "/auth/oauth/github/callback?state=abc&code=abc")
	c.SetParamNames("provider")
	c.SetParamValues("github")

	if err := handler.Callback(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/signin" {
		t.Fatalf("expected 302 to /signin, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestOAuthHandler_Callback_IssuesSessionFromProviderProfile(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"at-123","token_type":"bearer"}`))
		case "/user":
			if got := r.Header.Get("Authorization"); !strings.Contains(got, "at-123") {
				t.Errorf("profile request missing access token, got %q", got)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":12345,"login":"ann","name":"Ann","email":"ann@example.com","avatar_url":"https://avatars.example.com/ann"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer provider.Close()

	sessions := &stubSessionService{token: "session-token"}
	handler := newGitHubOAuthHandler(sessions)

	// Point the github provider at the local stub endpoints.
	gh := handler.providers["github"]
	gh.config.Endpoint = oauth2.Endpoint{
		AuthURL:  provider.URL + "/auth",
		TokenURL: provider.URL + "/token",
	}
	gh.userInfoURL = provider.URL + "/user"
	handler.providers["github"] = gh

	c, rec := newOAuthTestContext(t, "/auth/oauth/github/callback?state=genuine&code=code-1",
		&http.Cookie{Name: stateCookieName, Value: "genuine"})
	c.SetParamNames("provider")
	c.SetParamValues("github")

	if err := handler.Callback(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %q", got)
	}

	cookie := findCookie(rec, middleware.SessionCookieName)
	if cookie == nil || cookie.Value != "session-token" {
		t.Fatalf("expected session cookie, got %+v", cookie)
	}

	if sessions.issued.OAuth == nil {
		t.Fatal("session must be issued from the provider profile")
	}
	profile := sessions.issued.OAuth
	if profile.Provider != "github" || profile.ID != "12345" {
		t.Fatalf("unexpected profile identity: %+v", profile)
	}
	if profile.Email != "ann@example.com" || profile.Name != "Ann" {
		t.Fatalf("unexpected profile details: %+v", profile)
	}
}

func TestOAuthHandler_Callback_ProfileFetchFailureRedirectsToSignIn(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"at-123","token_type":"bearer"}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer provider.Close()

	handler := newGitHubOAuthHandler(&stubSessionService{token: "must-not-issue"})
	gh := handler.providers["github"]
	gh.config.Endpoint = oauth2.Endpoint{
		AuthURL:  provider.URL + "/auth",
		TokenURL: provider.URL + "/token",
	}
	gh.userInfoURL = provider.URL + "/user"
	handler.providers["github"] = gh

	c, rec := newOAuthTestContext(t, "/auth/oauth/github/callback?state=genuine&code=code-1",
		&http.Cookie{Name: stateCookieName, Value: "genuine"})
	c.SetParamNames("provider")
	c.SetParamValues("github")

	if err := handler.Callback(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/signin" {
		t.Fatalf("expected 302 to /signin, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if findCookie(rec, middleware.SessionCookieName) != nil {
		t.Fatal("session cookie must not be set when the profile fetch fails")
	}
}
