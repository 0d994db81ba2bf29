package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/memberhub/portal/internal/api/handler"
	"github.com/memberhub/portal/internal/api/middleware"
	"github.com/memberhub/portal/internal/core/ports"
	"github.com/memberhub/portal/internal/infrastructure/config"
)

// Dependencies carries everything the router wires into handlers. Mongo and
// Redis are nil when the in-memory backends are active.
type Dependencies struct {
	AuthService ports.AuthService
	Sessions    ports.SessionService
	SessionTTL  time.Duration
	OAuth       config.OAuthConfig
	Mongo       *mongo.Database
	Redis       *redis.Client
	Log         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// Access guard: validates the session token on every request and
	// redirects unauthenticated access to the protected prefixes.
	e.Use(middleware.Session(deps.Sessions, "/dashboard", "/profile"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.AuthService, deps.Sessions, deps.SessionTTL, deps.Log)
	oauthHandler := handler.NewOAuthHandler(deps.Sessions, deps.OAuth, deps.SessionTTL, deps.Log)
	pageHandler := handler.NewPageHandler()

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/signin", authHandler.SignIn)
	e.POST("/auth/signout", authHandler.SignOut)
	e.GET("/auth/oauth/:provider", oauthHandler.Start)
	e.GET("/auth/oauth/:provider/callback", oauthHandler.Callback)

	// --- Pages ---
	e.GET(middleware.SignInPath, pageHandler.SignInPage)
	e.GET("/dashboard", pageHandler.Dashboard)
	e.GET("/profile", pageHandler.Profile)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
