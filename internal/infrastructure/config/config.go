package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session SessionConfig
	Store   StoreConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	OAuth   OAuthConfig
}

type SessionConfig struct {
	// Secret signs every session token. There is no rotation: one
	// process-wide value sourced at startup.
	Secret string        `env:"SESSION_SECRET"`
	TTL    time.Duration `env:"SESSION_TTL, default=24h"`
}

type StoreConfig struct {
	// Users selects the credential store backend: memory or mongo.
	Users string `env:"STORE_BACKEND,   default=memory"`
	// Lockout selects the lockout tracker backend: memory or redis.
	Lockout string `env:"LOCKOUT_BACKEND, default=memory"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=portal"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type OAuthConfig struct {
	// BaseURL is the externally visible origin used to build the provider
	// redirect URLs, e.g. https://portal.example.com.
	BaseURL            string `env:"OAUTH_BASE_URL, default=http://localhost:8080"`
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
}

// Load reads configuration from environment variables using go-envconfig and
// validates it once. Startup fails fast on a missing session secret.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Session.Secret == "" {
		return errors.New("config: SESSION_SECRET is required")
	}
	switch c.Store.Users {
	case "memory", "mongo":
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.Store.Users)
	}
	switch c.Store.Lockout {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: unknown LOCKOUT_BACKEND %q", c.Store.Lockout)
	}
	return nil
}
