// Package config composes the application's environment configuration.
package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/innkeep/innkeep/internal/notify"
	"github.com/innkeep/innkeep/pkg/httpserver"
	"github.com/innkeep/innkeep/pkg/pg"
	"github.com/innkeep/innkeep/pkg/ratelimit"
	"github.com/innkeep/innkeep/pkg/redis"
)

// ErrLoadFailed wraps env parsing failures.
var ErrLoadFailed = errors.New("config: failed to load")

// Config is the full process configuration.
type Config struct {
	Env        string `env:"APP_ENV" envDefault:"development"`
	RootDomain string `env:"ROOT_DOMAIN" envDefault:"innkeep.app"`

	// CookieSecrets sign session cookies; the first entry signs, all verify.
	CookieSecrets []string `env:"COOKIE_SECRETS,required" envSeparator:","`
	SecureCookies bool     `env:"SECURE_COOKIES" envDefault:"true"`

	// GuestSessionTTL bounds a guest session minted at check-in.
	GuestSessionTTL time.Duration `env:"GUEST_SESSION_TTL" envDefault:"168h"`
	// OperatorSessionTTL bounds an operator portal session.
	OperatorSessionTTL time.Duration `env:"OPERATOR_SESSION_TTL" envDefault:"12h"`
	// StoreTimeout bounds each authorization store call.
	StoreTimeout time.Duration `env:"AUTHZ_STORE_TIMEOUT" envDefault:"3s"`

	// RunMigrations applies pending schema migrations on startup.
	RunMigrations bool `env:"RUN_MIGRATIONS" envDefault:"false"`

	HTTP      httpserver.Config
	PG        pg.Config
	Redis     redis.Config
	RateLimit ratelimit.Config
	Email     notify.Config
}

// Load reads .env (when present) and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	return cfg, nil
}
