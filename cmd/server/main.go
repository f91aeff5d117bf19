package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/innkeep/innkeep/internal/authz"
	"github.com/innkeep/innkeep/internal/config"
	"github.com/innkeep/innkeep/internal/edge"
	"github.com/innkeep/innkeep/internal/notify"
	"github.com/innkeep/innkeep/internal/store/postgres"
	"github.com/innkeep/innkeep/pkg/cookie"
	"github.com/innkeep/innkeep/pkg/httpserver"
	"github.com/innkeep/innkeep/pkg/logger"
	"github.com/innkeep/innkeep/pkg/pg"
	"github.com/innkeep/innkeep/pkg/ratelimit"
	"github.com/innkeep/innkeep/pkg/redis"
	"github.com/innkeep/innkeep/pkg/tenant"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, "innkeep"),
		logger.WithContextExtractors(tenant.LoggerExtractor()),
	)
	slog.SetDefault(log)

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
			return err
		}
	}

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	cookies, err := cookie.New(cfg.CookieSecrets)
	if err != nil {
		return err
	}

	var notifier notify.Sender
	if cfg.Email.PostmarkServerToken != "" {
		notifier, err = notify.NewPostmarkSender(cfg.Email)
		if err != nil {
			return err
		}
	} else {
		notifier = notify.NewDevSender(log)
	}

	authStore := postgres.New(pool)
	engine := authz.New(authStore,
		authz.WithLogger(log),
		authz.WithStoreTimeout(cfg.StoreTimeout),
	)

	dispatcher := edge.New(
		edge.Config{
			RootDomain:         cfg.RootDomain,
			SecureCookies:      cfg.SecureCookies,
			GuestSessionTTL:    cfg.GuestSessionTTL,
			OperatorSessionTTL: cfg.OperatorSessionTTL,
			Healthchecks: map[string]func(context.Context) error{
				"postgres": pg.Healthcheck(pool),
				"redis":    redis.Healthcheck(redisClient),
			},
		},
		edge.Deps{
			Resolver: tenant.NewResolver(cfg.RootDomain),
			Engine:   engine,
			Store:    authStore,
			Cookies:  cookies,
			Limiter:  ratelimit.New(redisClient, "edge", cfg.RateLimit),
			Notifier: notifier,
			Log:      log,
		},
	)

	return httpserver.Run(ctx, cfg.HTTP, dispatcher, log)
}
