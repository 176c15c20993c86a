package auth

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/devgyurak/login-is-boring/internal/account"
	"github.com/devgyurak/login-is-boring/internal/config"
)

// NewModule returns the auth module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(lc fx.Lifecycle, cfg *config.AppConfig, log *zap.Logger) Blacklist {
					return newBlacklist(lc, &cfg.Redis, log)
				},
			),
			fx.Annotate(
				func(cfg *config.AppConfig, log *zap.Logger, accounts account.Repository, blacklist Blacklist) *Service {
					return NewService(&cfg.Auth, log, accounts, blacklist)
				},
			),
			fx.Annotate(
				func(svc *Service) *Middleware {
					return NewMiddleware(svc)
				},
			),
			fx.Annotate(
				func(svc *Service, accounts account.Repository, log *zap.Logger) *Handler {
					return NewHandler(svc, accounts, log)
				},
			),
		),
	)
}

// newBlacklist wires the redis revocation store when configured and
// returns nil otherwise, leaving the token service stateless.
func newBlacklist(lc fx.Lifecycle, cfg *config.RedisConfig, log *zap.Logger) Blacklist {
	if !cfg.Enabled {
		log.Info("refresh-token revocation store disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
		OnStop: func(context.Context) error {
			log.Info("closing redis connection")
			return rdb.Close()
		},
	})

	return NewRedisBlacklist(rdb)
}
