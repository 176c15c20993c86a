package dispatch

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/devgyurak/login-is-boring/internal/config"
)

// Module provides the shared task dispatcher and ties its workers to
// the application lifecycle.
func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(cfg *config.AppConfig, log *zap.Logger) *Dispatcher {
					return New(log, cfg.Dispatch.QueueSize, cfg.Dispatch.Workers)
				},
			),
		),
		fx.Invoke(registerHooks),
	)
}

func registerHooks(
	lifecycle fx.Lifecycle,
	dispatcher *Dispatcher,
	logger *zap.Logger,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			dispatcher.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("draining task queue")
			return dispatcher.Stop(ctx)
		},
	})
}
