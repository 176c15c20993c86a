package mail

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/devgyurak/login-is-boring/internal/account"
	"github.com/devgyurak/login-is-boring/internal/config"
	"github.com/devgyurak/login-is-boring/internal/dispatch"
)

// Module provides the mailer and registers it as the handler for the
// sign-up verification mail task.
func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(cfg *config.AppConfig, log *zap.Logger) Mailer {
					if !cfg.Mail.Enabled {
						return NewNoopMailer(log)
					}
					return NewMailgunMailer(&cfg.Mail, log)
				},
			),
		),
		fx.Invoke(registerTasks),
	)
}

func registerTasks(dispatcher *dispatch.Dispatcher, mailer Mailer, log *zap.Logger) {
	dispatcher.Register(account.TaskSendVerifyCodeMail, func(ctx context.Context, payload interface{}) error {
		p, ok := payload.(account.VerifyCodeMailPayload)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", payload)
		}
		return mailer.SendVerifyCodeMail(ctx, p.Email, p.Code)
	})
}
