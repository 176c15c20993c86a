// Package mail sends account mails through Mailgun, formatted with
// hermes. Delivery is best effort: callers hand mail off via the task
// dispatcher and never see delivery failures.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"
	"go.uber.org/zap"

	"github.com/devgyurak/login-is-boring/internal/config"
)

type Mailer interface {
	SendVerifyCodeMail(ctx context.Context, email, code string) error
}

type mailgunMailer struct {
	log     *zap.Logger
	hermes  *hermes.Hermes
	mailgun *mailgun.MailgunImpl
	sender  string
}

func NewMailgunMailer(cfg *config.MailConfig, log *zap.Logger) Mailer {
	mg := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)

	return &mailgunMailer{
		log:     log,
		mailgun: mg,
		sender:  cfg.Sender,
		hermes: &hermes.Hermes{
			Theme:         new(hermes.Default),
			TextDirection: hermes.TDLeftToRight,
			Product: hermes.Product{
				Name:      "login-is-boring",
				Copyright: "© devgyurak",
			},
		},
	}
}

func (m *mailgunMailer) SendVerifyCodeMail(ctx context.Context, email, code string) error {
	body := hermes.Email{
		Body: hermes.Body{
			Intros: []string{
				"회원가입 인증 메일입니다.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "아래 코드를 입력하여 이메일을 인증해 주세요. 해당 문자를 다른 사람과 공유하지 마십시오.",
					InviteCode:   code,
				},
			},
		},
	}

	html, err := m.hermes.GenerateHTML(body)
	if err != nil {
		return fmt.Errorf("failed to render verification mail: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	message := m.mailgun.NewMessage(m.sender, "회원가입 인증 메일입니다.", code, email)
	message.SetHtml(html)

	if _, _, err := m.mailgun.Send(sendCtx, message); err != nil {
		return fmt.Errorf("failed to send verification mail: %w", err)
	}

	m.log.Debug("verification mail sent", zap.String("email", email))
	return nil
}

// noopMailer logs instead of sending; used when mail is not configured
// (development, tests).
type noopMailer struct {
	log *zap.Logger
}

func NewNoopMailer(log *zap.Logger) Mailer {
	return &noopMailer{log: log}
}

func (m *noopMailer) SendVerifyCodeMail(_ context.Context, email, code string) error {
	m.log.Info("mail disabled, skipping verification mail",
		zap.String("email", email),
		zap.String("code", code))
	return nil
}
