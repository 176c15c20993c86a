package account

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TaskSendVerifyCodeMail is the dispatcher task name for the sign-up
// verification mail.
const TaskSendVerifyCodeMail = "send_sign_up_verify_code_email"

// VerifyCodeMailPayload is the payload enqueued for TaskSendVerifyCodeMail.
type VerifyCodeMailPayload struct {
	Email string
	Code  string
}

// Dispatcher hands tasks to an asynchronous worker; enqueueing never
// blocks and task failures never reach the caller.
type Dispatcher interface {
	Enqueue(task string, payload interface{})
}

// Service orchestrates the account lifecycle: sign-up, email
// verification and privileged-account provisioning.
type Service struct {
	log        *zap.Logger
	repository Repository
	dispatcher Dispatcher
}

func NewService(log *zap.Logger, repo Repository, dispatcher Dispatcher) *Service {
	return &Service{
		log:        log,
		repository: repo,
		dispatcher: dispatcher,
	}
}

// SignUp validates the request, persists a new deactive account with a
// fresh verification code and hands the notification mail to the
// dispatcher. Validation failures for independent fields are collected
// and returned together as FieldErrors.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*Account, error) {
	ferrs := FieldErrors{}
	if err := fieldErrorsOf(req.Validate(), ferrs); err != nil {
		return nil, err
	}

	if _, taken := ferrs["email"]; !taken {
		exists, err := s.repository.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			ferrs.Add("email", "This email already exists.")
		}
	}

	if len(ferrs) > 0 {
		return nil, ferrs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	code := NewVerifyCode()
	acc := &Account{
		Email:        req.Email,
		Username:     req.Username,
		Nickname:     req.Nickname,
		PasswordHash: string(hash),
		ActiveType:   ActiveTypeDeactive,
		VerifyCode:   &code,
	}

	err = s.repository.Transaction(ctx, func(r Repository) error {
		return r.Create(ctx, acc)
	})
	if err != nil {
		if err == ErrEmailExists {
			// Lost the race against a concurrent sign-up; the unique
			// index caught it.
			return nil, FieldErrors{"email": {"This email already exists."}}
		}
		return nil, err
	}

	s.enqueueVerifyCodeMail(acc.Email, code)

	return acc, nil
}

// enqueueVerifyCodeMail hands the verification mail off without tying
// its outcome to the sign-up transaction. Delivery is best effort.
func (s *Service) enqueueVerifyCodeMail(email, code string) {
	if s.dispatcher == nil {
		s.log.Warn("no dispatcher configured, skipping verification mail",
			zap.String("email", email))
		return
	}
	s.dispatcher.Enqueue(TaskSendVerifyCodeMail, VerifyCodeMailPayload{
		Email: email,
		Code:  code,
	})
}

// VerifyEmail compares the submitted code against the stored one and
// activates the account exactly once. A repeated call after success
// fails with ErrAlreadyVerified rather than silently succeeding.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) error {
	return s.repository.Transaction(ctx, func(r Repository) error {
		acc, err := r.FindByEmail(ctx, email)
		if err != nil {
			return err
		}

		if acc.ActiveType == ActiveTypeActive {
			return ErrAlreadyVerified
		}

		if acc.VerifyCode == nil || *acc.VerifyCode != code {
			return ErrCodeMismatch
		}

		activated, err := r.Activate(ctx, acc.ID)
		if err != nil {
			return err
		}
		if !activated {
			// A concurrent verification won; the guarded update makes
			// the deactive-to-active transition exactly-once.
			return ErrAlreadyVerified
		}

		s.log.Info("account verified", zap.Uint64("account_id", acc.ID))
		return nil
	})
}

// CreateSuperuser provisions a staff account directly in the active
// state; no verification code is issued for it.
func (s *Service) CreateSuperuser(ctx context.Context, req SignUpRequest) (*Account, error) {
	if err := ValidatePassword(req.Password); err != nil {
		return nil, FieldErrors{"password": {err.Error()}}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	acc := &Account{
		Email:        req.Email,
		Username:     req.Username,
		Nickname:     req.Nickname,
		PasswordHash: string(hash),
		ActiveType:   ActiveTypeActive,
		IsStaff:      true,
	}

	err = s.repository.Transaction(ctx, func(r Repository) error {
		return r.Create(ctx, acc)
	})
	if err != nil {
		if err == ErrEmailExists {
			return nil, FieldErrors{"email": {"This email already exists."}}
		}
		return nil, err
	}

	s.log.Info("superuser created", zap.Uint64("account_id", acc.ID))
	return acc, nil
}
