package account

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

type EmailVerifyRequest struct {
	Email      string `json:"email"`
	VerifyCode string `json:"verify_code"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

// SignUp handles POST /v1/accounts/sign-up. Success answers 201 with the
// public projection plus the verification code; validation failures
// answer 400 with one message list per field.
func (h *Handler) SignUp(c echo.Context) error {
	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		h.log.Warn("failed to bind sign-up request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, detailResponse{Detail: "invalid request body"})
	}

	acc, err := h.service.SignUp(c.Request().Context(), req)
	if err != nil {
		var ferrs FieldErrors
		if errors.As(err, &ferrs) {
			return c.JSON(http.StatusBadRequest, ferrs)
		}
		h.log.Error("sign-up failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, detailResponse{Detail: "internal server error"})
	}

	info := acc.Info()
	info.VerifyCode = acc.VerifyCode
	return c.JSON(http.StatusCreated, info)
}

// EmailVerify handles POST /v1/accounts/email-verify.
func (h *Handler) EmailVerify(c echo.Context) error {
	var req EmailVerifyRequest
	if err := c.Bind(&req); err != nil {
		h.log.Warn("failed to bind email-verify request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, detailResponse{Detail: "invalid request body"})
	}

	err := h.service.VerifyEmail(c.Request().Context(), req.Email, req.VerifyCode)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, detailResponse{Detail: "success to verify"})
	case errors.Is(err, ErrAccountNotFound):
		return c.JSON(http.StatusNotFound, detailResponse{Detail: "account not found"})
	case errors.Is(err, ErrAlreadyVerified):
		return c.JSON(http.StatusBadRequest, detailResponse{Detail: "this account is already verified"})
	case errors.Is(err, ErrCodeMismatch):
		return c.JSON(http.StatusBadRequest, detailResponse{Detail: "verification code does not match"})
	default:
		h.log.Error("email verification failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, detailResponse{Detail: "internal server error"})
	}
}
