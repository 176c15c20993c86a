package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/devgyurak/login-is-boring/internal/account"
)

type Handler struct {
	service  *Service
	accounts account.Repository
	log      *zap.Logger
}

func NewHandler(service *Service, accounts account.Repository, log *zap.Logger) *Handler {
	return &Handler{
		service:  service,
		accounts: accounts,
		log:      log,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenRefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

// Login handles POST /v1/accounts/login. An unknown email answers 404;
// a wrong password or a not-yet-verified account answers 401.
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		h.log.Warn("failed to bind login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, detailResponse{Detail: "invalid request body"})
	}

	pair, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, pair)
	case errors.Is(err, account.ErrAccountNotFound):
		return c.JSON(http.StatusNotFound, detailResponse{Detail: "account not found"})
	case errors.Is(err, ErrAuthenticationFailed), errors.Is(err, ErrNotAuthenticated):
		return c.JSON(http.StatusUnauthorized, detailResponse{Detail: "authentication failed"})
	default:
		h.log.Error("login failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, detailResponse{Detail: "internal server error"})
	}
}

// TokenRefresh handles POST /v1/accounts/token-refresh.
func (h *Handler) TokenRefresh(c echo.Context) error {
	var req TokenRefreshRequest
	if err := c.Bind(&req); err != nil {
		h.log.Warn("failed to bind token-refresh request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, detailResponse{Detail: "invalid request body"})
	}

	access, err := h.service.Refresh(c.Request().Context(), req.RefreshToken)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, access)
	case errors.Is(err, ErrInvalidToken):
		return c.JSON(http.StatusUnauthorized, detailResponse{Detail: "invalid refresh token"})
	default:
		h.log.Error("token refresh failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, detailResponse{Detail: "internal server error"})
	}
}

// Logout handles POST /v1/accounts/logout by revoking the refresh token.
func (h *Handler) Logout(c echo.Context) error {
	var req TokenRefreshRequest
	if err := c.Bind(&req); err != nil {
		h.log.Warn("failed to bind logout request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, detailResponse{Detail: "invalid request body"})
	}

	err := h.service.Revoke(c.Request().Context(), req.RefreshToken)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, detailResponse{Detail: "logged out"})
	case errors.Is(err, ErrInvalidToken):
		return c.JSON(http.StatusUnauthorized, detailResponse{Detail: "invalid refresh token"})
	default:
		h.log.Error("logout failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, detailResponse{Detail: "internal server error"})
	}
}

// Me handles GET /v1/accounts/me for the authenticated account.
func (h *Handler) Me(c echo.Context) error {
	id, err := AccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, detailResponse{Detail: "unauthorized"})
	}

	acc, err := h.accounts.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return c.JSON(http.StatusNotFound, detailResponse{Detail: "account not found"})
		}
		h.log.Error("failed to load account", zap.Uint64("account_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, detailResponse{Detail: "internal server error"})
	}

	return c.JSON(http.StatusOK, acc.Info())
}
