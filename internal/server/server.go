package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/devgyurak/login-is-boring/internal/account"
	"github.com/devgyurak/login-is-boring/internal/api"
	"github.com/devgyurak/login-is-boring/internal/auth"
	"github.com/devgyurak/login-is-boring/internal/config"
)

type Server struct {
	config *config.AppConfig
	log    *zap.Logger
	echo   *echo.Echo
}

type Params struct {
	fx.In

	Config         *config.AppConfig
	Logger         *zap.Logger
	AccountHandler *account.Handler
	AuthHandler    *auth.Handler
	AuthMiddleware *auth.Middleware
}

func NewServer(p Params) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger(p.Logger))

	server := &Server{
		config: p.Config,
		log:    p.Logger,
		echo:   e,
	}

	server.registerRoutes(p)

	return server
}

func (s *Server) registerRoutes(p Params) {
	s.echo.POST(api.AccountSignUp, p.AccountHandler.SignUp)
	s.echo.POST(api.AccountEmailVerify, p.AccountHandler.EmailVerify)
	s.echo.POST(api.AuthLogin, p.AuthHandler.Login)
	s.echo.POST(api.AuthTokenRefresh, p.AuthHandler.TokenRefresh)

	s.echo.POST(api.AuthLogout, p.AuthHandler.Logout, p.AuthMiddleware.RequireAccessToken)
	s.echo.GET(api.AuthMe, p.AuthHandler.Me, p.AuthMiddleware.RequireAccessToken)
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	})
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port)

	s.log.Info("Starting HTTP server",
		zap.String("address", addr),
		zap.Object("config", serverConfigToField(s.config)),
	)

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}

	return nil
}

func serverConfigToField(config *config.AppConfig) zapcore.ObjectMarshaler {
	return zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		enc.AddString("environment", os.Getenv("APP_ENV"))
		enc.AddBool("mail_enabled", config.Mail.Enabled)
		enc.AddBool("redis_enabled", config.Redis.Enabled)
		enc.AddDuration("access_token_duration", config.Auth.AccessTokenDuration)
		enc.AddDuration("refresh_token_duration", config.Auth.RefreshTokenDuration)
		return nil
	})
}

func (s *Server) Stop() {
	s.log.Info("shutting down HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		s.log.Error("failed to shut down cleanly", zap.Error(err))
	}
}
