package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/devgyurak/login-is-boring/internal/account"
	"github.com/devgyurak/login-is-boring/internal/config"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type Claims struct {
	Email     string `json:"email"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// TokenPair carries both tokens together with their decoded expirations
// so clients never have to decode the tokens themselves.
type TokenPair struct {
	AccessToken            string `json:"access_token"`
	AccessTokenExpiration  string `json:"access_token_expiration"`
	RefreshToken           string `json:"refresh_token"`
	RefreshTokenExpiration string `json:"refresh_token_expiration"`
}

type AccessToken struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiration string `json:"access_token_expiration"`
}

// Service mints and refreshes token pairs for active accounts and runs
// the password login flow.
type Service struct {
	config    *config.AuthConfig
	log       *zap.Logger
	accounts  account.Repository
	blacklist Blacklist
}

func NewService(config *config.AuthConfig, log *zap.Logger, accounts account.Repository, blacklist Blacklist) *Service {
	return &Service{
		config:    config,
		log:       log,
		accounts:  accounts,
		blacklist: blacklist,
	}
}

// Login validates the credentials and the activation state, then issues
// a token pair. The whole flow runs inside one transaction boundary so a
// failure partway leaves no side effect.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	var pair *TokenPair
	err := s.accounts.Transaction(ctx, func(r account.Repository) error {
		acc, err := r.FindByEmail(ctx, email)
		if err != nil {
			return err
		}

		if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
			return ErrAuthenticationFailed
		}

		if acc.ActiveType != account.ActiveTypeActive {
			return ErrAuthenticationFailed
		}

		pair, err = s.Issue(ctx, acc)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Issue mints an access/refresh token pair. The account must be active;
// issuance for any other state fails hard rather than handing out
// tokens to unverified accounts.
func (s *Service) Issue(_ context.Context, acc *account.Account) (*TokenPair, error) {
	if acc.ActiveType != account.ActiveTypeActive {
		return nil, ErrNotAuthenticated
	}

	access, accessExp, err := s.signToken(acc.ID, acc.Email, tokenTypeAccess, s.config.AccessTokenDuration)
	if err != nil {
		return nil, err
	}

	refresh, refreshExp, err := s.signToken(acc.ID, acc.Email, tokenTypeRefresh, s.config.RefreshTokenDuration)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:            access,
		AccessTokenExpiration:  accessExp.Format(time.RFC3339),
		RefreshToken:           refresh,
		RefreshTokenExpiration: refreshExp.Format(time.RFC3339),
	}, nil
}

// Refresh mints a fresh access token from a valid refresh token. The
// refresh token itself is not rotated.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AccessToken, error) {
	claims, err := s.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, refreshToken)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	access, accessExp, err := s.signToken(id, claims.Email, tokenTypeAccess, s.config.AccessTokenDuration)
	if err != nil {
		return nil, err
	}

	return &AccessToken{
		AccessToken:           access,
		AccessTokenExpiration: accessExp.Format(time.RFC3339),
	}, nil
}

// Revoke marks a refresh token unusable until its natural expiry.
// Without a revocation store this is a validated no-op.
func (s *Service) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := s.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return err
	}

	if s.blacklist == nil {
		s.log.Warn("no revocation store configured, logout is stateless")
		return nil
	}

	return s.blacklist.Revoke(ctx, refreshToken, claims.ExpiresAt.Time)
}

// ParseAccessToken verifies an access token and returns its claims.
func (s *Service) ParseAccessToken(tokenString string) (*Claims, error) {
	return s.parseToken(tokenString, tokenTypeAccess)
}

func (s *Service) signToken(id uint64, email, tokenType string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := &Claims{
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(id, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *Service) parseToken(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
