package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devgyurak/login-is-boring/internal/account"
)

func TestLogin(t *testing.T) {
	t.Run("issues a pair for valid credentials", func(t *testing.T) {
		service, repo := newTestService(nil)
		acc := seedAccount(t, repo, "a@b.com", "test777!", account.ActiveTypeActive)

		pair, err := service.Login(context.Background(), "a@b.com", "test777!")
		require.NoError(t, err)

		claims, err := service.ParseAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "1", claims.Subject)
		assert.Equal(t, acc.Email, claims.Email)
		assert.Equal(t, tokenTypeAccess, claims.TokenType)

		accessExp, err := time.Parse(time.RFC3339, pair.AccessTokenExpiration)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(4*time.Hour), accessExp, time.Minute)

		refreshExp, err := time.Parse(time.RFC3339, pair.RefreshTokenExpiration)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), refreshExp, time.Minute)
	})

	t.Run("unknown email", func(t *testing.T) {
		service, _ := newTestService(nil)

		_, err := service.Login(context.Background(), "nobody@b.com", "test777!")
		assert.ErrorIs(t, err, account.ErrAccountNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		service, repo := newTestService(nil)
		seedAccount(t, repo, "a@b.com", "test777!", account.ActiveTypeActive)

		_, err := service.Login(context.Background(), "a@b.com", "wrong77!")
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("unverified account", func(t *testing.T) {
		service, repo := newTestService(nil)
		seedAccount(t, repo, "a@b.com", "test777!", account.ActiveTypeDeactive)

		_, err := service.Login(context.Background(), "a@b.com", "test777!")
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("seceded account", func(t *testing.T) {
		service, repo := newTestService(nil)
		seedAccount(t, repo, "a@b.com", "test777!", account.ActiveTypeSecession)

		_, err := service.Login(context.Background(), "a@b.com", "test777!")
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})
}

func TestIssue(t *testing.T) {
	service, _ := newTestService(nil)

	_, err := service.Issue(context.Background(), &account.Account{
		ID:         1,
		Email:      "a@b.com",
		ActiveType: account.ActiveTypeDeactive,
	})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestRefresh(t *testing.T) {
	login := func(t *testing.T, service *Service, repo account.Repository) *TokenPair {
		t.Helper()
		seedAccount(t, repo, "a@b.com", "test777!", account.ActiveTypeActive)
		pair, err := service.Login(context.Background(), "a@b.com", "test777!")
		require.NoError(t, err)
		return pair
	}

	t.Run("mints a fresh access token", func(t *testing.T) {
		service, repo := newTestService(nil)
		pair := login(t, service, repo)

		access, err := service.Refresh(context.Background(), pair.RefreshToken)
		require.NoError(t, err)

		claims, err := service.ParseAccessToken(access.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "1", claims.Subject)
		assert.Equal(t, "a@b.com", claims.Email)
	})

	t.Run("rejects an access token", func(t *testing.T) {
		service, repo := newTestService(nil)
		pair := login(t, service, repo)

		_, err := service.Refresh(context.Background(), pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects a malformed token", func(t *testing.T) {
		service, _ := newTestService(nil)

		_, err := service.Refresh(context.Background(), "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		service, _ := newTestService(nil)

		expired, _, err := service.signToken(1, "a@b.com", tokenTypeRefresh, -time.Hour)
		require.NoError(t, err)

		_, err = service.Refresh(context.Background(), expired)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		service, repo := newTestService(nil)
		pair := login(t, service, repo)

		cfg := testAuthConfig()
		cfg.JWTSecret = "other-secret"
		other := NewService(cfg, service.log, repo, nil)

		_, err := other.Refresh(context.Background(), pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects a revoked token", func(t *testing.T) {
		blacklist := newMemoryBlacklist()
		service, repo := newTestService(blacklist)
		pair := login(t, service, repo)

		require.NoError(t, service.Revoke(context.Background(), pair.RefreshToken))

		_, err := service.Refresh(context.Background(), pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRevoke(t *testing.T) {
	t.Run("no revocation store is a validated no-op", func(t *testing.T) {
		service, repo := newTestService(nil)
		seedAccount(t, repo, "a@b.com", "test777!", account.ActiveTypeActive)
		pair, err := service.Login(context.Background(), "a@b.com", "test777!")
		require.NoError(t, err)

		assert.NoError(t, service.Revoke(context.Background(), pair.RefreshToken))
	})

	t.Run("rejects an invalid token", func(t *testing.T) {
		service, _ := newTestService(newMemoryBlacklist())

		err := service.Revoke(context.Background(), "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
