package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/devgyurak/login-is-boring/internal/account"
	"github.com/devgyurak/login-is-boring/internal/config"
)

// memoryBlacklist is an in-process Blacklist for tests.
type memoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newMemoryBlacklist() *memoryBlacklist {
	return &memoryBlacklist{revoked: make(map[string]time.Time)}
}

func (b *memoryBlacklist) Revoke(_ context.Context, token string, until time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[token] = until
	return nil
}

func (b *memoryBlacklist) IsRevoked(_ context.Context, token string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	until, ok := b.revoked[token]
	return ok && time.Now().Before(until), nil
}

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:            "test-secret",
		AccessTokenDuration:  4 * time.Hour,
		RefreshTokenDuration: 7 * 24 * time.Hour,
	}
}

func newTestService(blacklist Blacklist) (*Service, account.Repository) {
	repo := account.NewMockRepository()
	return NewService(testAuthConfig(), zap.NewNop(), repo, blacklist), repo
}

func seedAccount(t *testing.T, repo account.Repository, email, password string, activeType account.ActiveType) *account.Account {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	acc := &account.Account{
		Email:        email,
		Username:     "테스트",
		PasswordHash: string(hash),
		ActiveType:   activeType,
	}
	require.NoError(t, repo.Create(context.Background(), acc))
	return acc
}
