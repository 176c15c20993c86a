package account

import (
	"context"
	"sync"
)

type mockRepository struct {
	accounts map[string]*Account
	nextID   uint64
	mu       sync.RWMutex
}

// NewMockRepository returns an in-memory Repository used by tests.
func NewMockRepository() Repository {
	return &mockRepository{
		accounts: make(map[string]*Account),
		nextID:   1,
	}
}

func (r *mockRepository) Create(_ context.Context, acc *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[acc.Email]; exists {
		return ErrEmailExists
	}

	stored := *acc
	stored.ID = r.nextID
	r.nextID++

	r.accounts[acc.Email] = &stored
	acc.ID = stored.ID
	return nil
}

func (r *mockRepository) FindByEmail(_ context.Context, email string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, exists := r.accounts[email]
	if !exists {
		return nil, ErrAccountNotFound
	}
	copied := *acc
	return &copied, nil
}

func (r *mockRepository) FindByID(_ context.Context, id uint64) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, acc := range r.accounts {
		if acc.ID == id {
			copied := *acc
			return &copied, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (r *mockRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.accounts[email]
	return exists, nil
}

func (r *mockRepository) Activate(_ context.Context, id uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, acc := range r.accounts {
		if acc.ID == id {
			if acc.ActiveType != ActiveTypeDeactive {
				return false, nil
			}
			acc.ActiveType = ActiveTypeActive
			acc.VerifyCode = nil
			return true, nil
		}
	}
	return false, nil
}

func (r *mockRepository) Transaction(_ context.Context, fn func(Repository) error) error {
	return fn(r)
}
