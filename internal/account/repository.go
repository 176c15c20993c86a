package account

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository owns Account persistence. Transaction runs fn against a
// repository bound to a single database transaction; operations invoked
// on that repository commit or roll back together.
type Repository interface {
	Create(ctx context.Context, acc *Account) error
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id uint64) (*Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Activate flips a deactive account to active and clears its verify
	// code in one guarded update. It reports false when no row changed,
	// which means the account was already active (or gone).
	Activate(ctx context.Context, id uint64) (bool, error)
	Transaction(ctx context.Context, fn func(Repository) error) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, acc *Account) error {
	if err := r.db.WithContext(ctx).Create(acc).Error; err != nil {
		// The unique index on email is the authoritative guard; the
		// service-level availability check is only a fast path.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	var acc Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (r *repository) FindByID(ctx context.Context, id uint64) (*Account, error) {
	var acc Account
	if err := r.db.WithContext(ctx).First(&acc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (r *repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Account{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *repository) Activate(ctx context.Context, id uint64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Account{}).
		Where("id = ? AND active_type = ?", id, ActiveTypeDeactive).
		Updates(map[string]interface{}{
			"active_type": ActiveTypeActive,
			"verify_code": nil,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *repository) Transaction(ctx context.Context, fn func(Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repository{db: tx})
	})
}
