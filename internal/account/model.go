package account

import (
	"time"
)

// ActiveType is the account's position in the verification lifecycle.
// The ordinal values are stored in the database and used directly in
// comparisons, so they must never be renumbered.
type ActiveType int

const (
	// ActiveTypeDeactive is the default for fresh sign-ups awaiting
	// email verification.
	ActiveTypeDeactive  ActiveType = 1
	ActiveTypeActive    ActiveType = 2
	ActiveTypeSecession ActiveType = 3
)

func (t ActiveType) String() string {
	switch t {
	case ActiveTypeDeactive:
		return "deactive"
	case ActiveTypeActive:
		return "active"
	case ActiveTypeSecession:
		return "secession"
	default:
		return "unknown"
	}
}

type Account struct {
	ID           uint64  `gorm:"primaryKey"`
	Email        string  `gorm:"uniqueIndex;not null"`
	Username     string  `gorm:"not null"`
	Nickname     *string
	PasswordHash string     `gorm:"not null"`
	ActiveType   ActiveType `gorm:"not null;default:1"`
	// VerifyCode is non-nil only while the account is deactive; it is
	// cleared in the same statement that flips the account to active.
	VerifyCode *string
	IsStaff    bool `gorm:"not null;default:false"`
	CreatedAt  time.Time
}

func (Account) TableName() string {
	return "accounts"
}

// Info is the public projection of an account. VerifyCode is only
// populated in the sign-up response, where exposing it is a deliberate
// exception for test and operations visibility.
type Info struct {
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	Nickname   *string `json:"nickname"`
	ActiveType string  `json:"active_type"`
	VerifyCode *string `json:"verify_code,omitempty"`
}

func (a *Account) Info() Info {
	return Info{
		Username:   a.Username,
		Email:      a.Email,
		Nickname:   a.Nickname,
		ActiveType: a.ActiveType.String(),
	}
}
