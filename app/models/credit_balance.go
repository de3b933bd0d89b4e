package models

import "time"

// CreditBalance holds the current prepaid credit balance for a user.
// One row per user, created lazily on the first ledger operation.
// Mutated only inside ledger transactions; the balance must never be
// negative after a committed debit.
type CreditBalance struct {
	UserID    string    `gorm:"primaryKey;type:varchar(36)" json:"user_id"`
	Balance   int64     `gorm:"not null;default:0" json:"balance"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CreditBalance) TableName() string {
	return "credit_balances"
}
