package models

import "time"

// Well-known transaction reasons. Reason is a free-form tag, these are the
// values written by this codebase.
const (
	ReasonImageGeneration   = "image_generation"
	ReasonCheckoutCompleted = "checkout_session_completed"
	ReasonTransfer          = "transfer"
)

// CreditTransaction is an append-only ledger entry. Negative amounts are
// debits, positive amounts are credits. The sum of all entries for a user
// equals that user's CreditBalance at all times. Rows are never updated
// or deleted once written.
type CreditTransaction struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID          string    `gorm:"type:varchar(36);not null;index;index:idx_credit_tx_user_created,priority:1" json:"user_id"`
	Amount          int64     `gorm:"not null" json:"amount"`
	Reason          string    `gorm:"type:varchar(100);not null" json:"reason"`
	StripeSessionID string    `gorm:"type:varchar(191);default:null" json:"stripe_session_id,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index;index:idx_credit_tx_user_created,priority:2" json:"created_at"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
