package models

import "time"

// PaymentRecord stores one row per confirmed checkout session. The unique
// index on StripeSessionID is the idempotence guard against at-least-once
// webhook delivery: a session is credited at most once no matter how often
// the confirmation event arrives. Rows are inserted exactly once and never
// updated.
type PaymentRecord struct {
	ID                    string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID                string    `gorm:"type:varchar(36);not null;index;index:idx_payment_user_created,priority:1" json:"user_id"`
	StripeSessionID       string    `gorm:"type:varchar(191);not null;uniqueIndex:ux_payment_stripe_session" json:"stripe_session_id"`
	StripePaymentIntentID string    `gorm:"type:varchar(191);default:null" json:"stripe_payment_intent_id,omitempty"`
	PriceID               string    `gorm:"type:varchar(191);not null" json:"price_id"`
	Amount                int64     `gorm:"not null" json:"amount"`
	Currency              string    `gorm:"type:varchar(10);not null" json:"currency"`
	Status                string    `gorm:"type:varchar(50);not null" json:"status"`
	CreditsGranted        int64     `gorm:"not null;default:0" json:"credits_granted"`
	CreatedAt             time.Time `gorm:"autoCreateTime;index;index:idx_payment_user_created,priority:2" json:"created_at"`
}

func (PaymentRecord) TableName() string {
	return "payment_records"
}
