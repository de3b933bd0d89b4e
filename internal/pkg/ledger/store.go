package ledger

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lunarworks/LanternFox/app/models"
)

// Store provides the DB operations the ledger service composes into units
// of work. WithinTx hands the callback a Store bound to the transaction;
// every mutation inside the callback commits or rolls back together.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Store) error) error
	EnsureBalances(ctx context.Context, userIDs ...string) error
	AddBalance(ctx context.Context, userID string, delta int64) (int64, error)
	DebitBalance(ctx context.Context, userID string, amount int64) (int64, bool, error)
	Balance(ctx context.Context, userID string) (int64, error)
	AppendTransaction(ctx context.Context, entry *models.CreditTransaction) error
	SessionProcessed(ctx context.Context, stripeSessionID string) (bool, error)
	InsertPaymentRecord(ctx context.Context, rec *models.PaymentRecord) error
	Transactions(ctx context.Context, f TransactionFilter) ([]models.CreditTransaction, error)
	Payments(ctx context.Context, f PaymentFilter) ([]models.PaymentRecord, error)
}

// TransactionFilter narrows ledger history queries.
type TransactionFilter struct {
	UserID   string
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

// PaymentFilter narrows payment history queries.
type PaymentFilter struct {
	UserID   string
	Status   string
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

const defaultQueryLimit = 50

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a ledger store backed by GORM.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// EnsureBalances creates zero-balance rows for any of the given users that
// do not have one yet. The conflict-ignored insert makes this safe against
// concurrent first-touch races; a plain read-check-then-insert would not be.
func (s *gormStore) EnsureBalances(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]models.CreditBalance, 0, len(userIDs))
	seen := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, models.CreditBalance{UserID: id, Balance: 0})
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (s *gormStore) AddBalance(ctx context.Context, userID string, delta int64) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.CreditBalance{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance + ?", delta),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return s.Balance(ctx, userID)
}

// DebitBalance subtracts amount only when the current balance covers it.
// The predicate runs inside the UPDATE itself, so two concurrent debits can
// never both pass a stale read; the losing one simply affects zero rows.
func (s *gormStore) DebitBalance(ctx context.Context, userID string, amount int64) (int64, bool, error) {
	res := s.db.WithContext(ctx).Model(&models.CreditBalance{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance - ?", amount),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, false, nil
	}
	balance, err := s.Balance(ctx, userID)
	return balance, true, err
}

func (s *gormStore) Balance(ctx context.Context, userID string) (int64, error) {
	var row models.CreditBalance
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Balance, nil
}

func (s *gormStore) AppendTransaction(ctx context.Context, entry *models.CreditTransaction) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *gormStore) SessionProcessed(ctx context.Context, stripeSessionID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.PaymentRecord{}).
		Where("stripe_session_id = ?", stripeSessionID).
		Count(&count).Error
	return count > 0, err
}

func (s *gormStore) InsertPaymentRecord(ctx context.Context, rec *models.PaymentRecord) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

func (s *gormStore) Transactions(ctx context.Context, f TransactionFilter) ([]models.CreditTransaction, error) {
	q := s.db.WithContext(ctx).Model(&models.CreditTransaction{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.FromDate != nil {
		q = q.Where("created_at >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("created_at <= ?", *f.ToDate)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	var entries []models.CreditTransaction
	err := q.Order("created_at DESC").Limit(limit).Offset(f.Offset).Find(&entries).Error
	return entries, err
}

func (s *gormStore) Payments(ctx context.Context, f PaymentFilter) ([]models.PaymentRecord, error) {
	q := s.db.WithContext(ctx).Model(&models.PaymentRecord{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.FromDate != nil {
		q = q.Where("created_at >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("created_at <= ?", *f.ToDate)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	var records []models.PaymentRecord
	err := q.Order("created_at DESC").Limit(limit).Offset(f.Offset).Find(&records).Error
	return records, err
}
