package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lunarworks/LanternFox/app/models"
	"github.com/lunarworks/LanternFox/internal/pkg/apperr"
)

// BalanceCache is an optional read cache for per-user balances. The service
// invalidates entries after every committed mutation.
type BalanceCache interface {
	Get(userID string) (int64, bool)
	Set(userID string, balance int64)
	Invalidate(userID string)
}

type nopCache struct{}

func (nopCache) Get(string) (int64, bool) { return 0, false }
func (nopCache) Set(string, int64)        {}
func (nopCache) Invalidate(string)        {}

// Service exposes the atomic credit operations on the ledger. Every mutation
// runs as one unit of work: balance change and transaction-log append commit
// together or not at all.
type Service struct {
	store Store
	cache BalanceCache
}

// NewService creates a ledger service from an injected store. cache may be
// nil for uncached deployments and tests.
func NewService(store Store, cache BalanceCache) *Service {
	if cache == nil {
		cache = nopCache{}
	}
	return &Service{store: store, cache: cache}
}

// NewServiceFromDB creates a ledger service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, cache BalanceCache) *Service {
	return NewService(NewStore(db), cache)
}

// Debit subtracts amount from the user's balance and appends a negative
// ledger entry, all-or-nothing. When the balance does not cover the amount
// the whole unit of work is rolled back and ErrInsufficientFunds is
// returned: no balance change, no log entry.
func (s *Service) Debit(ctx context.Context, userID string, amount int64, reason string) (int64, error) {
	if userID == "" {
		return 0, apperr.Wrap(apperr.CodeInvalidInput, "user id is required", apperr.ErrInvalidInput)
	}
	if amount <= 0 {
		return 0, apperr.Wrap(apperr.CodeInvalidInput, "debit amount must be positive", apperr.ErrInvalidInput)
	}

	var newBalance int64
	err := s.store.WithinTx(ctx, func(tx Store) error {
		if err := tx.EnsureBalances(ctx, userID); err != nil {
			return err
		}
		balance, applied, err := tx.DebitBalance(ctx, userID, amount)
		if err != nil {
			return err
		}
		if !applied {
			return apperr.ErrInsufficientFunds
		}
		newBalance = balance
		return tx.AppendTransaction(ctx, &models.CreditTransaction{
			ID:     uuid.NewString(),
			UserID: userID,
			Amount: -amount,
			Reason: reason,
		})
	})
	if err != nil {
		return 0, err
	}
	s.cache.Invalidate(userID)
	return newBalance, nil
}

// Credit adds amount to the user's balance and appends a positive ledger
// entry. stripeSessionID may be empty; when set it correlates the grant to
// a payment session.
func (s *Service) Credit(ctx context.Context, userID string, amount int64, reason, stripeSessionID string) (int64, error) {
	if userID == "" {
		return 0, apperr.Wrap(apperr.CodeInvalidInput, "user id is required", apperr.ErrInvalidInput)
	}
	if amount <= 0 {
		return 0, apperr.Wrap(apperr.CodeInvalidInput, "credit amount must be positive", apperr.ErrInvalidInput)
	}

	var newBalance int64
	err := s.store.WithinTx(ctx, func(tx Store) error {
		if err := tx.EnsureBalances(ctx, userID); err != nil {
			return err
		}
		balance, err := tx.AddBalance(ctx, userID, amount)
		if err != nil {
			return err
		}
		newBalance = balance
		return tx.AppendTransaction(ctx, &models.CreditTransaction{
			ID:              uuid.NewString(),
			UserID:          userID,
			Amount:          amount,
			Reason:          reason,
			StripeSessionID: stripeSessionID,
		})
	})
	if err != nil {
		return 0, err
	}
	s.cache.Invalidate(userID)
	return newBalance, nil
}

// TransferResult reports both post-transfer balances.
type TransferResult struct {
	FromBalance int64
	ToBalance   int64
}

// Transfer moves credits between two users in a single unit of work with
// paired ledger entries (reason_sent / reason_received). If the debit leg
// is rejected the credit leg is rolled back with it; no partial transfer is
// ever observable.
func (s *Service) Transfer(ctx context.Context, fromUserID, toUserID string, amount int64, reason string) (TransferResult, error) {
	var out TransferResult
	if fromUserID == "" || toUserID == "" {
		return out, apperr.Wrap(apperr.CodeInvalidInput, "both user ids are required", apperr.ErrInvalidInput)
	}
	if fromUserID == toUserID {
		return out, apperr.Wrap(apperr.CodeInvalidInput, "cannot transfer to the same user", apperr.ErrInvalidInput)
	}
	if amount <= 0 {
		return out, apperr.Wrap(apperr.CodeInvalidInput, "transfer amount must be positive", apperr.ErrInvalidInput)
	}
	if reason == "" {
		reason = models.ReasonTransfer
	}

	err := s.store.WithinTx(ctx, func(tx Store) error {
		if err := tx.EnsureBalances(ctx, fromUserID, toUserID); err != nil {
			return err
		}
		fromBalance, applied, err := tx.DebitBalance(ctx, fromUserID, amount)
		if err != nil {
			return err
		}
		if !applied {
			return apperr.ErrInsufficientFunds
		}
		toBalance, err := tx.AddBalance(ctx, toUserID, amount)
		if err != nil {
			return err
		}
		out = TransferResult{FromBalance: fromBalance, ToBalance: toBalance}

		if err := tx.AppendTransaction(ctx, &models.CreditTransaction{
			ID:     uuid.NewString(),
			UserID: fromUserID,
			Amount: -amount,
			Reason: reason + "_sent",
		}); err != nil {
			return err
		}
		return tx.AppendTransaction(ctx, &models.CreditTransaction{
			ID:     uuid.NewString(),
			UserID: toUserID,
			Amount: amount,
			Reason: reason + "_received",
		})
	})
	if err != nil {
		return TransferResult{}, err
	}
	s.cache.Invalidate(fromUserID)
	s.cache.Invalidate(toUserID)
	return out, nil
}

// BatchOp is one entry of a BatchCredit call. Negative amounts are debits
// and are evaluated conditionally like Debit.
type BatchOp struct {
	UserID          string
	Amount          int64
	Reason          string
	StripeSessionID string
}

// BatchResult is the per-user outcome of a BatchCredit call.
type BatchResult struct {
	NewBalance int64
	Err        error
}

// BatchCredit applies every operation inside one shared unit of work,
// pre-creating all referenced balance rows up front. Unlike Debit and
// Transfer, partial success is intentional: an entry whose debit would go
// negative is recorded as a failure in the result map while the remaining
// entries still commit.
func (s *Service) BatchCredit(ctx context.Context, ops []BatchOp) (map[string]BatchResult, error) {
	if len(ops) == 0 {
		return map[string]BatchResult{}, nil
	}
	for _, op := range ops {
		if op.UserID == "" {
			return nil, apperr.Wrap(apperr.CodeInvalidInput, "every batch entry needs a user id", apperr.ErrInvalidInput)
		}
		if op.Amount == 0 {
			return nil, apperr.Wrap(apperr.CodeInvalidInput, fmt.Sprintf("zero amount for user %s", op.UserID), apperr.ErrInvalidInput)
		}
	}

	results := make(map[string]BatchResult, len(ops))
	userIDs := make([]string, 0, len(ops))
	for _, op := range ops {
		userIDs = append(userIDs, op.UserID)
	}

	err := s.store.WithinTx(ctx, func(tx Store) error {
		if err := tx.EnsureBalances(ctx, userIDs...); err != nil {
			return err
		}
		for _, op := range ops {
			var (
				balance int64
				err     error
			)
			if op.Amount < 0 {
				var applied bool
				balance, applied, err = tx.DebitBalance(ctx, op.UserID, -op.Amount)
				if err == nil && !applied {
					results[op.UserID] = BatchResult{Err: apperr.ErrInsufficientFunds}
					continue
				}
			} else {
				balance, err = tx.AddBalance(ctx, op.UserID, op.Amount)
			}
			if err != nil {
				return err
			}
			if err := tx.AppendTransaction(ctx, &models.CreditTransaction{
				ID:              uuid.NewString(),
				UserID:          op.UserID,
				Amount:          op.Amount,
				Reason:          op.Reason,
				StripeSessionID: op.StripeSessionID,
			}); err != nil {
				return err
			}
			results[op.UserID] = BatchResult{NewBalance: balance}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, id := range userIDs {
		s.cache.Invalidate(id)
	}
	return results, nil
}

// PurchaseGrant carries the confirmed payment-session data a credit grant
// is derived from.
type PurchaseGrant struct {
	UserID          string
	SessionID       string
	PaymentIntentID string
	PriceID         string
	AmountTotal     int64
	Currency        string
	Status          string
	Credits         int64
}

// GrantPurchase applies a confirmed payment to the ledger: balance add,
// checkout_session_completed log entry and PaymentRecord insert commit as
// one unit of work. The unique index on the session id turns a concurrent
// duplicate delivery into ErrDuplicateEvent instead of a double grant.
func (s *Service) GrantPurchase(ctx context.Context, g PurchaseGrant) (int64, error) {
	if g.UserID == "" {
		return 0, apperr.Wrap(apperr.CodeInvalidInput, "payment grant without user id", apperr.ErrInvalidInput)
	}
	if g.SessionID == "" {
		return 0, apperr.Wrap(apperr.CodeInvalidInput, "payment grant without session id", apperr.ErrInvalidInput)
	}
	if g.Credits <= 0 {
		return 0, apperr.Wrap(apperr.CodeInvalidInput, "payment grant without credits", apperr.ErrInvalidInput)
	}

	var newBalance int64
	err := s.store.WithinTx(ctx, func(tx Store) error {
		if err := tx.EnsureBalances(ctx, g.UserID); err != nil {
			return err
		}
		balance, err := tx.AddBalance(ctx, g.UserID, g.Credits)
		if err != nil {
			return err
		}
		newBalance = balance
		if err := tx.AppendTransaction(ctx, &models.CreditTransaction{
			ID:              uuid.NewString(),
			UserID:          g.UserID,
			Amount:          g.Credits,
			Reason:          models.ReasonCheckoutCompleted,
			StripeSessionID: g.SessionID,
		}); err != nil {
			return err
		}
		return tx.InsertPaymentRecord(ctx, &models.PaymentRecord{
			ID:                    uuid.NewString(),
			UserID:                g.UserID,
			StripeSessionID:       g.SessionID,
			StripePaymentIntentID: g.PaymentIntentID,
			PriceID:               g.PriceID,
			Amount:                g.AmountTotal,
			Currency:              g.Currency,
			Status:                g.Status,
			CreditsGranted:        g.Credits,
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, apperr.Wrap(apperr.CodeDuplicateEvent, "session already credited", apperr.ErrDuplicateEvent)
		}
		return 0, err
	}
	s.cache.Invalidate(g.UserID)
	return newBalance, nil
}

// SessionProcessed reports whether a checkout session has already been
// applied to the ledger.
func (s *Service) SessionProcessed(ctx context.Context, stripeSessionID string) (bool, error) {
	return s.store.SessionProcessed(ctx, stripeSessionID)
}

// Balance returns the user's current credit balance, reading through the
// cache when one is configured. A user without a balance row reads as 0.
func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, apperr.Wrap(apperr.CodeInvalidInput, "user id is required", apperr.ErrInvalidInput)
	}
	if balance, ok := s.cache.Get(userID); ok {
		return balance, nil
	}
	balance, err := s.store.Balance(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.cache.Set(userID, balance)
	return balance, nil
}

// Transactions lists ledger entries, newest first.
func (s *Service) Transactions(ctx context.Context, f TransactionFilter) ([]models.CreditTransaction, error) {
	return s.store.Transactions(ctx, f)
}

// Payments lists payment records, newest first.
func (s *Service) Payments(ctx context.Context, f PaymentFilter) ([]models.PaymentRecord, error) {
	return s.store.Payments(ctx, f)
}
