package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/congo-pay/account_ledger/internal/notification"
)

// Service applies the ledger's business rules on top of a Store: operations on a
// missing account fail with ErrAccountNotFound, and deposits and withdrawals add or
// subtract the requested amount. Amounts are not validated; negative, NaN and
// infinite values are applied as given and overdrafts are allowed.
type Service struct {
	store    Store
	notifier notification.Notifier
	logger   *slog.Logger
	locks    *accountLocks
}

// NewService builds a ledger service. notifier may be nil.
func NewService(store Store, notifier notification.Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, notifier: notifier, logger: logger, locks: newAccountLocks()}
}

// CreateAccount stores a new account and returns it with its assigned number.
// Nil holder names and balances are stored as-is.
func (s *Service) CreateAccount(ctx context.Context, holderName *string, balance *float64) (Account, error) {
	account, err := s.store.Put(ctx, Account{HolderName: holderName, Balance: balance})
	if err != nil {
		return Account{}, fmt.Errorf("create account: %w", err)
	}
	s.notify(ctx, notification.KindAccountOpened, account, nil)
	return account, nil
}

// GetAccountDetails returns the account or ErrAccountNotFound.
func (s *Service) GetAccountDetails(ctx context.Context, id int64) (Account, error) {
	account, found, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Account{}, fmt.Errorf("get account %d: %w", id, err)
	}
	if !found {
		return Account{}, fmt.Errorf("account %d: %w", id, ErrAccountNotFound)
	}
	return account, nil
}

// GetAllAccounts lists every stored account. An empty store yields an empty slice.
func (s *Service) GetAllAccounts(ctx context.Context) ([]Account, error) {
	return s.store.ListAll(ctx)
}

// DepositAmount adds amount to the account balance.
func (s *Service) DepositAmount(ctx context.Context, id int64, amount float64) (Account, error) {
	return s.adjust(ctx, id, amount, notification.KindDeposit)
}

// WithdrawAmount subtracts amount from the account balance. The result may go negative.
func (s *Service) WithdrawAmount(ctx context.Context, id int64, amount float64) (Account, error) {
	return s.adjust(ctx, id, -amount, notification.KindWithdrawal)
}

// CloseAccount deletes an existing account. Unlike Store.DeleteByID, closing an
// unknown account fails with ErrAccountNotFound.
func (s *Service) CloseAccount(ctx context.Context, id int64) error {
	account, err := s.closeLocked(ctx, id)
	if err != nil {
		return err
	}
	s.notify(ctx, notification.KindAccountClosed, account, nil)
	return nil
}

func (s *Service) closeLocked(ctx context.Context, id int64) (Account, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	account, err := s.GetAccountDetails(ctx, id)
	if err != nil {
		return Account{}, err
	}
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return Account{}, fmt.Errorf("close account %d: %w", id, err)
	}
	return account, nil
}

// adjust stores balance+delta and emits the event once the account lock is released.
func (s *Service) adjust(ctx context.Context, id int64, delta float64, kind string) (Account, error) {
	updated, err := s.adjustLocked(ctx, id, delta)
	if err != nil {
		return Account{}, err
	}

	amount := delta
	if kind == notification.KindWithdrawal {
		amount = -delta
	}
	s.notify(ctx, kind, updated, &amount)
	return updated, nil
}

// adjustLocked re-reads the account and stores balance+delta while holding the account lock.
func (s *Service) adjustLocked(ctx context.Context, id int64, delta float64) (Account, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	account, err := s.GetAccountDetails(ctx, id)
	if err != nil {
		return Account{}, err
	}

	var current float64
	if account.Balance != nil {
		current = *account.Balance
	}
	next := current + delta
	account.Balance = &next

	updated, err := s.store.Put(ctx, account)
	if err != nil {
		return Account{}, fmt.Errorf("update account %d: %w", id, err)
	}
	return updated, nil
}

func (s *Service) notify(ctx context.Context, kind string, account Account, amount *float64) {
	if s.notifier == nil {
		return
	}
	event := notification.Event{
		Kind:          kind,
		AccountNumber: account.ID,
		Amount:        formatAmount(amount),
		Balance:       formatAmount(account.Balance),
	}
	if err := s.notifier.Send(ctx, event); err != nil {
		s.logger.Warn("account event not delivered",
			slog.String("kind", kind),
			slog.Int64("account_number", account.ID),
			slog.Any("error", err),
		)
	}
}

func formatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
