package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/StarGiftLabs/star_gifting_app/internal/apperrors"
	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	portsrepo "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/repositories"
	portssvc "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/services"
	"github.com/StarGiftLabs/star_gifting_app/internal/middleware"
	"github.com/StarGiftLabs/star_gifting_app/pkg/config"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ledgerService implements the balance and commission ledger. Every
// mutation runs inside one database transaction: row locks on the
// affected records, in-memory arithmetic, one write per record, then
// commit. A failure before commit leaves prior state unchanged.
type ledgerService struct {
	accountRepo  portsrepo.AccountRepository
	operatorRepo portsrepo.OperatorRepository
	journalRepo  portsrepo.JournalRepository
	cfg          *config.Config
}

// NewLedgerService creates the ledger service.
func NewLedgerService(accountRepo portsrepo.AccountRepository, operatorRepo portsrepo.OperatorRepository, journalRepo portsrepo.JournalRepository, cfg *config.Config) portssvc.LedgerSvc {
	return &ledgerService{
		accountRepo:  accountRepo,
		operatorRepo: operatorRepo,
		journalRepo:  journalRepo,
		cfg:          cfg,
	}
}

var _ portssvc.LedgerSvc = (*ledgerService)(nil)

// persistenceErr tags storage failures with the ledger error taxonomy.
func persistenceErr(err error) error {
	return fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
}

// floorShare computes floor(amount * rate) in smallest currency units.
func floorShare(amount int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(rate).Floor().IntPart()
}

func (s *ledgerService) Credit(ctx context.Context, accountID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: credit amount must be positive, got %d", apperrors.ErrInvalidAmount, amount)
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	var newBalance int64
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		account, err := s.accountRepo.FindAccountByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}
		account.Balance += amount
		account.TotalDeposited += amount
		account.LastActiveAt = time.Now().UTC()
		if err := s.accountRepo.UpdateAccountInTx(ctx, tx, *account); err != nil {
			return persistenceErr(err)
		}
		newBalance = account.Balance
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("Account credited", slog.Int64("account_id", accountID), slog.Int64("amount", amount), slog.Int64("new_balance", newBalance))
	return newBalance, nil
}

func (s *ledgerService) Debit(ctx context.Context, accountID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: debit amount must be positive, got %d", apperrors.ErrInvalidAmount, amount)
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	var newBalance int64
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		account, err := s.accountRepo.FindAccountByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}
		// Floored at zero. Callers validate sufficiency beforehand; the
		// floor keeps the non-negative balance invariant under races.
		removed := amount
		if removed > account.Balance {
			removed = account.Balance
		}
		account.Balance -= removed
		account.TotalSpent += removed
		account.LastActiveAt = time.Now().UTC()
		if err := s.accountRepo.UpdateAccountInTx(ctx, tx, *account); err != nil {
			return persistenceErr(err)
		}
		newBalance = account.Balance
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("Account debited", slog.Int64("account_id", accountID), slog.Int64("amount", amount), slog.Int64("new_balance", newBalance))
	return newBalance, nil
}

func (s *ledgerService) ApplyCommission(ctx context.Context, accountID int64, gross int64) (int64, int64, error) {
	if gross <= 0 {
		return 0, 0, fmt.Errorf("%w: gross deposit must be positive, got %d", apperrors.ErrInvalidAmount, gross)
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	var net, commission int64
	var rate decimal.Decimal
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		account, err := s.accountRepo.FindAccountByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}
		operator, err := s.operatorRepo.GetOperatorForUpdate(ctx, tx)
		if err != nil {
			return err
		}

		// The rate may change between deposits; each deposit is settled
		// and logged with the rate in effect right now.
		rate = operator.CommissionRate
		commission = floorShare(gross, rate)
		net = gross - commission

		account.Balance += net
		account.TotalDeposited += net
		account.LastActiveAt = time.Now().UTC()

		operator.CommissionBalance += commission
		operator.TotalEarned += commission
		operator.TotalDepositsProcessed += gross

		if err := s.accountRepo.UpdateAccountInTx(ctx, tx, *account); err != nil {
			return persistenceErr(err)
		}
		if err := s.operatorRepo.UpdateOperatorInTx(ctx, tx, *operator); err != nil {
			return persistenceErr(err)
		}
		entry := domain.LedgerEntry{
			EntryID:    uuid.NewString(),
			Type:       domain.EntryDepositCommission,
			AccountID:  accountID,
			Amount:     commission,
			Rate:       rate,
			OccurredAt: time.Now().UTC(),
			Metadata:   map[string]any{"gross": gross, "net": net},
		}
		if err := s.journalRepo.AppendEntryInTx(ctx, tx, entry); err != nil {
			return persistenceErr(err)
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	logger.Info("Deposit commission applied",
		slog.Int64("account_id", accountID),
		slog.Int64("gross", gross),
		slog.Int64("net", net),
		slog.Int64("commission", commission),
		slog.String("rate", rate.String()))
	return net, commission, nil
}

func (s *ledgerService) WithdrawCommission(ctx context.Context, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: withdrawal amount must be positive, got %d", apperrors.ErrInvalidAmount, amount)
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		operator, err := s.operatorRepo.GetOperatorForUpdate(ctx, tx)
		if err != nil {
			return err
		}
		if amount > operator.CommissionBalance {
			return fmt.Errorf("%w: commission balance %d, requested %d", apperrors.ErrInsufficientFunds, operator.CommissionBalance, amount)
		}
		now := time.Now().UTC()
		operator.CommissionBalance -= amount
		operator.LastWithdrawalAt = &now

		if err := s.operatorRepo.UpdateOperatorInTx(ctx, tx, *operator); err != nil {
			return persistenceErr(err)
		}
		entry := domain.LedgerEntry{
			EntryID:    uuid.NewString(),
			Type:       domain.EntryCommissionWithdrawal,
			Amount:     amount,
			Rate:       operator.CommissionRate,
			OccurredAt: now,
		}
		if err := s.journalRepo.AppendEntryInTx(ctx, tx, entry); err != nil {
			return persistenceErr(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Commission withdrawn", slog.Int64("amount", amount))
	return nil
}

func (s *ledgerService) ChargePurchase(ctx context.Context, accountID int64, itemID string, price int64) (int64, int64, error) {
	if price <= 0 {
		return 0, 0, fmt.Errorf("%w: item price must be positive, got %d", apperrors.ErrInvalidAmount, price)
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	var newBalance, adminShare int64
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		account, err := s.accountRepo.FindAccountByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if account.Balance < price {
			return fmt.Errorf("%w: balance %d, item price %d", apperrors.ErrInsufficientFunds, account.Balance, price)
		}
		operator, err := s.operatorRepo.GetOperatorForUpdate(ctx, tx)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		account.Balance -= price
		account.TotalSpent += price
		account.TotalPurchases++
		account.LastActiveAt = now

		// Fixed purchase-time share, independent of the configurable
		// deposit commission rate.
		adminShare = floorShare(price, s.cfg.AdminShareRate)
		operator.CommissionBalance += adminShare
		operator.TotalAdminShareEarned += adminShare
		operator.TotalItemsPurchased++
		operator.TotalSpentOnItems += price

		if err := s.accountRepo.UpdateAccountInTx(ctx, tx, *account); err != nil {
			return persistenceErr(err)
		}
		if err := s.operatorRepo.UpdateOperatorInTx(ctx, tx, *operator); err != nil {
			return persistenceErr(err)
		}

		purchaseEntry := domain.LedgerEntry{
			EntryID:    uuid.NewString(),
			Type:       domain.EntryPurchase,
			AccountID:  accountID,
			Amount:     price,
			OccurredAt: now,
			Metadata:   map[string]any{"itemID": itemID},
		}
		if err := s.journalRepo.AppendEntryInTx(ctx, tx, purchaseEntry); err != nil {
			return persistenceErr(err)
		}
		shareEntry := domain.LedgerEntry{
			EntryID:    uuid.NewString(),
			Type:       domain.EntryAdminShare,
			AccountID:  accountID,
			Amount:     adminShare,
			Rate:       s.cfg.AdminShareRate,
			OccurredAt: now,
			Metadata:   map[string]any{"itemID": itemID, "price": price},
		}
		if err := s.journalRepo.AppendEntryInTx(ctx, tx, shareEntry); err != nil {
			return persistenceErr(err)
		}
		newBalance = account.Balance
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	logger.Info("Purchase charged",
		slog.Int64("account_id", accountID),
		slog.String("item_id", itemID),
		slog.Int64("price", price),
		slog.Int64("admin_share", adminShare),
		slog.Int64("new_balance", newBalance))
	return newBalance, adminShare, nil
}

func (s *ledgerService) SettleRefund(ctx context.Context, accountID int64, refunded int64) (int64, error) {
	if refunded <= 0 {
		return 0, fmt.Errorf("%w: refunded amount must be positive, got %d", apperrors.ErrInvalidAmount, refunded)
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	// The clawback uses the rate recorded when the reversed deposits
	// came in; the current rate only serves as a fallback for deposits
	// that predate rate tagging.
	rate, err := s.depositRateFor(ctx, accountID)
	if err != nil {
		return 0, err
	}

	var clawback int64
	err = s.inTx(ctx, func(tx pgx.Tx) error {
		account, err := s.accountRepo.FindAccountByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}
		operator, err := s.operatorRepo.GetOperatorForUpdate(ctx, tx)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		debit := refunded
		if debit > account.Balance {
			debit = account.Balance
		}
		account.Balance -= debit
		account.TotalSpent += debit
		account.LastActiveAt = now

		clawback = floorShare(refunded, rate)
		if clawback > operator.CommissionBalance {
			clawback = operator.CommissionBalance
		}
		operator.CommissionBalance -= clawback

		if err := s.accountRepo.UpdateAccountInTx(ctx, tx, *account); err != nil {
			return persistenceErr(err)
		}
		if err := s.operatorRepo.UpdateOperatorInTx(ctx, tx, *operator); err != nil {
			return persistenceErr(err)
		}

		refundEntry := domain.LedgerEntry{
			EntryID:    uuid.NewString(),
			Type:       domain.EntryRefund,
			AccountID:  accountID,
			Amount:     debit,
			OccurredAt: now,
		}
		if err := s.journalRepo.AppendEntryInTx(ctx, tx, refundEntry); err != nil {
			return persistenceErr(err)
		}
		clawbackEntry := domain.LedgerEntry{
			EntryID:    uuid.NewString(),
			Type:       domain.EntryClawback,
			AccountID:  accountID,
			Amount:     clawback,
			Rate:       rate,
			OccurredAt: now,
		}
		if err := s.journalRepo.AppendEntryInTx(ctx, tx, clawbackEntry); err != nil {
			return persistenceErr(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("Refund settled",
		slog.Int64("account_id", accountID),
		slog.Int64("refunded", refunded),
		slog.Int64("clawback", clawback),
		slog.String("rate", rate.String()))
	return clawback, nil
}

// depositRateFor returns the commission rate recorded with the account's
// most recent deposit, falling back to the current operator rate.
func (s *ledgerService) depositRateFor(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	entries, err := s.journalRepo.ListEntries(ctx, accountID, domain.EntryDepositCommission, 1)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return decimal.Zero, persistenceErr(err)
	}
	if len(entries) > 0 && entries[0].Rate.IsPositive() {
		return entries[0].Rate, nil
	}
	operator, err := s.operatorRepo.GetOperator(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return operator.CommissionRate, nil
}

// inTx runs fn inside one transaction, rolling back on any error.
func (s *ledgerService) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		return persistenceErr(err)
	}
	if err := fn(tx); err != nil {
		_ = s.accountRepo.Rollback(ctx, tx)
		return err
	}
	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		return persistenceErr(err)
	}
	return nil
}
