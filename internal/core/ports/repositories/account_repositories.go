package repositories

import (
	"context"

	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AccountStats aggregates account figures for the operator dashboard.
type AccountStats struct {
	TotalAccounts  int64
	ActiveAccounts int64 // Accounts with at least one purchase
	TotalBalance   int64
	TotalSpent     int64
}

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its provider user id.
	FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts ordered by id.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)

	// AggregateAccountStats computes dashboard totals over all accounts.
	AggregateAccountStats(ctx context.Context) (*AccountStats, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account using optimistic
	// concurrency: the write only applies if the stored version still
	// matches account.Version. Returns apperrors.ErrConflict otherwise.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountTransactionSupport defines operations used inside ledger transactions.
type AccountTransactionSupport interface {
	// FindAccountByIDForUpdate selects an account and row-locks it within a transaction.
	FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID int64) (*domain.Account, error)

	// UpdateAccountInTx writes an account within the given transaction.
	UpdateAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error
}

// AccountRepository combines all account-related repository interfaces.
type AccountRepository interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
	TransactionManager
}
