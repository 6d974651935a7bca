package repositories

import (
	"context"

	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// OperatorRepository manages the singleton operator ledger record.
type OperatorRepository interface {
	// SeedOperator creates the operator ledger row with the given
	// commission rate if it does not exist yet. A no-op on an existing
	// row, so an admin-set rate survives restarts.
	SeedOperator(ctx context.Context, rate decimal.Decimal) error

	// GetOperator retrieves the operator ledger.
	GetOperator(ctx context.Context) (*domain.OperatorLedger, error)

	// UpdateOperator writes the operator ledger using optimistic
	// concurrency; returns apperrors.ErrConflict on a version mismatch.
	UpdateOperator(ctx context.Context, ledger domain.OperatorLedger) error

	// GetOperatorForUpdate selects and row-locks the operator ledger within a transaction.
	GetOperatorForUpdate(ctx context.Context, tx pgx.Tx) (*domain.OperatorLedger, error)

	// UpdateOperatorInTx writes the operator ledger within the given transaction.
	UpdateOperatorInTx(ctx context.Context, tx pgx.Tx, ledger domain.OperatorLedger) error
}
