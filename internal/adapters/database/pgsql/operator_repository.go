package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/StarGiftLabs/star_gifting_app/internal/apperrors"
	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	portsrepo "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/repositories"
	"github.com/StarGiftLabs/star_gifting_app/internal/models"
	"github.com/StarGiftLabs/star_gifting_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// The operator ledger is a singleton row seeded at boot.
const operatorQuery = `
	SELECT id, commission_balance, commission_rate, total_earned, total_deposits_processed,
		total_admin_share_earned, total_items_purchased, total_spent_on_items,
		last_withdrawal_at, version, created_at, last_updated_at
	FROM operator_ledger WHERE id = 1`

type operatorRepository struct {
	pool *pgxpool.Pool
}

func newPgxOperatorRepository(pool *pgxpool.Pool) portsrepo.OperatorRepository {
	return &operatorRepository{pool: pool}
}

func scanOperator(row rowScanner) (*domain.OperatorLedger, error) {
	var m models.Operator
	err := row.Scan(
		&m.ID,
		&m.CommissionBalance,
		&m.CommissionRate,
		&m.TotalEarned,
		&m.TotalDepositsProcessed,
		&m.TotalAdminShareEarned,
		&m.TotalItemsPurchased,
		&m.TotalSpentOnItems,
		&m.LastWithdrawalAt,
		&m.Version,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan operator ledger: %w", err)
	}
	ledger := mapping.ToDomainOperator(m)
	return &ledger, nil
}

func (r *operatorRepository) SeedOperator(ctx context.Context, rate decimal.Decimal) error {
	query := `
		INSERT INTO operator_ledger (id, commission_rate)
		VALUES (1, $1)
		ON CONFLICT (id) DO NOTHING;
	`
	if _, err := r.pool.Exec(ctx, query, rate); err != nil {
		return fmt.Errorf("failed to seed operator ledger: %w", err)
	}
	return nil
}

func (r *operatorRepository) GetOperator(ctx context.Context) (*domain.OperatorLedger, error) {
	return scanOperator(r.pool.QueryRow(ctx, operatorQuery))
}

func (r *operatorRepository) GetOperatorForUpdate(ctx context.Context, tx pgx.Tx) (*domain.OperatorLedger, error) {
	return scanOperator(tx.QueryRow(ctx, operatorQuery+` FOR UPDATE`))
}

func (r *operatorRepository) UpdateOperator(ctx context.Context, ledger domain.OperatorLedger) error {
	tag, err := r.execUpdate(ctx, r.pool, ledger)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: operator ledger version %d", apperrors.ErrConflict, ledger.Version)
	}
	return nil
}

func (r *operatorRepository) UpdateOperatorInTx(ctx context.Context, tx pgx.Tx, ledger domain.OperatorLedger) error {
	tag, err := r.execUpdate(ctx, tx, ledger)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: operator ledger", apperrors.ErrNotFound)
	}
	return nil
}

func (r *operatorRepository) execUpdate(ctx context.Context, e execer, ledger domain.OperatorLedger) (tag pgconn.CommandTag, err error) {
	query := `
		UPDATE operator_ledger
		SET commission_balance = $1, commission_rate = $2, total_earned = $3,
			total_deposits_processed = $4, total_admin_share_earned = $5,
			total_items_purchased = $6, total_spent_on_items = $7,
			last_withdrawal_at = $8, last_updated_at = $9, version = version + 1
		WHERE id = 1 AND version = $10;
	`
	tag, err = e.Exec(ctx, query,
		ledger.CommissionBalance,
		ledger.CommissionRate,
		ledger.TotalEarned,
		ledger.TotalDepositsProcessed,
		ledger.TotalAdminShareEarned,
		ledger.TotalItemsPurchased,
		ledger.TotalSpentOnItems,
		ledger.LastWithdrawalAt,
		ledger.LastUpdatedAt,
		ledger.Version,
	)
	if err != nil {
		return tag, fmt.Errorf("failed to update operator ledger: %w", err)
	}
	return tag, nil
}
