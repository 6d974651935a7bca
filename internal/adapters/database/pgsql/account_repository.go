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
)

const accountColumns = `account_id, balance, total_deposited, total_spent, total_purchases,
	language, blocked, profiles, last_active_at, version, created_at, last_updated_at`

type accountRepository struct {
	pool *pgxpool.Pool
}

func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &accountRepository{pool: pool}
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Balance,
		&m.TotalDeposited,
		&m.TotalSpent,
		&m.TotalPurchases,
		&m.Language,
		&m.Blocked,
		&m.ProfilesJSON,
		&m.LastActiveAt,
		&m.Version,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	account, err := mapping.ToDomainAccount(m)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE account_id = $1`, accountColumns)
	return scanAccount(r.pool.QueryRow(ctx, query, accountID))
}

func (r *accountRepository) FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID int64) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE account_id = $1 FOR UPDATE`, accountColumns)
	return scanAccount(tx.QueryRow(ctx, query, accountID))
}

func (r *accountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts ORDER BY account_id LIMIT $1 OFFSET $2`, accountColumns)
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

func (r *accountRepository) AggregateAccountStats(ctx context.Context) (*portsrepo.AccountStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE total_purchases > 0),
		       COALESCE(SUM(balance), 0),
		       COALESCE(SUM(total_spent), 0)
		FROM accounts;
	`
	var stats portsrepo.AccountStats
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalAccounts,
		&stats.ActiveAccounts,
		&stats.TotalBalance,
		&stats.TotalSpent,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate account stats: %w", err)
	}
	return &stats, nil
}

func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m, err := mapping.ToModelAccount(account)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO accounts (account_id, balance, total_deposited, total_spent, total_purchases,
			language, blocked, profiles, last_active_at, version, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $11);
	`
	_, err = r.pool.Exec(ctx, query,
		m.AccountID,
		m.Balance,
		m.TotalDeposited,
		m.TotalSpent,
		m.TotalPurchases,
		m.Language,
		m.Blocked,
		m.ProfilesJSON,
		m.LastActiveAt,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: account %d", apperrors.ErrDuplicate, account.AccountID)
		}
		return fmt.Errorf("failed to save account %d: %w", account.AccountID, err)
	}
	return nil
}

// UpdateAccount applies an optimistic-concurrency write: the row is
// only updated when the stored version still matches, and the version
// is bumped with the write.
func (r *accountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	tag, err := r.execUpdate(ctx, r.pool, account)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %d version %d", apperrors.ErrConflict, account.AccountID, account.Version)
	}
	return nil
}

func (r *accountRepository) UpdateAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	tag, err := r.execUpdate(ctx, tx, account)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Row-locked reads make a version mismatch inside a transaction
		// impossible unless the account vanished.
		return fmt.Errorf("%w: account %d", apperrors.ErrNotFound, account.AccountID)
	}
	return nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *accountRepository) execUpdate(ctx context.Context, e execer, account domain.Account) (pgconn.CommandTag, error) {
	m, err := mapping.ToModelAccount(account)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	query := `
		UPDATE accounts
		SET balance = $2, total_deposited = $3, total_spent = $4, total_purchases = $5,
			language = $6, blocked = $7, profiles = $8, last_active_at = $9,
			last_updated_at = $10, version = version + 1
		WHERE account_id = $1 AND version = $11;
	`
	tag, err := e.Exec(ctx, query,
		m.AccountID,
		m.Balance,
		m.TotalDeposited,
		m.TotalSpent,
		m.TotalPurchases,
		m.Language,
		m.Blocked,
		m.ProfilesJSON,
		m.LastActiveAt,
		m.LastUpdatedAt,
		m.Version,
	)
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("failed to update account %d: %w", account.AccountID, err)
	}
	return tag, nil
}

// Begin starts a new database transaction.
func (r *accountRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// Commit commits a transaction.
func (r *accountRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	return tx.Commit(ctx)
}

// Rollback rolls back a transaction.
func (r *accountRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	return tx.Rollback(ctx)
}
