package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	portsrepo "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// journalRepository appends write-once audit rows. There is no update or
// delete path by design.
type journalRepository struct {
	pool *pgxpool.Pool
}

func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepository {
	return &journalRepository{pool: pool}
}

const appendEntryQuery = `
	INSERT INTO journal_entries (entry_id, entry_type, account_id, amount, rate, occurred_at, entry_date, metadata)
	VALUES ($1, $2, $3, $4, $5, $6, ($6)::date, $7);
`

func (r *journalRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) error {
	args, err := appendArgs(entry)
	if err != nil {
		return err
	}
	if _, err := r.pool.Exec(ctx, appendEntryQuery, args...); err != nil {
		return fmt.Errorf("failed to append journal entry %s: %w", entry.EntryID, err)
	}
	return nil
}

func (r *journalRepository) AppendEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	args, err := appendArgs(entry)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, appendEntryQuery, args...); err != nil {
		return fmt.Errorf("failed to append journal entry %s: %w", entry.EntryID, err)
	}
	return nil
}

func appendArgs(entry domain.LedgerEntry) ([]any, error) {
	var metadataJSON []byte
	if entry.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(entry.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to encode metadata for entry %s: %w", entry.EntryID, err)
		}
	}
	return []any{
		entry.EntryID,
		string(entry.Type),
		entry.AccountID,
		entry.Amount,
		entry.Rate,
		entry.OccurredAt,
		metadataJSON,
	}, nil
}

func (r *journalRepository) ListEntries(ctx context.Context, accountID int64, entryType domain.EntryType, limit int) ([]domain.LedgerEntry, error) {
	query := `
		SELECT entry_id, entry_type, account_id, amount, rate, occurred_at, metadata
		FROM journal_entries
		WHERE account_id = $1 AND entry_type = $2
		ORDER BY occurred_at DESC
		LIMIT $3;
	`
	rows, err := r.pool.Query(ctx, query, accountID, string(entryType), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var entry domain.LedgerEntry
		var entryType string
		var metadataJSON []byte
		err := rows.Scan(
			&entry.EntryID,
			&entryType,
			&entry.AccountID,
			&entry.Amount,
			&entry.Rate,
			&entry.OccurredAt,
			&metadataJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entry.Type = domain.EntryType(entryType)
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode metadata for entry %s: %w", entry.EntryID, err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal entries: %w", err)
	}
	return entries, nil
}
