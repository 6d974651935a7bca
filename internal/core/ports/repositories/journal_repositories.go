package repositories

import (
	"context"

	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// JournalRepository appends write-once entries to the audit trail.
// Entries are never updated or deleted. The only read path back into
// decision logic is the deposit-rate lookup used for refund clawback.
type JournalRepository interface {
	// AppendEntry persists one audit entry.
	AppendEntry(ctx context.Context, entry domain.LedgerEntry) error

	// AppendEntryInTx persists one audit entry within the given transaction.
	AppendEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error

	// ListEntries retrieves the most recent entries of one type for an
	// account, newest first.
	ListEntries(ctx context.Context, accountID int64, entryType domain.EntryType, limit int) ([]domain.LedgerEntry, error)
}
