package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the database representation of one append-only audit
// row. EntryDate is the day partition key for the daily audit trail.
type JournalEntry struct {
	EntryID      string
	EntryType    string
	AccountID    int64
	Amount       int64
	Rate         decimal.Decimal
	OccurredAt   time.Time
	EntryDate    time.Time
	MetadataJSON []byte
}
