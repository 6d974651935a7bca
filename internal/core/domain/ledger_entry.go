package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType classifies append-only audit log entries.
type EntryType string

const (
	EntryDepositCommission    EntryType = "DEPOSIT_COMMISSION"
	EntryPurchase             EntryType = "PURCHASE"
	EntryAdminShare           EntryType = "ADMIN_SHARE"
	EntryCommissionWithdrawal EntryType = "COMMISSION_WITHDRAWAL"
	EntryRefund               EntryType = "REFUND"
	EntryClawback             EntryType = "CLAWBACK"
	EntryProfileDone          EntryType = "PROFILE_DONE"
)

// LedgerEntry is one write-once record in the audit trail. Entries are
// never updated or deleted. The Rate field captures the commission rate
// in effect at write time; deposit entries are the authoritative source
// for the rate used when clawing back commission on a later refund.
type LedgerEntry struct {
	EntryID    string          `json:"entryID"` // UUID
	Type       EntryType       `json:"type"`
	AccountID  int64           `json:"accountID"`
	Amount     int64           `json:"amount"`
	Rate       decimal.Decimal `json:"rate"`
	OccurredAt time.Time       `json:"occurredAt"`
	Metadata   map[string]any  `json:"metadata,omitempty"`
}
