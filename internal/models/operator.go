package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operator is the database representation of the singleton operator
// ledger row.
type Operator struct {
	ID                     int16 // Always 1
	CommissionBalance      int64
	CommissionRate         decimal.Decimal
	TotalEarned            int64
	TotalDepositsProcessed int64
	TotalAdminShareEarned  int64
	TotalItemsPurchased    int64
	TotalSpentOnItems      int64
	LastWithdrawalAt       *time.Time
	Version                int64
	CreatedAt              time.Time
	LastUpdatedAt          time.Time
}
