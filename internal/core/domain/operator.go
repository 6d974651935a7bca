package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperatorLedger is the single record tracking commission income kept
// separate from any account's balance. Credited on every deposit and on
// every purchase admin share, debited (floored at zero) on withdrawal
// and on refund clawback.
type OperatorLedger struct {
	CommissionBalance      int64           `json:"commissionBalance"` // Never negative
	CommissionRate         decimal.Decimal `json:"commissionRate"`    // Fraction, policy-bounded
	TotalEarned            int64           `json:"totalEarned"`
	TotalDepositsProcessed int64           `json:"totalDepositsProcessed"` // Gross deposit volume
	TotalAdminShareEarned  int64           `json:"totalAdminShareEarned"`
	TotalItemsPurchased    int64           `json:"totalItemsPurchased"`
	TotalSpentOnItems      int64           `json:"totalSpentOnItems"`
	LastWithdrawalAt       *time.Time      `json:"lastWithdrawalAt,omitempty"`
	Version                int64           `json:"-"`
	AuditFields
}
