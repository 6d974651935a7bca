package dto

import (
	"time"

	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
)

// OperatorResponse is the API representation of the operator ledger.
type OperatorResponse struct {
	CommissionBalance      int64      `json:"commissionBalance"`
	CommissionRate         string     `json:"commissionRate"`
	TotalEarned            int64      `json:"totalEarned"`
	TotalDepositsProcessed int64      `json:"totalDepositsProcessed"`
	TotalAdminShareEarned  int64      `json:"totalAdminShareEarned"`
	TotalItemsPurchased    int64      `json:"totalItemsPurchased"`
	TotalSpentOnItems      int64      `json:"totalSpentOnItems"`
	LastWithdrawalAt       *time.Time `json:"lastWithdrawalAt,omitempty"`
}

// ToOperatorResponse converts the operator ledger to its API representation.
func ToOperatorResponse(operator *domain.OperatorLedger) OperatorResponse {
	return OperatorResponse{
		CommissionBalance:      operator.CommissionBalance,
		CommissionRate:         operator.CommissionRate.String(),
		TotalEarned:            operator.TotalEarned,
		TotalDepositsProcessed: operator.TotalDepositsProcessed,
		TotalAdminShareEarned:  operator.TotalAdminShareEarned,
		TotalItemsPurchased:    operator.TotalItemsPurchased,
		TotalSpentOnItems:      operator.TotalSpentOnItems,
		LastWithdrawalAt:       operator.LastWithdrawalAt,
	}
}

// SetCommissionRateRequest updates the deposit commission rate.
// The rate is a decimal fraction, e.g. "0.10".
type SetCommissionRateRequest struct {
	Rate string `json:"rate" binding:"required"`
}

// WithdrawCommissionRequest debits the operator commission balance.
type WithdrawCommissionRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// AnalyticsResponse aggregates system figures for the dashboard.
type AnalyticsResponse struct {
	TotalAccounts     int64  `json:"totalAccounts"`
	ActiveAccounts    int64  `json:"activeAccounts"`
	TotalBalance      int64  `json:"totalBalance"`
	TotalSpent        int64  `json:"totalSpent"`
	CommissionBalance int64  `json:"commissionBalance"`
	TotalCommissions  int64  `json:"totalCommissions"`
	CommissionRate    string `json:"commissionRate"`
}
