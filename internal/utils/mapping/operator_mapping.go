package mapping

import (
	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	"github.com/StarGiftLabs/star_gifting_app/internal/models"
)

// ToDomainOperator converts the operator ledger row into its domain form.
func ToDomainOperator(m models.Operator) domain.OperatorLedger {
	return domain.OperatorLedger{
		CommissionBalance:      m.CommissionBalance,
		CommissionRate:         m.CommissionRate,
		TotalEarned:            m.TotalEarned,
		TotalDepositsProcessed: m.TotalDepositsProcessed,
		TotalAdminShareEarned:  m.TotalAdminShareEarned,
		TotalItemsPurchased:    m.TotalItemsPurchased,
		TotalSpentOnItems:      m.TotalSpentOnItems,
		LastWithdrawalAt:       m.LastWithdrawalAt,
		Version:                m.Version,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}
