package services

import (
	"github.com/StarGiftLabs/star_gifting_app/internal/core/ports/gateways"
	portsrepo "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/repositories"
	portssvc "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/services"
	"github.com/StarGiftLabs/star_gifting_app/internal/platform/retry"
	"github.com/StarGiftLabs/star_gifting_app/pkg/config"
)

// NewServiceContainer creates a service container with properly wired dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, gateway gateways.PaymentGateway) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Ledger = NewLedgerService(repos.AccountRepo, repos.OperatorRepo, repos.JournalRepo, cfg)
	container.Account = NewAccountService(repos.AccountRepo, cfg)

	policy := retry.Policy{
		MaxAttempts: cfg.PurchaseMaxAttempts,
		BackoffUnit: cfg.BackoffUnit,
	}
	container.Purchase = NewPurchaseService(gateway, container.Ledger, repos.AccountRepo, policy)
	container.Refund = NewRefundService(gateway, container.Ledger, cfg.RefundExactThreshold)
	container.Operator = NewOperatorService(repos.OperatorRepo, repos.AccountRepo, container.Ledger, cfg)
	container.Token = NewTokenService(cfg)

	return container
}
