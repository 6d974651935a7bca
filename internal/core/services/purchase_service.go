package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/StarGiftLabs/star_gifting_app/internal/apperrors"
	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	"github.com/StarGiftLabs/star_gifting_app/internal/core/ports/gateways"
	portsrepo "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/repositories"
	portssvc "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/services"
	"github.com/StarGiftLabs/star_gifting_app/internal/middleware"
	"github.com/StarGiftLabs/star_gifting_app/internal/platform/retry"
)

// purchaseService performs one attempt to acquire one catalog item for
// one account. The provider call runs under the retry policy; the ledger
// is only charged after the provider confirms delivery, so a failed
// attempt never costs the account anything.
type purchaseService struct {
	gateway     gateways.PaymentGateway
	ledger      portssvc.LedgerSvc
	accountRepo portsrepo.AccountRepository
	policy      retry.Policy
}

// NewPurchaseService creates the purchase executor.
func NewPurchaseService(gateway gateways.PaymentGateway, ledger portssvc.LedgerSvc, accountRepo portsrepo.AccountRepository, policy retry.Policy) portssvc.PurchaseSvc {
	return &purchaseService{
		gateway:     gateway,
		ledger:      ledger,
		accountRepo: accountRepo,
		policy:      policy,
	}
}

var _ portssvc.PurchaseSvc = (*purchaseService)(nil)

func (s *purchaseService) Execute(ctx context.Context, accountID int64, item domain.CatalogItem, recipient gateways.Recipient) error {
	logger := middleware.GetLoggerFromCtx(ctx).With(
		slog.Int64("account_id", accountID),
		slog.String("item_id", item.ID),
		slog.Int64("price", item.Price))

	if (recipient.AccountID == nil) == (recipient.Channel == nil) {
		return fmt.Errorf("%w: exactly one recipient target must be set", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.Balance < item.Price {
		return fmt.Errorf("%w: balance %d, item price %d", apperrors.ErrInsufficientFunds, account.Balance, item.Price)
	}

	err = s.policy.Do(ctx, logger, func(ctx context.Context) error {
		return s.gateway.SendItem(ctx, item.ID, recipient)
	})
	if err != nil {
		logger.Error("Item purchase failed", slog.String("error", err.Error()))
		return err
	}

	// Delivery confirmed; charge the account and credit the admin share.
	newBalance, adminShare, err := s.ledger.ChargePurchase(ctx, accountID, item.ID, item.Price)
	if err != nil {
		// The item went out but the charge did not apply. Surface loudly;
		// the audit trail is the reconciliation point.
		logger.Error("Item delivered but charge failed", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Item purchased",
		slog.Int64("new_balance", newBalance),
		slog.Int64("admin_share", adminShare))
	return nil
}
