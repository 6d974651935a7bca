package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/StarGiftLabs/star_gifting_app/internal/apperrors"
	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	"github.com/StarGiftLabs/star_gifting_app/internal/core/ports/gateways"
	portsrepo "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/repositories"
	portssvc "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/services"
	"github.com/StarGiftLabs/star_gifting_app/internal/middleware"
)

// accountPageSize bounds one repository page while walking all accounts.
const accountPageSize = 100

// SchedulerService drives automatic purchases. One cooperative loop
// walks every account's profiles once per tick; each account's work
// completes before the next account is processed, so tick duration
// grows with active-account count and provider latency. Cancellation of
// the run context stops the loop between accounts and sleeps; an
// in-flight purchase attempt is allowed to finish.
type SchedulerService struct {
	accountRepo portsrepo.AccountRepository
	accountSvc  portssvc.AccountSvc
	purchaseSvc portssvc.PurchaseSvc
	gateway     gateways.PaymentGateway
	notifier    portssvc.Notifier
	logger      *slog.Logger

	tickInterval time.Duration
	cooldown     time.Duration
}

// NewSchedulerService creates the purchase scheduler.
func NewSchedulerService(
	accountRepo portsrepo.AccountRepository,
	accountSvc portssvc.AccountSvc,
	purchaseSvc portssvc.PurchaseSvc,
	gateway gateways.PaymentGateway,
	notifier portssvc.Notifier,
	logger *slog.Logger,
	tickInterval time.Duration,
	cooldown time.Duration,
) *SchedulerService {
	return &SchedulerService{
		accountRepo:  accountRepo,
		accountSvc:   accountSvc,
		purchaseSvc:  purchaseSvc,
		gateway:      gateway,
		notifier:     notifier,
		logger:       logger.With(slog.String("component", "scheduler")),
		tickInterval: tickInterval,
		cooldown:     cooldown,
	}
}

// Run executes scheduling ticks until ctx is cancelled.
func (s *SchedulerService) Run(ctx context.Context) {
	ctx = middleware.WithLogger(ctx, s.logger)
	s.logger.Info("Scheduler started", slog.Duration("tick_interval", s.tickInterval))

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.RunTick(ctx)
		}
	}
}

// RunTick processes every account once. Per-account failures are logged
// and never abort the remainder of the walk.
func (s *SchedulerService) RunTick(ctx context.Context) {
	offset := 0
	for {
		if ctx.Err() != nil {
			return
		}
		accounts, err := s.accountRepo.ListAccounts(ctx, accountPageSize, offset)
		if err != nil {
			s.logger.Error("Failed to list accounts", slog.String("error", err.Error()))
			return
		}
		if len(accounts) == 0 {
			return
		}
		for i := range accounts {
			if ctx.Err() != nil {
				return
			}
			account := &accounts[i]
			if account.Blocked || account.Balance <= 0 || !account.HasActiveProfiles() {
				continue
			}
			if err := s.processAccount(ctx, account); err != nil {
				s.logger.Error("Account tick failed",
					slog.Int64("account_id", account.AccountID),
					slog.String("error", err.Error()))
			}
		}
		offset += accountPageSize
	}
}

// processAccount walks one account's profiles, buying until a cap or
// the balance runs out. Purchases within one account are strictly
// sequential.
func (s *SchedulerService) processAccount(ctx context.Context, account *domain.Account) error {
	balance := account.Balance

	for i := range account.Profiles {
		profile := &account.Profiles[i]
		if profile.Done {
			continue
		}

		items, err := s.gateway.FilteredCatalog(ctx, gateways.CatalogFilter{
			MinPrice:  profile.MinPrice,
			MaxPrice:  profile.MaxPrice,
			MinSupply: profile.MinSupply,
			MaxSupply: profile.MaxSupply,
		})
		if err != nil {
			s.logger.Warn("Catalog fetch failed",
				slog.Int64("account_id", account.AccountID),
				slog.String("profile_id", profile.ProfileID),
				slog.String("error", err.Error()))
			continue
		}

		recipient := gateways.Recipient{
			AccountID: profile.TargetAccountID,
			Channel:   profile.TargetChannel,
		}

	items:
		for _, item := range items {
			for profile.Bought < profile.Count &&
				profile.Spent+item.Price <= profile.Limit &&
				balance >= item.Price {

				if err := s.purchaseSvc.Execute(ctx, account.AccountID, item, recipient); err != nil {
					if errors.Is(err, apperrors.ErrInsufficientFunds) {
						break items
					}
					// Stop attempting this item, move to the next.
					break
				}

				// The executor already charged the ledger; read the
				// authoritative post-charge state.
				fresh, err := s.accountRepo.FindAccountByID(ctx, account.AccountID)
				if err != nil {
					return err
				}
				balance = fresh.Balance

				profile.Bought++
				profile.Spent += item.Price
				if err := s.accountSvc.SaveProfileProgress(ctx, account.AccountID, *profile); err != nil {
					return err
				}

				// Provider throughput limit between consecutive purchases.
				if err := s.sleep(ctx, s.cooldown); err != nil {
					return nil
				}

				if profile.Spent >= profile.Limit {
					break
				}
			}
			if profile.Completed() {
				break
			}
		}

		if profile.Completed() && !profile.Done {
			profile.Done = true
			if err := s.accountSvc.SaveProfileProgress(ctx, account.AccountID, *profile); err != nil {
				return err
			}
			// Fires once: the flag is persisted before notifying, and
			// done profiles are skipped on every later tick.
			s.notifier.ProfileCompleted(ctx, account.AccountID, *profile)
			s.logger.Info("Profile completed",
				slog.Int64("account_id", account.AccountID),
				slog.String("profile_id", profile.ProfileID),
				slog.Int64("bought", profile.Bought),
				slog.Int64("spent", profile.Spent))
		}
	}
	return nil
}

func (s *SchedulerService) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// LogNotifier is the default Notifier: it records completion events in
// the log. The conversational UI layer substitutes its own delivery.
type LogNotifier struct {
	Logger *slog.Logger
}

// ProfileCompleted implements the Notifier port.
func (n *LogNotifier) ProfileCompleted(_ context.Context, accountID int64, profile domain.Profile) {
	n.Logger.Info("Purchase profile complete",
		slog.Int64("account_id", accountID),
		slog.String("profile_id", profile.ProfileID),
		slog.Int64("bought", profile.Bought),
		slog.Int64("spent", profile.Spent))
}

var _ portssvc.Notifier = (*LogNotifier)(nil)
