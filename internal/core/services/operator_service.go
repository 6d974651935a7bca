package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/StarGiftLabs/star_gifting_app/internal/apperrors"
	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	portsrepo "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/repositories"
	portssvc "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/services"
	"github.com/StarGiftLabs/star_gifting_app/internal/dto"
	"github.com/StarGiftLabs/star_gifting_app/internal/middleware"
	"github.com/StarGiftLabs/star_gifting_app/pkg/config"
	"github.com/shopspring/decimal"
)

type operatorService struct {
	operatorRepo portsrepo.OperatorRepository
	accountRepo  portsrepo.AccountRepository
	ledger       portssvc.LedgerSvc
	cfg          *config.Config
}

// NewOperatorService creates the operator administration service.
func NewOperatorService(operatorRepo portsrepo.OperatorRepository, accountRepo portsrepo.AccountRepository, ledger portssvc.LedgerSvc, cfg *config.Config) portssvc.OperatorSvc {
	return &operatorService{
		operatorRepo: operatorRepo,
		accountRepo:  accountRepo,
		ledger:       ledger,
		cfg:          cfg,
	}
}

var _ portssvc.OperatorSvc = (*operatorService)(nil)

func (s *operatorService) Bootstrap(ctx context.Context) error {
	return s.operatorRepo.SeedOperator(ctx, s.cfg.CommissionRate)
}

func (s *operatorService) GetOperator(ctx context.Context) (*domain.OperatorLedger, error) {
	return s.operatorRepo.GetOperator(ctx)
}

func (s *operatorService) SetCommissionRate(ctx context.Context, rate decimal.Decimal) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if !s.cfg.ValidateCommissionRate(rate) {
		return fmt.Errorf("%w: rate %s outside policy window [%s, %s]",
			apperrors.ErrValidation, rate, s.cfg.MinCommissionRate, s.cfg.MaxCommissionRate)
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		operator, err := s.operatorRepo.GetOperator(ctx)
		if err != nil {
			return err
		}
		operator.CommissionRate = rate
		operator.LastUpdatedAt = time.Now().UTC()
		err = s.operatorRepo.UpdateOperator(ctx, *operator)
		if err == nil {
			logger.Info("Commission rate updated", slog.String("rate", rate.String()))
			return nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return persistenceErr(err)
		}
	}
	return fmt.Errorf("%w: operator ledger kept changing concurrently", apperrors.ErrPersistence)
}

func (s *operatorService) WithdrawCommission(ctx context.Context, amount int64) error {
	return s.ledger.WithdrawCommission(ctx, amount)
}

func (s *operatorService) Analytics(ctx context.Context) (*dto.AnalyticsResponse, error) {
	stats, err := s.accountRepo.AggregateAccountStats(ctx)
	if err != nil {
		return nil, err
	}
	operator, err := s.operatorRepo.GetOperator(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.AnalyticsResponse{
		TotalAccounts:     stats.TotalAccounts,
		ActiveAccounts:    stats.ActiveAccounts,
		TotalBalance:      stats.TotalBalance,
		TotalSpent:        stats.TotalSpent,
		CommissionBalance: operator.CommissionBalance,
		TotalCommissions:  operator.TotalEarned,
		CommissionRate:    operator.CommissionRate.String(),
	}, nil
}
