package services

import (
	"context"

	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	"github.com/StarGiftLabs/star_gifting_app/internal/dto"
	"github.com/shopspring/decimal"
)

// OperatorSvc exposes operator ledger administration.
type OperatorSvc interface {
	// Bootstrap creates the operator ledger on first boot, seeding the
	// commission rate from configuration. Later boots leave an
	// admin-set rate untouched.
	Bootstrap(ctx context.Context) error

	// GetOperator retrieves the operator ledger record.
	GetOperator(ctx context.Context) (*domain.OperatorLedger, error)

	// SetCommissionRate updates the deposit commission rate. The rate
	// must stay inside the configured policy window.
	SetCommissionRate(ctx context.Context, rate decimal.Decimal) error

	// WithdrawCommission debits the operator commission balance.
	WithdrawCommission(ctx context.Context, amount int64) error

	// Analytics aggregates system-wide figures for the dashboard.
	Analytics(ctx context.Context) (*dto.AnalyticsResponse, error)
}

// TokenSvc mints and validates operator API tokens.
type TokenSvc interface {
	// Login verifies the operator password and returns a signed JWT.
	Login(ctx context.Context, password string) (string, error)
}
