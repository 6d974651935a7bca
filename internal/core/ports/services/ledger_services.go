package services

import (
	"context"
)

// LedgerSvc exposes the balance and commission ledger operations.
// All amounts are in the smallest currency unit and must be positive.
type LedgerSvc interface {
	// Credit increases an account balance and returns the new balance.
	Credit(ctx context.Context, accountID int64, amount int64) (int64, error)

	// Debit decreases an account balance, floored at zero, and returns
	// the new balance. Callers validate sufficiency beforehand; the floor
	// is an invariant, not an overdraft path.
	Debit(ctx context.Context, accountID int64, amount int64) (int64, error)

	// ApplyCommission splits a gross deposit into commission
	// (floor(gross*rate), credited to the operator) and net (credited to
	// the depositor). The rate in effect is recorded with the entry.
	ApplyCommission(ctx context.Context, accountID int64, gross int64) (net int64, commission int64, err error)

	// WithdrawCommission debits the operator commission balance.
	// Fails with apperrors.ErrInsufficientFunds if amount exceeds it.
	WithdrawCommission(ctx context.Context, amount int64) error

	// ChargePurchase atomically debits the buyer for the item price and
	// credits the fixed admin share to the operator. Returns the new
	// account balance and the share credited.
	ChargePurchase(ctx context.Context, accountID int64, itemID string, price int64) (newBalance int64, adminShare int64, err error)

	// SettleRefund debits the account by the refunded amount (capped at
	// the current balance) and claws back commission from the operator
	// ledger, floored at zero. Returns the clawback applied.
	SettleRefund(ctx context.Context, accountID int64, refunded int64) (clawback int64, err error)
}
