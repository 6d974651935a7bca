package services

import (
	"context"

	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	"github.com/StarGiftLabs/star_gifting_app/internal/core/ports/gateways"
)

// PurchaseSvc performs one attempt to acquire one catalog item for one
// account, charging the ledger on success.
type PurchaseSvc interface {
	// Execute sends the item to the recipient with the configured retry
	// budget, then charges the account and credits the operator admin
	// share. The account is never charged for a failed attempt.
	Execute(ctx context.Context, accountID int64, item domain.CatalogItem, recipient gateways.Recipient) error
}

// RefundSvc reconciles a withdrawal request against the account's
// unrefunded incoming transactions.
type RefundSvc interface {
	// Reconcile selects a subset of unrefunded deposits whose sum best
	// approaches target without exceeding it, reverses them via the
	// provider, and settles the ledger.
	Reconcile(ctx context.Context, accountID int64, target int64) (*domain.RefundOutcome, error)
}

// Notifier delivers user-facing progress events. The conversational UI
// layer provides the real implementation.
type Notifier interface {
	// ProfileCompleted fires once when a profile transitions to done.
	ProfileCompleted(ctx context.Context, accountID int64, profile domain.Profile)
}
