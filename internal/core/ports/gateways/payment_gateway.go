package gateways

import (
	"context"

	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
)

// Recipient identifies where a purchased item should be delivered.
// Exactly one of AccountID or Channel is set.
type Recipient struct {
	AccountID *int64
	Channel   *string
}

// CatalogFilter bounds the catalog query by price and supply.
type CatalogFilter struct {
	MinPrice  int64
	MaxPrice  int64
	MinSupply int64
	MaxSupply int64
}

// PaymentGateway is the boundary to the external payment provider.
// Calls can fail with apperrors.RateLimitedError (honor RetryAfter),
// *apperrors.TransientError (retryable), or apperrors.ErrProviderPermanent.
type PaymentGateway interface {
	// ListTransactions returns one page of the provider's transaction history.
	ListTransactions(ctx context.Context, offset, limit int) ([]domain.StarTransaction, error)

	// ReverseTransaction refunds one incoming transaction by id.
	ReverseTransaction(ctx context.Context, accountID int64, transactionID string) error

	// SendItem delivers one catalog item to the recipient.
	SendItem(ctx context.Context, itemID string, recipient Recipient) error

	// FilteredCatalog returns purchasable items matching the filter bounds.
	FilteredCatalog(ctx context.Context, filter CatalogFilter) ([]domain.CatalogItem, error)
}
