package dto

import (
	"time"

	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
)

// ProfileRequest carries profile bounds from the input wizard. Bounds
// are re-validated by the service regardless of wizard-side checks.
type ProfileRequest struct {
	MinPrice  int64 `json:"minPrice" binding:"required,gt=0"`
	MaxPrice  int64 `json:"maxPrice" binding:"required,gt=0"`
	MinSupply int64 `json:"minSupply" binding:"gte=0"`
	MaxSupply int64 `json:"maxSupply" binding:"gte=0"`
	Count     int64 `json:"count" binding:"required,gt=0"`
	Limit     int64 `json:"limit" binding:"required,gt=0"`

	// Exactly one of the two targets must be set.
	TargetAccountID *int64  `json:"targetAccountID,omitempty"`
	TargetChannel   *string `json:"targetChannel,omitempty"`
}

// AccountResponse is the API representation of an account.
type AccountResponse struct {
	AccountID      int64            `json:"accountID"`
	Balance        int64            `json:"balance"`
	TotalDeposited int64            `json:"totalDeposited"`
	TotalSpent     int64            `json:"totalSpent"`
	TotalPurchases int64            `json:"totalPurchases"`
	Language       string           `json:"language"`
	Blocked        bool             `json:"blocked"`
	Profiles       []domain.Profile `json:"profiles"`
	LastActiveAt   time.Time        `json:"lastActiveAt"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// ToAccountResponse converts a domain account to its API representation.
func ToAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      account.AccountID,
		Balance:        account.Balance,
		TotalDeposited: account.TotalDeposited,
		TotalSpent:     account.TotalSpent,
		TotalPurchases: account.TotalPurchases,
		Language:       account.Language,
		Blocked:        account.Blocked,
		Profiles:       account.Profiles,
		LastActiveAt:   account.LastActiveAt,
		CreatedAt:      account.CreatedAt,
	}
}

// DepositRequest credits a successful provider payment to an account.
type DepositRequest struct {
	Gross         int64  `json:"gross" binding:"required,gt=0"`
	TransactionID string `json:"transactionID"`
}

// DepositResponse reports the commission split applied to a deposit.
type DepositResponse struct {
	Net        int64  `json:"net"`
	Commission int64  `json:"commission"`
	Rate       string `json:"rate"`
	NewBalance int64  `json:"newBalance"`
}

// SetLanguageRequest updates the account's UI language tag.
type SetLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

// SetBlockedRequest blocks or unblocks an account.
type SetBlockedRequest struct {
	Blocked bool `json:"blocked"`
}
