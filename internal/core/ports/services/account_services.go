package services

import (
	"context"

	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	"github.com/StarGiftLabs/star_gifting_app/internal/dto"
)

// AccountSvc manages accounts and their auto-purchase profiles.
type AccountSvc interface {
	// EnsureAccount returns the account for the given provider user id,
	// creating it with a default profile on first interaction.
	EnsureAccount(ctx context.Context, accountID int64) (*domain.Account, error)

	// GetAccountByID retrieves an existing account.
	GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)

	// SetBlocked blocks or unblocks an account.
	SetBlocked(ctx context.Context, accountID int64, blocked bool) error

	// SetLanguage stores the account's UI language tag.
	SetLanguage(ctx context.Context, accountID int64, language string) error

	// AddProfile appends a new profile after re-validating its bounds.
	AddProfile(ctx context.Context, accountID int64, req dto.ProfileRequest) (*domain.Profile, error)

	// UpdateProfile replaces the bounds of an existing profile.
	UpdateProfile(ctx context.Context, accountID int64, profileID string, req dto.ProfileRequest) (*domain.Profile, error)

	// RemoveProfile deletes a profile.
	RemoveProfile(ctx context.Context, accountID int64, profileID string) error

	// ResetProfile clears purchase progress (bought=spent=0, done=false).
	ResetProfile(ctx context.Context, accountID int64, profileID string) (*domain.Profile, error)

	// SaveProfileProgress persists scheduler-side counter updates for one
	// profile against the freshest account state.
	SaveProfileProgress(ctx context.Context, accountID int64, profile domain.Profile) error
}
